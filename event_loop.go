// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"sync/atomic"
	"time"

	"github.com/vidyamurthy/SimpleMusicPlayer/history"
	"github.com/vidyamurthy/SimpleMusicPlayer/player"
)

// websocket status pushes are limited to one per interval
const statusBroadcastInterval = time.Second

type eventLoop struct {
	// history records are handled by the background loop
	historyTimer   *time.Timer
	historyPending atomic.Pointer[player.Track]

	lastBroadcast time.Time

	quit chan struct{}
}

func (ui *Ui) initEventLoops() {
	el := &eventLoop{
		quit: make(chan struct{}),
	}
	ui.eventLoop = el

	// create reused timer to record a play after a delay
	el.historyTimer = time.NewTimer(0)
	if !el.historyTimer.Stop() {
		<-el.historyTimer.C
	}
}

func (ui *Ui) runEventLoops() {
	go ui.guiEventLoop()
	go ui.backgroundEventLoop()
}

func (ui *Ui) stopEventLoops() {
	close(ui.eventLoop.quit)
	ui.player.Unsubscribe(ui.playerEvents)
}

// handle ui updates
func (ui *Ui) guiEventLoop() {
	for {
		select {
		case <-ui.eventLoop.quit:
			return

		case msg := <-ui.logger.Prints:
			ui.logPage.Print(msg)

		case evt, ok := <-ui.playerEvents:
			if !ok {
				return
			}
			ui.handlePlayerEvent(evt)
		}
	}
}

func (ui *Ui) handlePlayerEvent(evt player.UiEvent) {
	ui.broadcast(evt)

	switch evt.Type {
	case player.EventStatus:
		statusData, ok := evt.Data.(player.StatusData)
		if !ok {
			return
		}
		ui.app.QueueUpdateDraw(func() {
			ui.playerStatus.SetText(formatPlayerStatus(statusData.Volume, statusData.Position, statusData.Duration))
			ui.playerPage.UpdateProgress(statusData.Position, statusData.Duration)
		})

	case player.EventStopped:
		ui.logger.Print("playerEvent: stopped")
		status := ui.player.Status()
		ui.app.QueueUpdateDraw(func() {
			ui.startStopStatus.SetText(ui.stateText(player.Loaded, status.Track))
			ui.playerPage.UpdateProgress(0, status.Duration)
			if status.Track == nil {
				ui.playerPage.ShowTrack(nil)
			}
		})

	case player.EventPlaying:
		ui.logger.Print("playerEvent: playing")
		track, _ := evt.Data.(*player.Track)
		if track != nil {
			ui.startHistoryTimer(track)
		}
		ui.app.QueueUpdateDraw(func() {
			ui.startStopStatus.SetText(ui.stateText(player.Playing, track))
		})

	case player.EventUnpaused:
		ui.logger.Print("playerEvent: unpaused")
		track, _ := evt.Data.(*player.Track)
		ui.app.QueueUpdateDraw(func() {
			ui.startStopStatus.SetText(ui.stateText(player.Playing, track))
		})

	case player.EventPaused:
		ui.logger.Print("playerEvent: paused")
		track, _ := evt.Data.(*player.Track)
		ui.app.QueueUpdateDraw(func() {
			ui.startStopStatus.SetText(ui.stateText(player.Paused, track))
		})

	case player.EventTrackChanged:
		track, _ := evt.Data.(*player.Track)
		if track == nil {
			return
		}
		ui.logger.Printf("playerEvent: now %s", track.GetPath())
		ui.app.QueueUpdateDraw(func() {
			ui.playerPage.ShowTrack(track)
			ui.playerPage.UpdateProgress(0, track.Duration)
		})

	case player.EventSeeked:
		position, _ := evt.Data.(float64)
		status := ui.player.Status()
		ui.app.QueueUpdateDraw(func() {
			ui.playerPage.UpdateProgress(position, status.Duration)
		})

	case player.EventLibraryChanged:
		count, _ := evt.Data.(int)
		ui.logger.Printf("playerEvent: library now has %d tracks", count)
		status := ui.player.Status()
		if status.Track == nil {
			return
		}
		ui.app.QueueUpdateDraw(func() {
			ui.playerPage.ShowTrack(status.Track)
		})

	case player.EventError:
		err, _ := evt.Data.(error)
		if err == nil {
			return
		}
		ui.app.QueueUpdateDraw(func() {
			ui.startStopStatus.SetText("[red::b]Error[::-] " + err.Error())
		})

	default:
		ui.logger.Printf("guiEventLoop: unhandled playerEvent %v", evt.Type)
	}
}

// startHistoryTimer arms the play-count timer for track. Tracks at or under
// history.MinDuration are never recorded.
func (ui *Ui) startHistoryTimer(track *player.Track) {
	if ui.history == nil {
		return
	}

	seconds := track.Duration
	if seconds <= 0 {
		// tags gave no length; fall back to what the engine reported
		seconds = ui.player.Status().Duration
	}
	duration := time.Duration(seconds * float64(time.Second))
	delay, ok := history.PlayThreshold(duration)
	if !ok {
		ui.eventLoop.historyTimer.Stop()
		ui.eventLoop.historyPending.Store(nil)
		ui.logger.Printf("history: track too short")
		return
	}

	ui.eventLoop.historyPending.Store(track)
	ui.eventLoop.historyTimer.Reset(delay)
	ui.logger.Printf("history: timer started, %v", delay)
}

// broadcast forwards events to websocket clients; status ticks are throttled.
func (ui *Ui) broadcast(evt player.UiEvent) {
	if ui.httpServer == nil {
		return
	}
	if evt.Type == player.EventStatus {
		now := time.Now()
		if now.Sub(ui.eventLoop.lastBroadcast) < statusBroadcastInterval {
			return
		}
		ui.eventLoop.lastBroadcast = now
	}
	ui.httpServer.BroadcastStatus(evt.Type.String())
}

// loop for blocking background tasks that would otherwise block the ui
func (ui *Ui) backgroundEventLoop() {
	for {
		select {
		case <-ui.eventLoop.quit:
			return

		case <-ui.eventLoop.historyTimer.C:
			pending := ui.eventLoop.historyPending.Swap(nil)
			if pending == nil {
				continue
			}

			status := ui.player.Status()
			if status.State != player.Playing || status.Track == nil || status.Track.Path != pending.Path {
				// user paused, stopped or skipped
				ui.logger.Printf("history: not recording %s, no longer playing", pending.GetTitle())
				continue
			}

			ui.logger.Printf("history: recording %s", pending.GetTitle())
			if err := ui.history.Record(historyEntry(pending)); err != nil {
				ui.logger.PrintError("history.Record", err)
			}
		}
	}
}

func historyEntry(track *player.Track) history.Entry {
	return history.Entry{
		Path:     track.Path,
		Title:    track.Title,
		Artist:   track.Artist,
		Album:    track.Album,
		Duration: track.GetDuration(),
		PlayedAt: time.Now(),
	}
}
