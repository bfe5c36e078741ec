// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpvplayer

import (
	"errors"

	"github.com/supersonic-app/go-mpv"
	"github.com/vidyamurthy/SimpleMusicPlayer/player"
)

var errOpenFailed = errors.New("mpv could not open the file")

// EventLoop translates mpv events into player.EngineEvents until Close is
// called. It closes the Events channel on return.
func (e *Engine) EventLoop() {
	defer close(e.events)

	if err := e.instance.ObserveProperty(0, "time-pos", mpv.FORMAT_DOUBLE); err != nil {
		e.logger.PrintError("Observe1", err)
	}
	if err := e.instance.ObserveProperty(0, "duration", mpv.FORMAT_DOUBLE); err != nil {
		e.logger.PrintError("Observe2", err)
	}
	if err := e.instance.ObserveProperty(0, "volume", mpv.FORMAT_INT64); err != nil {
		e.logger.PrintError("Observe3", err)
	}

	for {
		var evt *mpv.Event
		select {
		case <-e.quit:
			return
		case evt = <-e.mpvEvents:
		}
		if evt == nil {
			continue
		}

		switch evt.Event_Id {
		case mpv.EVENT_PROPERTY_CHANGE:
			e.sendProgress()

		case mpv.EVENT_START_FILE:
			e.logger.Print("mpv.EventLoop: start file")
			e.endFiles.started()

		case mpv.EVENT_FILE_LOADED:
			e.fileLoaded.Store(true)
			if start := e.takePendingSeek(); start > 0 {
				if err := e.instance.Command(seekCommand(start)); err != nil {
					e.logger.PrintError("mpv.EventLoop: seek", err)
				}
			}
			e.send(player.EngineEvent{Type: player.EngineStarted})

		case mpv.EVENT_END_FILE:
			if e.endFiles.ownEndFile() {
				// feedback for our own stop or loadfile replace
				continue
			}
			if e.stopped.Load() {
				e.logger.Print("mpv.EventLoop: mpv stopped")
				continue
			}
			if !e.fileLoaded.Load() {
				e.send(player.EngineEvent{Type: player.EngineFailed, Err: errOpenFailed})
				continue
			}
			e.fileLoaded.Store(false)
			e.send(player.EngineEvent{Type: player.EngineFinished})

		case mpv.EVENT_IDLE, mpv.EVENT_NONE:
			continue

		default:
			e.logger.Printf("mpv.EventLoop: unhandled event id %v", evt.Event_Id)
		}
	}
}

func (e *Engine) sendProgress() {
	position, err := e.getPropertyFloat64("time-pos")
	if err != nil {
		position = -1
	}
	duration, err := e.getPropertyFloat64("duration")
	if err != nil {
		duration = -1
	}
	volume, err := e.getPropertyInt64("volume")
	if err != nil {
		volume = -1
	}

	evt := player.EngineEvent{
		Type:     player.EngineProgress,
		Position: position,
		Duration: duration,
		Volume:   int(volume),
	}

	// progress reports are dropped when the player falls behind
	select {
	case e.events <- evt:
	default:
	}
}

func (e *Engine) send(evt player.EngineEvent) {
	select {
	case e.events <- evt:
	case <-e.quit:
	}
}
