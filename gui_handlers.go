// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/vidyamurthy/SimpleMusicPlayer/resume"
)

const (
	seekStep   = 10.0
	volumeStep = 5
)

func (ui *Ui) handlePageInput(event *tcell.EventKey) *tcell.EventKey {
	if ui.helpWidget.visible {
		return event
	}

	switch event.Key() {
	case tcell.KeyLeft:
		ui.seek(-seekStep)
		return nil
	case tcell.KeyRight:
		ui.seek(seekStep)
		return nil
	case tcell.KeyRune:
	default:
		return event
	}

	switch event.Rune() {
	case '1':
		ui.ShowPage(PagePlayer)

	case '2':
		ui.ShowPage(PageLog)

	case '?':
		ui.ShowHelp()

	case 'Q':
		ui.Quit()

	case 'p', ' ':
		if err := ui.player.TogglePlayPause(); err != nil {
			ui.logger.PrintError("handlePageInput: TogglePlayPause", err)
		}

	case 'P':
		ui.logger.Print("key stop")
		if err := ui.player.Stop(); err != nil {
			ui.logger.PrintError("handlePageInput: Stop", err)
		}

	case '-':
		if err := ui.player.AdjustVolume(-volumeStep); err != nil {
			ui.logger.PrintError("handlePageInput: AdjustVolume-", err)
		}

	case '+', '=':
		if err := ui.player.AdjustVolume(volumeStep); err != nil {
			ui.logger.PrintError("handlePageInput: AdjustVolume+", err)
		}

	case '.':
		ui.seek(seekStep)

	case ',':
		ui.seek(-seekStep)

	case '>':
		if err := ui.player.NextTrack(); err != nil {
			ui.logger.PrintError("handlePageInput: Next", err)
		}

	default:
		return event
	}

	return nil
}

func (ui *Ui) seek(delta float64) {
	if err := ui.player.SeekRelative(delta); err != nil {
		ui.logger.PrintError("handlePageInput: Seek", err)
	}
}

func (ui *Ui) ShowPage(name string) {
	ui.pages.SwitchToPage(name)
	ui.menuWidget.SetActivePage(name)
	_, prim := ui.pages.GetFrontPage()
	ui.app.SetFocus(prim)
}

func (ui *Ui) Quit() {
	ui.saveSession()
	ui.playerPage.Close()
	ui.app.Stop()
}

// saveSession writes the current track and position for the next start.
// Without a current track the state file is cleared.
func (ui *Ui) saveSession() {
	if ui.stateFile == "" {
		return
	}

	status := ui.player.Status()
	volume := status.Volume
	session := resume.Session{
		Volume:  &volume,
		SavedAt: time.Now(),
	}
	if status.Track != nil {
		session.Path = status.Track.Path
		session.Position = status.Position
	}

	if err := resume.Save(ui.stateFile, session); err != nil {
		ui.logger.PrintError("saveSession", err)
	}
}
