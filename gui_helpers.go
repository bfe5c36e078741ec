// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
	"github.com/vidyamurthy/SimpleMusicPlayer/remote"
)

const progressBarWidth = 40

func makeModal(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewGrid().
		SetColumns(0, width, 0).
		SetRows(0, height, 0).
		AddItem(p, 1, 1, 1, 1, 0, 0, true)
}

func formatPlayerStatus(volume int, position, duration float64) string {
	positionMin, positionSec := secondsToMinAndSec(position)
	durationMin, durationSec := secondsToMinAndSec(duration)

	return fmt.Sprintf("[%d%%][::b][%02d:%02d/%02d:%02d]", volume, positionMin, positionSec, durationMin, durationSec)
}

func formatTrackForStatusBar(track remote.TrackInterface) (text string) {
	if track == nil {
		return
	}
	if track.GetTitle() != "" {
		text += "[::-] [white]" + tview.Escape(track.GetTitle())
	}
	if track.GetArtist() != "" {
		text += " [gray]by [white]" + tview.Escape(track.GetArtist())
	}
	return
}

// formatProgress renders "mm:ss |=====>    | mm:ss" for the player page.
func formatProgress(position, duration float64, width int) string {
	if position < 0 {
		position = 0
	}
	if duration < 0 {
		duration = 0
	}
	if position > duration {
		position = duration
	}

	filled := 0
	if duration > 0 {
		filled = int(float64(width) * position / duration)
	}
	bar := strings.Repeat("=", filled)
	if filled < width {
		bar += ">" + strings.Repeat(" ", width-filled-1)
	}

	positionMin, positionSec := secondsToMinAndSec(position)
	durationMin, durationSec := secondsToMinAndSec(duration)
	return fmt.Sprintf("%02d:%02d [green]|%s|[-] %02d:%02d", positionMin, positionSec, bar, durationMin, durationSec)
}
