// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"strings"
	"time"

	"github.com/rivo/tview"
)

const maxLogLines = 200

type LogPage struct {
	Root *tview.Flex

	logList *tview.List

	// external refs
	ui *Ui
}

func (ui *Ui) createLogPage() *LogPage {
	logPage := LogPage{
		ui: ui,
	}

	logPage.logList = tview.NewList().ShowSecondaryText(false)
	logPage.logList.SetBorder(true).SetTitle(" Log ")

	logPage.Root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(logPage.logList, 0, 1, true)

	return &logPage
}

func (l *LogPage) Print(line string) {
	l.ui.app.QueueUpdateDraw(func() {
		l.insert(time.Now().Local(), line)
	})
}

func (l *LogPage) insert(at time.Time, line string) {
	text := at.Format("(15:04:05) ") + tview.Escape(line)
	if strings.HasPrefix(line, "Error(") {
		text = "[red]" + text + "[-]"
	}
	l.logList.InsertItem(0, text, "", 0, nil)

	for l.logList.GetItemCount() > maxLogLines {
		l.logList.RemoveItem(-1)
	}
}
