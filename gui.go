// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/vidyamurthy/SimpleMusicPlayer/history"
	"github.com/vidyamurthy/SimpleMusicPlayer/logger"
	"github.com/vidyamurthy/SimpleMusicPlayer/player"
	"github.com/vidyamurthy/SimpleMusicPlayer/remote"
)

// struct contains all the updatable elements of the Ui
type Ui struct {
	app   *tview.Application
	pages *tview.Pages

	// top bar
	startStopStatus *tview.TextView
	playerStatus    *tview.TextView

	// bottom bar
	menuWidget *MenuWidget

	playerPage *PlayerPage
	logPage    *LogPage

	// modals
	helpModal  tview.Primitive
	helpWidget *HelpWidget

	eventLoop    *eventLoop
	playerEvents chan player.UiEvent

	httpServer *remote.HttpServer
	history    *history.Store
	stateFile  string

	player *player.Player
	logger *logger.Logger
}

// guiOptions carries the optional collaborators; zero values disable them.
type guiOptions struct {
	ArtworkCacheSize int
	StateFile        string
	History          *history.Store
	HttpServer       *remote.HttpServer
}

const (
	// page identifiers (use these instead of hardcoding page names for showing/hiding)
	PagePlayer = "player"
	PageLog    = "log"

	PageHelpBox = "helpBox"
)

func InitGui(player *player.Player, logger *logger.Logger, opts guiOptions) (ui *Ui) {
	ui = &Ui{
		eventLoop:    nil, // initialized by initEventLoops()
		playerEvents: player.Subscribe(),

		httpServer: opts.HttpServer,
		history:    opts.History,
		stateFile:  opts.StateFile,

		player: player,
		logger: logger,
	}

	ui.initEventLoops()

	ui.app = tview.NewApplication()
	ui.pages = tview.NewPages()

	statusLeft := fmt.Sprintf("[::b]%s[::-] %s [red::b]Stopped[::-]", clientName, Version)
	ui.startStopStatus = tview.NewTextView().SetText(statusLeft).
		SetTextAlign(tview.AlignLeft).
		SetDynamicColors(true).
		SetScrollable(false)
	ui.startStopStatus.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		return action, nil
	})

	statusRight := formatPlayerStatus(player.GetVolume(), 0, 0)
	ui.playerStatus = tview.NewTextView().SetText(statusRight).
		SetTextAlign(tview.AlignRight).
		SetDynamicColors(true).
		SetScrollable(false)

	ui.menuWidget = ui.createMenuWidget()
	ui.helpWidget = ui.createHelpWidget()

	ui.helpModal = makeModal(ui.helpWidget.Root, 80, 16)
	ui.helpWidget.Root.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// the capture stays installed after closing, so check visibility
		if ui.helpWidget.visible && (event.Key() == tcell.KeyEscape) {
			ui.CloseHelp()
		}
		return event
	})

	topBarFlex := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(ui.startStopStatus, 0, 1, false).
		AddItem(ui.playerStatus, 20, 0, false)

	ui.playerPage = ui.createPlayerPage(opts.ArtworkCacheSize)
	ui.logPage = ui.createLogPage()

	ui.pages.AddPage(PagePlayer, ui.playerPage.Root, true, true).
		AddPage(PageLog, ui.logPage.Root, true, false).
		AddPage(PageHelpBox, ui.helpModal, true, false)

	rootFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(topBarFlex, 1, 0, false).
		AddItem(ui.pages, 0, 1, true).
		AddItem(ui.menuWidget.Root, 1, 0, false)

	rootFlex.SetInputCapture(ui.handlePageInput)

	ui.app.SetRoot(rootFlex, true).
		SetFocus(rootFlex).
		EnableMouse(true)

	// a restored session is already current before the gui exists
	if track := player.Status().Track; track != nil {
		ui.playerPage.ShowTrack(track)
		ui.startStopStatus.SetText(ui.stateText(player.Status().State, track))
	}

	return ui
}

func (ui *Ui) Run() error {
	ui.runEventLoops()
	defer ui.stopEventLoops()

	// gui main loop (blocking)
	return ui.app.Run()
}

func (ui *Ui) ShowHelp() {
	activePage := ui.menuWidget.GetActivePage()
	ui.helpWidget.RenderHelp(activePage)

	ui.pages.ShowPage(PageHelpBox)
	ui.pages.SendToFront(PageHelpBox)
	ui.app.SetFocus(ui.helpModal)
	ui.helpWidget.visible = true
}

func (ui *Ui) CloseHelp() {
	ui.helpWidget.visible = false
	ui.pages.HidePage(PageHelpBox)
}

func (ui *Ui) stateText(state player.State, track *player.Track) string {
	var text string
	switch state {
	case player.Playing:
		text = "[green::b]Playing[::-]"
	case player.Paused:
		text = "[yellow::b]Paused[::-]"
	default:
		text = "[red::b]Stopped[::-]"
	}
	if track != nil {
		text += formatTrackForStatusBar(track)
	}
	return text
}
