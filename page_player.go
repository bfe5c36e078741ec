// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"image"
	"text/template"

	"github.com/rivo/tview"
	"github.com/vidyamurthy/SimpleMusicPlayer/metadata"
	"github.com/vidyamurthy/SimpleMusicPlayer/remote"
)

type PlayerPage struct {
	Root *tview.Flex

	artwork  *tview.Image
	songInfo *tview.TextView
	progress *tview.TextView

	songInfoTemplate *template.Template

	// path of the track shown; only touched from the tview goroutine
	currentPath string

	artworkCache *Cache[image.Image]

	// external refs
	ui *Ui
}

type songInfoData struct {
	remote.TrackInterface
	Position int
	Count    int
}

func (ui *Ui) createPlayerPage(cacheSize int) *PlayerPage {
	songInfoTemplate, err := template.New("song info").
		Funcs(template.FuncMap{"escape": tview.Escape}).
		Parse(songInfoTemplateString)
	if err != nil {
		ui.logger.PrintError("createPlayerPage", err)
	}

	playerPage := PlayerPage{
		ui:               ui,
		songInfoTemplate: songInfoTemplate,
	}

	playerPage.artwork = tview.NewImage().SetImage(metadata.DefaultArtwork())
	playerPage.artwork.SetBorder(true).SetTitle(" Artwork ")

	playerPage.songInfo = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	playerPage.songInfo.SetBorder(true).SetTitle(" Now Playing ")

	playerPage.progress = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText(formatProgress(0, 0, progressBarWidth))

	lru := NewLRU(cacheSize)
	playerPage.artworkCache = NewCache(
		metadata.DefaultArtwork(),
		metadata.LoadArtwork,
		func(path string, img image.Image) {
			ui.app.QueueUpdateDraw(func() {
				if playerPage.currentPath == path {
					playerPage.artwork.SetImage(img)
				}
			})
		},
		lru.Touch,
		ui.logger,
	)

	top := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(playerPage.artwork, 0, 1, false).
		AddItem(playerPage.songInfo, 0, 1, false)

	playerPage.Root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 1, false).
		AddItem(playerPage.progress, 1, 0, false)

	playerPage.ShowTrack(nil)

	return &playerPage
}

// ShowTrack renders the labels and artwork for track; nil clears them.
// Must run on the tview goroutine.
func (p *PlayerPage) ShowTrack(track remote.TrackInterface) {
	p.songInfo.Clear()

	if track == nil {
		p.currentPath = ""
		p.artwork.SetImage(metadata.DefaultArtwork())
		p.songInfo.SetText("[gray]nothing loaded[-]")
		return
	}

	p.currentPath = track.GetPath()
	p.artwork.SetImage(p.artworkCache.Get(p.currentPath))

	status := p.ui.player.Status()
	data := songInfoData{
		TrackInterface: track,
		Position:       status.Index + 1,
		Count:          status.Tracks,
	}
	if p.songInfoTemplate != nil {
		_ = p.songInfoTemplate.Execute(p.songInfo, data)
	}
}

func (p *PlayerPage) UpdateProgress(position, duration float64) {
	p.progress.SetText(formatProgress(position, duration, progressBarWidth))
}

func (p *PlayerPage) Close() {
	p.artworkCache.Close()
}

var songInfoTemplateString = `[blue::b]Title:[-:-:-:-] [green::i]{{escape .GetTitle}}[-:-:-:-]
[blue::b]Artist:[-:-:-:-] [::i]{{escape .GetArtist}}[-:-:-:-]
[blue::b]Album:[-:-:-:-] [::i]{{escape .GetAlbum}}[-:-:-:-]
[blue::b]Track:[-:-:-:-] [::i]{{if .GetTrackNumber}}{{.GetTrackNumber}}{{else}}-{{end}}[-:-:-:-]
[blue::b]File:[-:-:-:-] [gray]{{if gt .Position 0}}{{.Position}} of {{.Count}}{{else}}not in library{{end}}[-:-:-:-]`
