package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyamurthy/SimpleMusicPlayer/history"
	"github.com/vidyamurthy/SimpleMusicPlayer/player"
)

func TestSecondsToMinAndSec(t *testing.T) {
	tests := []struct {
		seconds float64
		min     int
		sec     int
	}{
		{0, 0, 0},
		{59.9, 0, 59},
		{60, 1, 0},
		{245.5, 4, 5},
		{-3, 0, 0},
	}
	for _, tt := range tests {
		min, sec := secondsToMinAndSec(tt.seconds)
		assert.Equal(t, tt.min, min, "minutes of %v", tt.seconds)
		assert.Equal(t, tt.sec, sec, "seconds of %v", tt.seconds)
	}
}

func TestFormatPlayerStatus(t *testing.T) {
	assert.Equal(t, "[80%][::b][01:05/03:20]", formatPlayerStatus(80, 65, 200))
	assert.Equal(t, "[0%][::b][00:00/00:00]", formatPlayerStatus(0, -1, -1))
}

func TestFormatProgress(t *testing.T) {
	assert.Equal(t, "00:00 [green]|>    |[-] 00:00", formatProgress(0, 0, 5))
	assert.Equal(t, "00:50 [green]|==>  |[-] 01:40", formatProgress(50, 100, 5))
	assert.Equal(t, "01:40 [green]|=====|[-] 01:40", formatProgress(150, 100, 5))
}

func TestFormatTrackForStatusBar(t *testing.T) {
	assert.Empty(t, formatTrackForStatusBar(nil))

	track := player.NewTrack("/music/01 - Cold.mp3")
	assert.Equal(t, "[::-] [white]Cold", formatTrackForStatusBar(track))

	track.Artist = "Neha Kakkar"
	assert.Equal(t, "[::-] [white]Cold [gray]by [white]Neha Kakkar", formatTrackForStatusBar(track))
}

func TestLocalURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8787", localURL(":8787"))
	assert.Equal(t, "http://127.0.0.1:9000", localURL("127.0.0.1:9000"))
}

func TestLogPage(t *testing.T) {
	ui := &Ui{}
	page := ui.createLogPage()
	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.Local)

	page.insert(at, "engine: file started")
	page.insert(at, "Error(load) -> boom")

	assert.Equal(t, 2, page.logList.GetItemCount())
	newest, _ := page.logList.GetItemText(0)
	assert.Equal(t, "[red](15:04:05) Error(load) -> boom[-]", newest)
	oldest, _ := page.logList.GetItemText(1)
	assert.Equal(t, "(15:04:05) engine: file started", oldest)

	for i := 0; i < maxLogLines+10; i++ {
		page.insert(at, "line")
	}
	assert.Equal(t, maxLogLines, page.logList.GetItemCount())
}

func TestListLibrary(t *testing.T) {
	dir := t.TempDir()
	store, err := history.Open(dir + "/history.db")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Record(history.Entry{
		Path:     "/music/Cold.mp3",
		Title:    "Cold",
		Artist:   "Neha Kakkar",
		PlayedAt: time.Now(),
	}))

	var out strings.Builder
	require.NoError(t, listLibrary(&out, []string{"/music/does-not-exist/02 - Sahiba.mp3"}, store, false))

	text := out.String()
	assert.Contains(t, text, "Tracks                     : 1")
	assert.Contains(t, text, "Sahiba")
	assert.Contains(t, text, "Recently played            : 1")
	assert.Contains(t, text, "Cold by Neha Kakkar")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "Music"), expandPath("~/Music"))
	assert.Equal(t, home, expandPath("~"))
	assert.Equal(t, "/srv/music", expandPath("/srv/music"))
	assert.Equal(t, "~other/x", expandPath("~other/x"))
	assert.Equal(t, "", expandPath(""))
}
