// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/vidyamurthy/SimpleMusicPlayer/history"
	"github.com/vidyamurthy/SimpleMusicPlayer/metadata"
)

const recentPlays = 10

// listLibrary prints every track with its metadata, then the most recent
// plays when a history store is open. With showProgress a bar on stderr
// tracks the metadata scan.
func listLibrary(w io.Writer, tracks []string, store *history.Store, showProgress bool) error {
	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(tracks),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("reading tags"),
			progressbar.OptionClearOnFinish(),
		)
	}

	rows := make([]metadata.Metadata, len(tracks))
	for i, path := range tracks {
		// Extract always returns something printable
		rows[i], _ = metadata.Extract(path)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	fmt.Fprintf(w, "%-27s: %d\n", "Tracks", len(tracks))
	for i, md := range rows {
		minutes, seconds := secondsToMinAndSec(md.Duration)
		fmt.Fprintf(w, "%4d  %02d:%02d  %-30s %-20s %-20s %s\n",
			i+1, minutes, seconds, md.Title, md.Artist, md.Album, tracks[i])
	}

	if store == nil {
		return nil
	}

	entries, err := store.Recent(recentPlays)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%-27s: %d\n", "Recently played", len(entries))
	for _, e := range entries {
		fmt.Fprintf(w, "  %s  %s by %s\n", e.PlayedAt.Local().Format("2006-01-02 15:04"), e.Title, e.Artist)
	}
	return nil
}
