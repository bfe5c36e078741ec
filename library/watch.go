// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package library

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vidyamurthy/SimpleMusicPlayer/logger"
)

// settle delay so a burst of copies triggers one rescan
const watchDebounce = 500 * time.Millisecond

// Watch rescans dir whenever audio files are created, removed or renamed in
// it and passes the new list to onChange. It blocks until ctx is done.
// Only dir itself is watched, not its subdirectories.
func Watch(ctx context.Context, dir string, logger logger.LoggerInterface, onChange func([]string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	rescan := time.NewTimer(0)
	if !rescan.Stop() {
		<-rescan.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsAudioFile(evt.Name) {
				continue
			}
			if evt.Has(fsnotify.Create) || evt.Has(fsnotify.Remove) || evt.Has(fsnotify.Rename) {
				rescan.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.PrintError("library.Watch", err)

		case <-rescan.C:
			tracks, err := Scan(dir)
			if err != nil {
				logger.PrintError("library.Watch rescan", err)
				continue
			}
			logger.Printf("library: %d tracks after rescan", len(tracks))
			onChange(tracks)
		}
	}
}
