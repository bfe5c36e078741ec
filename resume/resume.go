// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package resume persists where playback stopped so the next start can pick
// up at the same spot.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ugorji/go/codec"
)

// Session is the state written on quit.
type Session struct {
	Path     string  `json:"path"`
	Position float64 `json:"position"`
	// nil when the file predates volume saving
	Volume  *int      `json:"volume"`
	SavedAt time.Time `json:"saved_at"`
}

// SavedVolume reports the stored volume. 0 (muted) is a valid volume.
func (s Session) SavedVolume() (int, bool) {
	if s.Volume == nil {
		return 0, false
	}
	return *s.Volume, true
}

func jsonHandle() *codec.JsonHandle {
	h := &codec.JsonHandle{}
	h.Indent = 2
	return h
}

// Save writes s to file, replacing it atomically.
func Save(file string, s Session) error {
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now()
	}

	var buf bytes.Buffer
	if err := codec.NewEncoder(&buf, jsonHandle()).Encode(s); err != nil {
		return fmt.Errorf("resume: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	if err := os.Rename(tmp, file); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("resume: %w", err)
	}
	return nil
}

// Load reads the session in file. A missing file is not an error: the zero
// Session and false are returned.
func Load(file string) (Session, bool, error) {
	var s Session

	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return s, false, nil
	} else if err != nil {
		return s, false, fmt.Errorf("resume: %w", err)
	}

	if err := codec.NewDecoderBytes(data, jsonHandle()).Decode(&s); err != nil {
		return Session{}, false, fmt.Errorf("resume: decode %s: %w", file, err)
	}
	if s.Path == "" {
		return Session{}, false, nil
	}
	return s, true, nil
}
