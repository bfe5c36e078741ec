// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

// Engine is the audio backend the Player drives. Implementations report
// asynchronous progress and end of file on the Events channel.
type Engine interface {
	// Load replaces the current file and leaves it paused at start seconds.
	Load(path string, start float64) error
	Play() error
	Pause() error
	// Stop unloads the file; no EngineFinished follows.
	Stop() error

	SetPosition(seconds float64) error
	Position() (float64, error)
	Duration() (float64, error)

	// percent in 0..100
	SetVolume(percent int) error
	Volume() (int, error)

	Events() <-chan EngineEvent
	Close()
}
