// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

import "fmt"

// State is the playback state of the Player.
type State int

const (
	// nothing loaded yet, or the last load failed
	Idle State = iota
	// a track is current but the engine isn't producing sound
	Loaded
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Trigger is an input to the state machine.
type Trigger int

const (
	TriggerLoad Trigger = iota
	TriggerPlay
	TriggerPause
	TriggerSeek
	TriggerTrackFinished
)

func (t Trigger) String() string {
	switch t {
	case TriggerLoad:
		return "load"
	case TriggerPlay:
		return "play"
	case TriggerPause:
		return "pause"
	case TriggerSeek:
		return "seek"
	case TriggerTrackFinished:
		return "trackFinished"
	}
	return fmt.Sprintf("Trigger(%d)", int(t))
}

// Transition returns the state reached from s on t. Triggers that need a
// current track fail with ErrNoTrack in Idle.
func (s State) Transition(t Trigger) (State, error) {
	if t == TriggerLoad {
		return Loaded, nil
	}

	if s == Idle {
		switch t {
		case TriggerPause, TriggerTrackFinished:
			return Idle, nil
		default:
			return Idle, fmt.Errorf("%s while %s: %w", t, s, ErrNoTrack)
		}
	}

	switch t {
	case TriggerPlay, TriggerSeek:
		// a seek always resumes playback
		return Playing, nil
	case TriggerPause:
		return Paused, nil
	case TriggerTrackFinished:
		return Loaded, nil
	}
	return s, fmt.Errorf("unknown trigger %s", t)
}
