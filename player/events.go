// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

type UiEventType int

const (
	// playback halted, data: nil
	EventStopped UiEventType = iota
	// playback started from Loaded, data: *Track
	EventPlaying
	// paused/unpaused track, data: *Track
	EventUnpaused
	EventPaused
	// progress report, data: StatusData
	EventStatus
	// a new track became current, data: *Track
	EventTrackChanged
	// position jumped, data: float64 seconds
	EventSeeked
	// the track list was replaced, data: int track count
	EventLibraryChanged
	// load or engine failure, data: error
	EventError
)

func (t UiEventType) String() string {
	switch t {
	case EventStopped:
		return "stopped"
	case EventPlaying:
		return "playing"
	case EventUnpaused:
		return "unpaused"
	case EventPaused:
		return "paused"
	case EventStatus:
		return "status"
	case EventTrackChanged:
		return "trackChanged"
	case EventSeeked:
		return "seeked"
	case EventLibraryChanged:
		return "libraryChanged"
	case EventError:
		return "error"
	}
	return "unknown"
}

type UiEvent struct {
	Type UiEventType
	Data interface{}
}

// StatusData is a player progress report for the UI
type StatusData struct {
	Volume   int
	Position float64
	Duration float64
}

// EngineEventType is what the audio engine reports back to the Player.
type EngineEventType int

const (
	// the file is open and producing sound (or paused at its start)
	EngineStarted EngineEventType = iota
	// periodic position/duration/volume report
	EngineProgress
	// natural end of file, not a stop or replace
	EngineFinished
	// the file could not be opened or decoded
	EngineFailed
)

type EngineEvent struct {
	Type EngineEventType

	// valid for EngineProgress; negative when unknown
	Position float64
	Duration float64
	Volume   int

	// valid for EngineFailed
	Err error
}

// subscriber topic for all player events
const topicPlayer = "player"

// capacity of each subscriber channel
const subscriberBuffer = 64
