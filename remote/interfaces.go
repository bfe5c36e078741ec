// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

type ControlledPlayer interface {
	IsPaused() bool
	IsPlaying() bool

	// Registers a callback which is invoked when the player transitions to the Paused state.
	OnPaused(cb func())

	// Registers a callback which is invoked when the player transitions to the Stopped state.
	OnStopped(cb func())

	// Registers a callback which is invoked when the player transitions to the Playing state.
	OnPlaying(cb func())

	// Registers a callback which is invoked whenever a seek event occurs.
	// The argument is the new position in seconds.
	OnSeek(cb func(position float64))

	OnSongChange(cb func(track TrackInterface))

	// position in seconds
	GetTimePos() float64
	GetVolume() int
	// nil when nothing has been loaded yet
	CurrentTrack() TrackInterface
	Tracks() []TrackInterface
	StateName() string

	// Play from an idle player picks a track first.
	Play() error
	Pause() error
	TogglePlayPause() error
	Stop() error
	NextTrack() error
	SeekAbsolute(seconds float64) error
	SeekRelative(seconds float64) error

	SetVolume(percentValue int) error
}

type TrackInterface interface {
	GetId() string
	GetPath() string
	GetArtist() string
	GetTitle() string
	GetAlbum() string
	GetTrackNumber() int
	// seconds
	GetDuration() int
	// raw artwork bytes and MIME type, the default image if the file has none
	GetArtwork() ([]byte, string)

	// something like ID != ""
	IsValid() bool
}
