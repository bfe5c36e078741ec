// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

import (
	"github.com/rs/xid"
	"github.com/vidyamurthy/SimpleMusicPlayer/metadata"
	"github.com/vidyamurthy/SimpleMusicPlayer/remote"
)

// Track is one entry of the library. Tracks are immutable once handed out;
// loading a track replaces its entry with one carrying the full metadata.
type Track struct {
	Id   string
	Path string
	metadata.Metadata
}

var _ remote.TrackInterface = (*Track)(nil)

// NewTrack makes a track whose display fields come from the file name only.
func NewTrack(path string) *Track {
	return &Track{
		Id:       xid.New().String(),
		Path:     path,
		Metadata: metadata.FromPath(path),
	}
}

func (t *Track) withMetadata(md metadata.Metadata) *Track {
	return &Track{Id: t.Id, Path: t.Path, Metadata: md}
}

func (t *Track) GetId() string {
	return t.Id
}

func (t *Track) GetPath() string {
	return t.Path
}

func (t *Track) GetArtist() string {
	return t.Artist
}

func (t *Track) GetTitle() string {
	return t.Title
}

func (t *Track) GetAlbum() string {
	return t.Album
}

func (t *Track) GetTrackNumber() int {
	return t.TrackNumber
}

func (t *Track) GetDuration() int {
	return int(t.Duration)
}

func (t *Track) GetArtwork() ([]byte, string) {
	return metadata.ArtworkBytes(t.Metadata)
}

func (t *Track) IsValid() bool {
	return t != nil && t.Id != ""
}
