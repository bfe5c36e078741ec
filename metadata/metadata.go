// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package metadata reads the display metadata of a local audio file.
package metadata

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/dhowden/tag"
)

// Metadata is what the player shows for a track. Missing text fields are
// empty strings; a nil Artwork means the default image is shown.
type Metadata struct {
	Title       string
	Artist      string
	Album       string
	TrackNumber int

	// Duration in seconds, 0 if unknown
	Duration float64

	Artwork     []byte
	ArtworkMIME string
}

func (m Metadata) HasArtwork() bool {
	return len(m.Artwork) > 0
}

var trackPrefix = regexp.MustCompile(`^(\d+)[\.\-\s]+(.+)`)

// Extract reads tags and probes the duration of the file at path.
// It always returns usable metadata; the error reports why the tags could
// not be read, in which case the title comes from the file name.
func Extract(path string) (Metadata, error) {
	md, err := readTags(path)
	if err != nil {
		md = FromPath(path)
	}

	if d, perr := ProbeDuration(path); perr == nil {
		md.Duration = d
	}

	return md, err
}

func readTags(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, wrap(err, "metadata-open", path, ftag.NotFound)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Metadata{}, wrap(err, "metadata-read-tags", path, ftag.InvalidArgument)
	}

	md := Metadata{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
	}
	md.TrackNumber, _ = m.Track()

	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		md.Artwork = pic.Data
		md.ArtworkMIME = pic.MIMEType
	}

	// tagged file without a title
	if md.Title == "" {
		fallback := FromPath(path)
		md.Title = fallback.Title
		if md.TrackNumber == 0 {
			md.TrackNumber = fallback.TrackNumber
		}
	}

	return md, nil
}

// FromPath derives a title and track number from a file name like
// "01 - Song Title.mp3". Artist and album stay empty.
func FromPath(path string) Metadata {
	md := Metadata{}

	name := filepath.Base(path)
	title := strings.TrimSuffix(name, filepath.Ext(name))

	if matches := trackPrefix.FindStringSubmatch(title); len(matches) > 2 {
		title = matches[2]
		if n, err := strconv.Atoi(matches[1]); err == nil {
			md.TrackNumber = n
		}
	}

	md.Title = strings.TrimSpace(title)
	return md
}

func wrap(err error, at, path string, kind ftag.Kind) error {
	return fault.Wrap(err,
		fctx.With(context.Background(), "error_at", at, "path", path),
		ftag.With(kind),
		fmsg.With(at+" "+filepath.Base(path)),
	)
}
