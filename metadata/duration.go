// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Southclaws/fault/ftag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ProbeDuration decodes the stream header of path and returns the length in
// seconds. m4a has no decoder here; the engine reports its duration once
// playing.
func ProbeDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, wrap(err, "metadata-probe-open", path, ftag.NotFound)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return 0, wrap(ErrUnsupportedFormat, "metadata-probe-format", path, ftag.InvalidArgument)
	}
	if err != nil {
		f.Close()
		return 0, wrap(err, "metadata-probe-decode", path, ftag.InvalidArgument)
	}
	// closes f as well for the ReadCloser based decoders
	defer streamer.Close()
	defer f.Close()

	if format.SampleRate <= 0 {
		return 0, wrap(errors.New("invalid sample rate"), "metadata-probe-rate", path, ftag.InvalidArgument)
	}
	return format.SampleRate.D(streamer.Len()).Seconds(), nil
}
