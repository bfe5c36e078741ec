// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package library builds the fixed list of track files the player picks from.
package library

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

var ErrEmptyLibrary = errors.New("library: no tracks")

// Extensions lists the file types picked up by Scan, in preference order for
// files sharing a stem.
var Extensions = []string{".flac", ".mp3", ".ogg", ".m4a", ".wav"}

// NamedExtension is appended to names listed in library.tracks.
const NamedExtension = ".mp3"

func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan walks dir for audio files and returns them sorted by path. When the
// same stem exists in several formats only the preferred one is kept.
func Scan(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "library-scan-stat", "dir", dir),
			ftag.With(ftag.NotFound),
			fmsg.WithDesc("stat library dir", "Music directory "+dir+" does not exist"),
		)
	}
	if !info.IsDir() {
		return nil, fault.Wrap(fault.New("not a directory"),
			fctx.With(context.Background(), "error_at", "library-scan-dir", "dir", dir),
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("library dir is a file", dir+" is not a directory"),
		)
	}

	files := make([]string, 0)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable subdirectories are skipped, not fatal
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() && IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fault.Wrap(err,
			fctx.With(context.Background(), "error_at", "library-scan-walk", "dir", dir),
			ftag.With(ftag.Internal),
			fmsg.WithDesc("walk library dir", "Cannot read music directory "+dir),
		)
	}

	return PreferFormats(files), nil
}

// PreferFormats keeps one file per stem, choosing by Extensions order, and
// returns the result sorted by path.
func PreferFormats(files []string) []string {
	best := make(map[string]string, len(files))
	for _, f := range files {
		stem := strings.TrimSuffix(f, filepath.Ext(f))
		cur, ok := best[stem]
		if !ok || extRank(f) < extRank(cur) {
			best[stem] = f
		}
	}

	out := make([]string, 0, len(best))
	for _, f := range best {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func extRank(path string) int {
	ext := strings.ToLower(filepath.Ext(path))
	for i, e := range Extensions {
		if ext == e {
			return i
		}
	}
	return len(Extensions)
}

// Resolve maps bare track names to <dir>/<name>.mp3. Names whose file does
// not exist are returned in missing and left out of the list.
func Resolve(dir string, names []string) (tracks []string, missing []string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		path := filepath.Join(dir, name+NamedExtension)
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, name)
			continue
		}
		tracks = append(tracks, path)
	}
	return
}

// Options selects where the track list comes from. Args win over Names, and
// Names win over scanning Dir.
type Options struct {
	Dir   string
	Names []string
	Args  []string
}

// Load builds the track list. Missing named tracks are reported in missing;
// an empty result is ErrEmptyLibrary.
func Load(opts Options) (tracks []string, missing []string, err error) {
	switch {
	case len(opts.Args) > 0:
		tracks, err = fromArgs(opts.Args)
	case len(opts.Names) > 0:
		tracks, missing = Resolve(opts.Dir, opts.Names)
	default:
		tracks, err = Scan(opts.Dir)
	}
	if err != nil {
		return nil, missing, err
	}

	if len(tracks) == 0 {
		return nil, missing, fault.Wrap(ErrEmptyLibrary,
			fctx.With(context.Background(), "error_at", "library-load", "dir", opts.Dir),
			ftag.With(ftag.NotFound),
			fmsg.WithDesc("empty library", "No audio files found"),
		)
	}
	return tracks, missing, nil
}

func fromArgs(args []string) ([]string, error) {
	tracks := make([]string, 0, len(args))
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fault.Wrap(err,
				fctx.With(context.Background(), "error_at", "library-args", "path", arg),
				ftag.With(ftag.NotFound),
				fmsg.WithDesc("stat argument", "Cannot open "+arg),
			)
		}
		if info.IsDir() {
			found, err := Scan(arg)
			if err != nil {
				return nil, err
			}
			tracks = append(tracks, found...)
		} else if IsAudioFile(arg) {
			tracks = append(tracks, arg)
		}
	}
	return tracks, nil
}

// Issue returns the user facing description of a library error.
func Issue(err error) string {
	if issue := fmsg.GetIssue(err); issue != "" {
		return issue
	}
	return err.Error()
}
