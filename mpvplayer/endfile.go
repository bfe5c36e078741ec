// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpvplayer

import "sync/atomic"

// endFileFilter tells the END_FILE events caused by our own stop or replace
// apart from a track really ending. Once the last requested file has
// started, no earlier END_FILE can still be pending, so the count resets.
type endFileFilter struct {
	skip   atomic.Int32
	starts atomic.Int32
}

// replacing is called before every loadfile; loaded reports whether a file
// was playing and will be ended by the replace.
func (f *endFileFilter) replacing(loaded bool) {
	f.starts.Add(1)
	if loaded {
		f.skip.Add(1)
	}
}

func (f *endFileFilter) stopping() {
	f.skip.Add(1)
}

// started handles START_FILE.
func (f *endFileFilter) started() {
	if f.starts.Add(-1) <= 0 {
		f.starts.Store(0)
		f.skip.Store(0)
	}
}

// ownEndFile consumes one expected END_FILE, reporting false when the event
// is a real end of track.
func (f *endFileFilter) ownEndFile() bool {
	for {
		n := f.skip.Load()
		if n <= 0 {
			return false
		}
		if f.skip.CompareAndSwap(n, n-1) {
			return true
		}
	}
}
