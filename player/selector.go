// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package player

import (
	"fmt"
	"math/rand"
	"strings"
)

// Selector picks the index of the next track out of n, given the current
// index (-1 when there is none). It returns -1 when n is 0.
type Selector interface {
	Next(current, n int) int
}

// RandomSelector picks uniformly among all tracks, the current one included.
type RandomSelector struct {
	// Intn defaults to math/rand/v2.IntN; tests replace it.
	Intn func(n int) int
}

func (r RandomSelector) Next(current, n int) int {
	if n <= 0 {
		return -1
	}
	if r.Intn != nil {
		return r.Intn(n)
	}
	return rand.Intn(n)
}

// SequentialSelector plays the list in order and wraps around.
type SequentialSelector struct{}

func (SequentialSelector) Next(current, n int) int {
	if n <= 0 {
		return -1
	}
	if current < 0 {
		return 0
	}
	return (current + 1) % n
}

// NewSelector maps the playback.order setting to a Selector.
func NewSelector(order string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "random", "shuffle":
		return RandomSelector{}, nil
	case "sequential", "inorder":
		return SequentialSelector{}, nil
	}
	return nil, fmt.Errorf("unknown playback order %q", order)
}
