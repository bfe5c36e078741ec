// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package player holds the playback state machine: which track is current,
// whether it is playing, and what comes next.
package player

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cskr/pubsub/v2"
	"github.com/vidyamurthy/SimpleMusicPlayer/logger"
	"github.com/vidyamurthy/SimpleMusicPlayer/metadata"
	"github.com/vidyamurthy/SimpleMusicPlayer/remote"
)

var (
	ErrNoTrack      = errors.New("no track loaded")
	ErrNoTracks     = errors.New("track list is empty")
	ErrBadIndex     = errors.New("track index out of range")
	ErrUnknownTrack = errors.New("track not in library")
	ErrBadPosition  = errors.New("seek position is not a finite number")
)

const loadErrorText = "unable to load the track file"

// Status is a snapshot of the player.
type Status struct {
	State State
	// nil while nothing is loaded
	Track *Track
	// index into the track list, -1 if none
	Index    int
	Position float64
	Duration float64
	Volume   int
	Tracks   int
}

type Player struct {
	engine   Engine
	selector Selector
	logger   logger.LoggerInterface
	extract  func(path string) (metadata.Metadata, error)

	mu      sync.Mutex
	tracks  []*Track
	current int
	// survives a library rescan that drops its file
	track       *Track
	state       State
	position    float64
	duration    float64
	volume      int
	needsReload bool

	events *pubsub.PubSub[string, UiEvent]

	cbMu           sync.Mutex
	cbOnPaused     []func()
	cbOnStopped    []func()
	cbOnPlaying    []func()
	cbOnSeek       []func(float64)
	cbOnSongChange []func(remote.TrackInterface)
}

var _ remote.ControlledPlayer = (*Player)(nil)

func New(engine Engine, selector Selector, paths []string, logger logger.LoggerInterface) *Player {
	tracks := make([]*Track, 0, len(paths))
	for _, path := range paths {
		tracks = append(tracks, NewTrack(path))
	}

	return &Player{
		engine:   engine,
		selector: selector,
		logger:   logger,
		extract:  metadata.Extract,
		tracks:   tracks,
		current:  -1,
		state:    Idle,
		volume:   100,
		events:   pubsub.New[string, UiEvent](subscriberBuffer),
	}
}

// Subscribe returns a channel receiving every UiEvent. Slow subscribers
// lose events rather than blocking the player.
func (p *Player) Subscribe() chan UiEvent {
	return p.events.Sub(topicPlayer)
}

// Unsubscribe must not be called from the goroutine reading ch.
func (p *Player) Unsubscribe(ch chan UiEvent) {
	p.events.Unsub(ch, topicPlayer)
}

// Run consumes engine events until ctx is done or the engine closes its
// channel.
func (p *Player) Run(ctx context.Context) {
	events := p.engine.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			p.handleEngineEvent(evt)
		}
	}
}

// Close stops the engine and ends all subscriptions.
func (p *Player) Close() {
	p.engine.Close()
	p.events.Shutdown()
}

func (p *Player) handleEngineEvent(evt EngineEvent) {
	switch evt.Type {
	case EngineStarted:
		p.logger.Print("engine: file started")

	case EngineProgress:
		p.mu.Lock()
		if evt.Position >= 0 {
			p.position = evt.Position
		}
		if evt.Duration > 0 {
			p.duration = evt.Duration
		}
		if evt.Volume >= 0 {
			p.volume = evt.Volume
		}
		status := p.statusDataLocked()
		p.mu.Unlock()
		p.emit(UiEvent{EventStatus, status})

	case EngineFinished:
		p.trackFinished()

	case EngineFailed:
		p.mu.Lock()
		evts := p.failLocked(evt.Err)
		p.mu.Unlock()
		p.emit(evts...)
	}
}

// Load makes track index current and starts playing it.
func (p *Player) Load(index int) error {
	p.mu.Lock()
	if index < 0 || index >= len(p.tracks) {
		p.mu.Unlock()
		return fmt.Errorf("load %d of %d: %w", index, len(p.tracks), ErrBadIndex)
	}
	track := p.tracks[index]
	p.mu.Unlock()

	// tag parsing and duration probing happen outside the lock
	md, err := p.extract(track.Path)
	if err != nil {
		p.logger.Printf("metadata %s: %v", track.Path, err)
	}
	loaded := track.withMetadata(md)

	p.mu.Lock()
	evts, err := p.loadLocked(index, loaded, 0, true)
	p.mu.Unlock()
	p.emit(evts...)
	return err
}

// Restore loads the track with the given path paused at position, for
// resuming a previous session.
func (p *Player) Restore(path string, position float64) error {
	p.mu.Lock()
	index := p.indexOfLocked(path)
	p.mu.Unlock()
	if index < 0 {
		return fmt.Errorf("restore %s: %w", path, ErrUnknownTrack)
	}

	md, err := p.extract(path)
	if err != nil {
		p.logger.Printf("metadata %s: %v", path, err)
	}

	p.mu.Lock()
	if index >= len(p.tracks) || p.tracks[index].Path != path {
		p.mu.Unlock()
		return fmt.Errorf("restore %s: %w", path, ErrUnknownTrack)
	}
	evts, err := p.loadLocked(index, p.tracks[index].withMetadata(md), position, false)
	p.mu.Unlock()
	p.emit(evts...)
	return err
}

func (p *Player) loadLocked(index int, track *Track, start float64, play bool) ([]UiEvent, error) {
	if index >= len(p.tracks) || p.tracks[index].Path != track.Path {
		// the library changed while metadata was read
		index = p.indexOfLocked(track.Path)
		if index < 0 {
			return nil, fmt.Errorf("load %s: %w", track.Path, ErrUnknownTrack)
		}
	}

	if start < 0 {
		start = 0
	}
	if track.Duration > 0 && start > track.Duration {
		start = track.Duration
	}

	if err := p.engine.Load(track.Path, start); err != nil {
		return p.failLocked(err), err
	}

	p.tracks[index] = track
	p.current = index
	p.track = track
	p.position = start
	p.duration = track.Duration
	p.needsReload = false
	p.state, _ = p.state.Transition(TriggerLoad)
	evts := []UiEvent{{EventTrackChanged, track}}

	if !play {
		p.state, _ = p.state.Transition(TriggerPause)
		return append(evts, UiEvent{EventPaused, track}), nil
	}

	if err := p.engine.Play(); err != nil {
		return append(evts, p.failLocked(err)...), err
	}
	p.state, _ = p.state.Transition(TriggerPlay)
	return append(evts, UiEvent{EventPlaying, track}), nil
}

// failLocked drops back to Idle after a load or engine error.
func (p *Player) failLocked(err error) []UiEvent {
	p.logger.PrintError(loadErrorText, err)
	p.state = Idle
	p.current = -1
	p.track = nil
	p.position = 0
	p.duration = 0
	p.needsReload = false
	return []UiEvent{
		{EventError, fmt.Errorf("%s: %w", loadErrorText, err)},
		{EventStopped, nil},
	}
}

// TogglePlayPause pauses while playing and plays otherwise. In Idle a track
// is chosen first.
func (p *Player) TogglePlayPause() error {
	p.mu.Lock()
	state := p.state
	p.mu.Unlock()

	switch state {
	case Idle:
		return p.NextTrack()
	case Playing:
		return p.Pause()
	default:
		return p.Play()
	}
}

// Play sets playing. In Idle a track is chosen first, as TogglePlayPause
// does.
func (p *Player) Play() error {
	p.mu.Lock()
	if p.state == Idle {
		p.mu.Unlock()
		return p.NextTrack()
	}
	evts, err := p.playLocked()
	p.mu.Unlock()
	p.emit(evts...)
	return err
}

func (p *Player) playLocked() ([]UiEvent, error) {
	if p.state == Playing {
		return nil, nil
	}
	next, err := p.state.Transition(TriggerPlay)
	if err != nil {
		return nil, err
	}

	if p.needsReload {
		if err := p.engine.Load(p.track.Path, p.position); err != nil {
			return p.failLocked(err), err
		}
		p.needsReload = false
	}
	if err := p.engine.Play(); err != nil {
		return nil, err
	}

	typ := EventPlaying
	if p.state == Paused {
		typ = EventUnpaused
	}
	p.state = next
	return []UiEvent{{typ, p.track}}, nil
}

func (p *Player) Pause() error {
	p.mu.Lock()
	evts, err := p.pauseLocked()
	p.mu.Unlock()
	p.emit(evts...)
	return err
}

func (p *Player) pauseLocked() ([]UiEvent, error) {
	if p.state == Paused || p.state == Idle {
		return nil, nil
	}
	if !p.needsReload {
		if err := p.engine.Pause(); err != nil {
			return nil, err
		}
	}
	p.state, _ = p.state.Transition(TriggerPause)
	return []UiEvent{{EventPaused, p.track}}, nil
}

// Stop halts the engine. The current track stays and restarts from the
// beginning on the next Play.
func (p *Player) Stop() error {
	p.mu.Lock()
	if p.state == Idle {
		p.mu.Unlock()
		return nil
	}
	if err := p.engine.Stop(); err != nil {
		p.mu.Unlock()
		return err
	}
	p.state = Loaded
	p.position = 0
	p.needsReload = true
	p.mu.Unlock()

	p.emit(UiEvent{EventStopped, nil})
	return nil
}

// SeekAbsolute moves to position seconds, clamped to the track. Playback
// always continues after a seek.
func (p *Player) SeekAbsolute(position float64) error {
	p.mu.Lock()
	evts, err := p.seekLocked(position)
	p.mu.Unlock()
	p.emit(evts...)
	return err
}

func (p *Player) SeekRelative(delta float64) error {
	p.mu.Lock()
	evts, err := p.seekLocked(p.position + delta)
	p.mu.Unlock()
	p.emit(evts...)
	return err
}

func (p *Player) seekLocked(position float64) ([]UiEvent, error) {
	if math.IsNaN(position) || math.IsInf(position, 0) {
		return nil, fmt.Errorf("seek to %v: %w", position, ErrBadPosition)
	}
	next, err := p.state.Transition(TriggerSeek)
	if err != nil {
		return nil, err
	}

	if position < 0 {
		position = 0
	}
	if p.duration > 0 && position > p.duration {
		position = p.duration
	}

	if p.needsReload {
		if err := p.engine.Load(p.track.Path, position); err != nil {
			return p.failLocked(err), err
		}
		p.needsReload = false
	} else if err := p.engine.SetPosition(position); err != nil {
		return nil, err
	}
	p.position = position

	evts := []UiEvent{{EventSeeked, position}}
	if p.state != Playing {
		if err := p.engine.Play(); err != nil {
			return evts, err
		}
		typ := EventPlaying
		if p.state == Paused {
			typ = EventUnpaused
		}
		evts = append(evts, UiEvent{typ, p.track})
	}
	p.state = next
	return evts, nil
}

// NextTrack skips to whatever the selector picks, as if the current track
// had finished.
func (p *Player) NextTrack() error {
	p.mu.Lock()
	index := p.selector.Next(p.current, len(p.tracks))
	p.mu.Unlock()

	if index < 0 {
		return ErrNoTracks
	}
	return p.Load(index)
}

func (p *Player) trackFinished() {
	p.mu.Lock()
	p.state, _ = p.state.Transition(TriggerTrackFinished)
	p.position = 0
	p.mu.Unlock()

	if err := p.NextTrack(); err != nil {
		p.logger.PrintError("trackFinished", err)
		if errors.Is(err, ErrNoTracks) {
			p.mu.Lock()
			// nothing left to play; a later Play reloads the old file
			p.needsReload = p.state != Idle
			p.mu.Unlock()
			p.emit(UiEvent{EventStopped, nil})
		}
	}
}

// SetTracks replaces the track list after a library rescan. Known paths keep
// their Track; the current track keeps playing even if its file is gone.
func (p *Player) SetTracks(paths []string) {
	p.mu.Lock()
	known := make(map[string]*Track, len(p.tracks))
	for _, t := range p.tracks {
		known[t.Path] = t
	}

	tracks := make([]*Track, 0, len(paths))
	for _, path := range paths {
		if t, ok := known[path]; ok {
			tracks = append(tracks, t)
		} else {
			tracks = append(tracks, NewTrack(path))
		}
	}
	p.tracks = tracks

	p.current = -1
	if p.track != nil {
		p.current = p.indexOfLocked(p.track.Path)
	}
	n := len(tracks)
	p.mu.Unlock()

	p.emit(UiEvent{EventLibraryChanged, n})
}

func (p *Player) indexOfLocked(path string) int {
	for i, t := range p.tracks {
		if t.Path == path {
			return i
		}
	}
	return -1
}

// SetVolume sets the volume, clamped to 0..100.
func (p *Player) SetVolume(percentValue int) error {
	if percentValue > 100 {
		percentValue = 100
	} else if percentValue < 0 {
		percentValue = 0
	}

	p.mu.Lock()
	if err := p.engine.SetVolume(percentValue); err != nil {
		p.mu.Unlock()
		return err
	}
	p.volume = percentValue
	status := p.statusDataLocked()
	p.mu.Unlock()

	p.emit(UiEvent{EventStatus, status})
	return nil
}

func (p *Player) AdjustVolume(increment int) error {
	return p.SetVolume(p.GetVolume() + increment)
}

func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Status{
		State:    p.state,
		Track:    p.track,
		Index:    p.current,
		Position: p.position,
		Duration: p.duration,
		Volume:   p.volume,
		Tracks:   len(p.tracks),
	}
}

func (p *Player) statusDataLocked() StatusData {
	return StatusData{
		Volume:   p.volume,
		Position: p.position,
		Duration: p.duration,
	}
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Player) StateName() string {
	return p.State().String()
}

func (p *Player) IsPaused() bool {
	return p.State() == Paused
}

func (p *Player) IsPlaying() bool {
	return p.State() == Playing
}

func (p *Player) GetTimePos() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *Player) GetVolume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Player) CurrentTrack() remote.TrackInterface {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.track == nil {
		return nil
	}
	return p.track
}

func (p *Player) Tracks() []remote.TrackInterface {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]remote.TrackInterface, 0, len(p.tracks))
	for _, t := range p.tracks {
		out = append(out, t)
	}
	return out
}

func (p *Player) OnPaused(cb func()) {
	p.cbMu.Lock()
	p.cbOnPaused = append(p.cbOnPaused, cb)
	p.cbMu.Unlock()
}

func (p *Player) OnStopped(cb func()) {
	p.cbMu.Lock()
	p.cbOnStopped = append(p.cbOnStopped, cb)
	p.cbMu.Unlock()
}

func (p *Player) OnPlaying(cb func()) {
	p.cbMu.Lock()
	p.cbOnPlaying = append(p.cbOnPlaying, cb)
	p.cbMu.Unlock()
}

func (p *Player) OnSeek(cb func(position float64)) {
	p.cbMu.Lock()
	p.cbOnSeek = append(p.cbOnSeek, cb)
	p.cbMu.Unlock()
}

func (p *Player) OnSongChange(cb func(track remote.TrackInterface)) {
	p.cbMu.Lock()
	p.cbOnSongChange = append(p.cbOnSongChange, cb)
	p.cbMu.Unlock()
}

// emit publishes evts and runs the remote callbacks. Never call it with mu
// held: callbacks read the player back.
func (p *Player) emit(evts ...UiEvent) {
	for _, evt := range evts {
		p.events.TryPub(evt, topicPlayer)
		p.sendRemoteEvent(evt)
	}
}

func (p *Player) sendRemoteEvent(evt UiEvent) {
	// callbacks run without cbMu so they may register more callbacks
	p.cbMu.Lock()
	onStopped := p.cbOnStopped
	onPlaying := p.cbOnPlaying
	onPaused := p.cbOnPaused
	onSeek := p.cbOnSeek
	onSongChange := p.cbOnSongChange
	p.cbMu.Unlock()

	switch evt.Type {
	case EventStopped:
		for _, cb := range onStopped {
			cb()
		}

	case EventPlaying, EventUnpaused:
		for _, cb := range onPlaying {
			cb()
		}

	case EventPaused:
		for _, cb := range onPaused {
			cb()
		}

	case EventSeeked:
		position := evt.Data.(float64)
		for _, cb := range onSeek {
			cb(position)
		}

	case EventTrackChanged:
		track := evt.Data.(*Track)
		for _, cb := range onSongChange {
			cb(track)
		}
	}
}
