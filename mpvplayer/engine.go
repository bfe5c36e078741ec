// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package mpvplayer drives libmpv as the audio engine of the player.
package mpvplayer

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/supersonic-app/go-mpv"
	"github.com/vidyamurthy/SimpleMusicPlayer/logger"
	"github.com/vidyamurthy/SimpleMusicPlayer/player"
)

type Engine struct {
	instance  *mpv.Mpv
	mpvEvents chan *mpv.Event
	events    chan player.EngineEvent
	logger    logger.LoggerInterface

	endFiles   endFileFilter
	stopped    atomic.Bool
	fileLoaded atomic.Bool

	seekMu      sync.Mutex
	pendingSeek float64

	quit      chan struct{}
	quitOnce  sync.Once
	waiterEnd chan struct{}
}

var _ player.Engine = (*Engine)(nil)

func NewEngine(logger logger.LoggerInterface) (engine *Engine, err error) {
	mpvInstance := mpv.Create()

	if err = mpvInstance.SetOptionString("audio-display", "no"); err != nil {
		mpvInstance.TerminateDestroy()
		return
	}
	if err = mpvInstance.SetOptionString("video", "no"); err != nil {
		mpvInstance.TerminateDestroy()
		return
	}

	if err = mpvInstance.Initialize(); err != nil {
		mpvInstance.TerminateDestroy()
		return
	}

	engine = &Engine{
		instance:  mpvInstance,
		mpvEvents: make(chan *mpv.Event),
		events:    make(chan player.EngineEvent, 16),
		logger:    logger,
		quit:      make(chan struct{}),
		waiterEnd: make(chan struct{}),
	}
	engine.stopped.Store(true)

	go engine.mpvEngineEventHandler()
	return
}

func (e *Engine) mpvEngineEventHandler() {
	defer close(e.waiterEnd)
	for {
		evt := e.instance.WaitEvent(1)
		select {
		case e.mpvEvents <- evt:
		case <-e.quit:
			return
		}
	}
}

// Close stops the event loop and destroys the mpv instance.
func (e *Engine) Close() {
	e.quitOnce.Do(func() {
		close(e.quit)
		<-e.waiterEnd
		e.instance.TerminateDestroy()
	})
}

func (e *Engine) Events() <-chan player.EngineEvent {
	return e.events
}

func (e *Engine) Load(path string, start float64) error {
	loaded, err := e.isSongLoaded()
	if err != nil {
		e.logger.PrintError("Load", err)
	}
	e.endFiles.replacing(loaded)
	e.stopped.Store(false)
	e.fileLoaded.Store(false)
	e.setPendingSeek(start)

	if err := e.instance.SetProperty("pause", mpv.FORMAT_FLAG, true); err != nil {
		return err
	}
	return e.instance.Command([]string{"loadfile", path})
}

func (e *Engine) Play() error {
	return e.instance.SetProperty("pause", mpv.FORMAT_FLAG, false)
}

func (e *Engine) Pause() error {
	return e.instance.SetProperty("pause", mpv.FORMAT_FLAG, true)
}

func (e *Engine) Stop() error {
	e.logger.Printf("stopping (user)")
	if loaded, err := e.isSongLoaded(); err == nil && loaded {
		e.endFiles.stopping()
	}
	e.stopped.Store(true)
	return e.instance.Command([]string{"stop"})
}

// SetPosition seeks to seconds. Before the file has finished loading the
// seek is deferred until it has.
func (e *Engine) SetPosition(seconds float64) error {
	if !e.fileLoaded.Load() {
		e.setPendingSeek(seconds)
		return nil
	}
	return e.instance.Command(seekCommand(seconds))
}

func (e *Engine) Position() (float64, error) {
	return e.getPropertyFloat64("time-pos")
}

func (e *Engine) Duration() (float64, error) {
	return e.getPropertyFloat64("duration")
}

func (e *Engine) SetVolume(percent int) error {
	if percent > 100 {
		percent = 100
	} else if percent < 0 {
		percent = 0
	}
	return e.instance.SetProperty("volume", mpv.FORMAT_INT64, int64(percent))
}

func (e *Engine) Volume() (int, error) {
	volume, err := e.getPropertyInt64("volume")
	if err != nil {
		return -1, err
	}
	return int(volume), nil
}

func (e *Engine) isSongLoaded() (bool, error) {
	idle, err := e.getPropertyBool("idle-active")
	return !idle, err
}

func (e *Engine) setPendingSeek(seconds float64) {
	e.seekMu.Lock()
	e.pendingSeek = seconds
	e.seekMu.Unlock()
}

func (e *Engine) takePendingSeek() float64 {
	e.seekMu.Lock()
	defer e.seekMu.Unlock()
	seconds := e.pendingSeek
	e.pendingSeek = 0
	return seconds
}

func seekCommand(seconds float64) []string {
	if seconds < 0 {
		seconds = 0
	}
	return []string{"seek", strconv.FormatFloat(seconds, 'f', 3, 64), "absolute"}
}
