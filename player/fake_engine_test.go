package player

import (
	"errors"
	"sync"

	"github.com/vidyamurthy/SimpleMusicPlayer/metadata"
)

// fakeEngine records the calls the Player makes.
type fakeEngine struct {
	mu       sync.Mutex
	calls    []string
	loaded   string
	start    float64
	position float64
	volume   int
	paused   bool
	failLoad map[string]bool
	events   chan EngineEvent
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		volume:   100,
		paused:   true,
		failLoad: make(map[string]bool),
		events:   make(chan EngineEvent, 16),
	}
}

func (e *fakeEngine) record(call string) {
	e.calls = append(e.calls, call)
}

func (e *fakeEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

func (e *fakeEngine) Load(path string, start float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("load")
	if e.failLoad[path] {
		return errors.New("cannot open " + path)
	}
	e.loaded = path
	e.start = start
	e.position = start
	e.paused = true
	return nil
}

func (e *fakeEngine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("play")
	e.paused = false
	return nil
}

func (e *fakeEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("pause")
	e.paused = true
	return nil
}

func (e *fakeEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("stop")
	e.loaded = ""
	return nil
}

func (e *fakeEngine) SetPosition(seconds float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("setposition")
	e.position = seconds
	return nil
}

func (e *fakeEngine) Position() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position, nil
}

func (e *fakeEngine) Duration() (float64, error) {
	return 0, nil
}

func (e *fakeEngine) SetVolume(percent int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("volume")
	e.volume = percent
	return nil
}

func (e *fakeEngine) Volume() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume, nil
}

func (e *fakeEngine) Events() <-chan EngineEvent {
	return e.events
}

func (e *fakeEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("close")
}

type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLogger) Print(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
}

func (l *testLogger) Printf(s string, as ...interface{}) {
	l.Print(s)
}

func (l *testLogger) PrintError(source string, err error) {
	l.Print("Error(" + source + ") -> " + err.Error())
}

func (l *testLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// fixedExtract returns a canned duration so tests don't touch the disk.
func fixedExtract(duration float64) func(string) (metadata.Metadata, error) {
	return func(path string) (metadata.Metadata, error) {
		md := metadata.FromPath(path)
		md.Duration = duration
		return md, nil
	}
}

// sequence replays the given picks and then repeats the last one.
func sequence(picks ...int) RandomSelector {
	i := 0
	return RandomSelector{Intn: func(n int) int {
		pick := picks[i]
		if i < len(picks)-1 {
			i++
		}
		return pick % n
	}}
}
