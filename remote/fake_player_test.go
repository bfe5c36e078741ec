package remote

import (
	"errors"
	"sync"
)

type fakeTrack struct {
	id, path, title, artist string
	duration                int
}

func (t *fakeTrack) GetId() string       { return t.id }
func (t *fakeTrack) GetPath() string     { return t.path }
func (t *fakeTrack) GetArtist() string   { return t.artist }
func (t *fakeTrack) GetTitle() string    { return t.title }
func (t *fakeTrack) GetAlbum() string    { return "" }
func (t *fakeTrack) GetTrackNumber() int { return 0 }
func (t *fakeTrack) GetDuration() int    { return t.duration }
func (t *fakeTrack) IsValid() bool       { return t.id != "" }
func (t *fakeTrack) GetArtwork() ([]byte, string) {
	return []byte("png-" + t.id), "image/png"
}

var errIdle = errors.New("no track loaded")

// fakePlayer is a minimal ControlledPlayer driven by the handlers under test.
type fakePlayer struct {
	mu       sync.Mutex
	state    string
	tracks   []TrackInterface
	current  TrackInterface
	position float64
	volume   int
	calls    []string
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{
		state:  "idle",
		volume: 100,
		tracks: []TrackInterface{
			&fakeTrack{id: "a1", path: "/m/Cold.mp3", title: "Cold", artist: "Neha", duration: 200},
			&fakeTrack{id: "b2", path: "/m/Sahiba.mp3", title: "Sahiba", duration: 180},
		},
	}
}

func (p *fakePlayer) record(call string) {
	p.mu.Lock()
	p.calls = append(p.calls, call)
	p.mu.Unlock()
}

func (p *fakePlayer) IsPaused() bool                    { return p.StateName() == "paused" }
func (p *fakePlayer) IsPlaying() bool                   { return p.StateName() == "playing" }
func (p *fakePlayer) OnPaused(func())                   {}
func (p *fakePlayer) OnStopped(func())                  {}
func (p *fakePlayer) OnPlaying(func())                  {}
func (p *fakePlayer) OnSeek(func(float64))              {}
func (p *fakePlayer) OnSongChange(func(TrackInterface)) {}

func (p *fakePlayer) GetTimePos() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *fakePlayer) GetVolume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *fakePlayer) CurrentTrack() TrackInterface {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *fakePlayer) Tracks() []TrackInterface {
	return p.tracks
}

func (p *fakePlayer) StateName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// setState mirrors player.Player: controls that need a track fail while idle.
func (p *fakePlayer) setState(state string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return errIdle
	}
	p.state = state
	return nil
}

// pickFirstLocked loads the first track, as the random selector would.
func (p *fakePlayer) pickFirstLocked() {
	p.current = p.tracks[0]
	p.position = 0
	p.state = "playing"
}

func (p *fakePlayer) Play() error {
	p.record("play")
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		p.pickFirstLocked()
		return nil
	}
	p.state = "playing"
	return nil
}

// Pause and Stop are no-ops while idle.
func (p *fakePlayer) Pause() error {
	p.record("pause")
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.state = "paused"
	}
	return nil
}

func (p *fakePlayer) TogglePlayPause() error {
	p.record("toggle")
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.current == nil:
		p.pickFirstLocked()
	case p.state == "playing":
		p.state = "paused"
	default:
		p.state = "playing"
	}
	return nil
}

func (p *fakePlayer) Stop() error {
	p.record("stop")
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.state = "loaded"
		p.position = 0
	}
	return nil
}

func (p *fakePlayer) NextTrack() error {
	p.record("next")
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.tracks[1]
	p.position = 0
	p.state = "playing"
	return nil
}

func (p *fakePlayer) SeekAbsolute(seconds float64) error {
	p.record("seek")
	if err := p.setState("playing"); err != nil {
		return err
	}
	p.mu.Lock()
	p.position = seconds
	p.mu.Unlock()
	return nil
}

func (p *fakePlayer) SeekRelative(seconds float64) error {
	return p.SeekAbsolute(p.GetTimePos() + seconds)
}

func (p *fakePlayer) SetVolume(percent int) error {
	p.record("volume")
	p.mu.Lock()
	p.volume = percent
	p.mu.Unlock()
	return nil
}

type nopLogger struct{}

func (nopLogger) Print(string)                  {}
func (nopLogger) Printf(string, ...interface{}) {}
func (nopLogger) PrintError(string, error)      {}
