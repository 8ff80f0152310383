// Package playertest provides an in-memory player.Media for tests.
package playertest

import (
	"math"
	"sync"

	"github.com/yhkl-dev/naviplayer/player"
)

// Media is a scriptable media element. Setters fire their events synchronously
// on the calling goroutine, the exported fields may be changed between calls.
type Media struct {
	mu      sync.Mutex
	emitter player.Emitter

	Source    string
	Time      float64
	Length    float64
	Level     float64
	Looping   bool
	IsPaused  bool
	IsEnded   bool
	Ready     player.ReadyState
	Ranges    []player.TimeRange
	MediaErr  error
	LoadErr   error
	PlayErr   error
	SeekErr   error
	LoadCalls int
	PlayCalls int
	Seeks     []float64
	Closed    bool
}

// New returns a paused media with the given source and duration, fully loaded
func New(src string, duration float64) *Media {
	return &Media{
		Source:   src,
		Length:   duration,
		Level:    1,
		IsPaused: true,
		Ready:    player.HaveEnoughData,
	}
}

// Emit fires kind to the subscribers
func (m *Media) Emit(kind player.EventKind) {
	m.emitter.Emit(player.Event{Kind: kind, Target: m})
}

// Subscribers returns the number of handlers registered for kind
func (m *Media) Subscribers(kind player.EventKind) int {
	return m.emitter.Count(kind)
}

func (m *Media) Src() string { return m.Source }

func (m *Media) SetSrc(src string) { m.Source = src }

func (m *Media) CurrentTime() float64 { return m.Time }

func (m *Media) SetCurrentTime(seconds float64) error {
	if m.Closed {
		return player.ErrClosed
	}
	m.mu.Lock()
	m.Seeks = append(m.Seeks, seconds)
	m.mu.Unlock()
	if m.SeekErr != nil {
		return m.SeekErr
	}
	m.Time = seconds
	m.Emit(player.EventTimeUpdate)
	return nil
}

func (m *Media) Duration() float64 {
	if m.Length == 0 {
		return math.NaN()
	}
	return m.Length
}

func (m *Media) Volume() float64 { return m.Level }

func (m *Media) SetVolume(volume float64) error {
	m.Level = volume
	m.Emit(player.EventVolumeChange)
	return nil
}

func (m *Media) Loop() bool { return m.Looping }

func (m *Media) SetLoop(loop bool) error {
	m.Looping = loop
	return nil
}

func (m *Media) Paused() bool { return m.IsPaused }

func (m *Media) Ended() bool { return m.IsEnded }

func (m *Media) ReadyState() player.ReadyState { return m.Ready }

func (m *Media) Buffered() []player.TimeRange { return m.Ranges }

func (m *Media) Err() error { return m.MediaErr }

func (m *Media) Load() error {
	m.LoadCalls++
	if m.Closed {
		return player.ErrClosed
	}
	if m.LoadErr != nil {
		return m.LoadErr
	}
	m.MediaErr = nil
	m.Emit(player.EventLoadStart)
	return nil
}

func (m *Media) Play() error {
	m.PlayCalls++
	if m.Closed {
		return player.ErrClosed
	}
	if m.PlayErr != nil {
		return m.PlayErr
	}
	m.IsPaused = false
	m.IsEnded = false
	m.Emit(player.EventPlay)
	m.Emit(player.EventPlaying)
	return nil
}

func (m *Media) Pause() error {
	m.IsPaused = true
	m.Emit(player.EventPause)
	return nil
}

func (m *Media) Subscribe(kind player.EventKind, handler player.Handler) func() {
	return m.emitter.Subscribe(kind, handler)
}

func (m *Media) Close() error {
	m.Closed = true
	return nil
}

var _ player.Media = (*Media)(nil)
