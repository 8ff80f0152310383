package player

import "emperror.dev/errors"

// Media defines the capability surface of an audio element.
// The widget never talks to a concrete backend, which allows naviplayer to run on
// top of different media engines (MPV, beep) and to be tested without audio output.
type Media interface {
	// Src returns the current media source (file path or URL)
	Src() string

	// SetSrc replaces the media source without starting playback
	SetSrc(src string)

	// CurrentTime returns the playback position in seconds
	CurrentTime() float64

	// SetCurrentTime moves the playback position
	SetCurrentTime(seconds float64) error

	// Duration returns the total length in seconds, NaN while unknown
	Duration() float64

	// Volume returns the volume level in [0,1]
	Volume() float64

	// SetVolume changes the volume level, a volumechange event follows
	SetVolume(volume float64) error

	// Loop reports whether the source restarts when it ends
	Loop() bool

	// SetLoop enables or disables looping
	SetLoop(loop bool) error

	// Paused reports whether playback is paused
	Paused() bool

	// Ended reports whether playback reached the end of the source
	Ended() bool

	// ReadyState reports how much data is available
	ReadyState() ReadyState

	// Buffered returns the time ranges that are available for playback
	Buffered() []TimeRange

	// Err returns the last media error, nil when healthy
	Err() error

	// Load resets the element and reloads the current source
	Load() error

	// Play starts or resumes playback
	Play() error

	// Pause pauses playback
	Pause() error

	// Subscribe registers a handler for an event kind and returns its release function
	Subscribe(kind EventKind, handler Handler) (unsubscribe func())

	// Close releases the backend
	Close() error
}

// ReadyState mirrors the readiness levels of an HTML media element
type ReadyState int

const (
	HaveNothing ReadyState = iota
	HaveMetadata
	HaveCurrentData
	HaveFutureData
	HaveEnoughData
)

// TimeRange is a buffered interval in seconds
type TimeRange struct {
	Start float64
	End   float64
}

var (
	ErrNotLoaded         = errors.New("no media source loaded")
	ErrUnsupportedFormat = errors.New("unsupported media format")
	ErrClosed            = errors.New("media backend closed")
)
