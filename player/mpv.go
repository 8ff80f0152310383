package player

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"emperror.dev/errors"
	"github.com/rs/zerolog"
	"github.com/wildeyedskies/go-mpv/mpv"
	"github.com/yhkl-dev/naviplayer/mpvplayer"
)

// MPVMedia implements the Media interface using MPV media player
type MPVMedia struct {
	instance *mpvplayer.Mpvplayer
	emitter  Emitter
	dispatch Dispatcher
	logger   zerolog.Logger

	mu                sync.Mutex
	src               string
	loaded            string
	loop              bool
	ended             bool
	ready             ReadyState
	lastErr           error
	replaceInProgress bool
	closed            atomic.Bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMPVMedia creates an MPV backed media element. Events are handed to dispatch
// from the pump goroutine, which lives until ctx is done or Close is called.
func NewMPVMedia(ctx context.Context, dispatch Dispatcher, logger zerolog.Logger) (*MPVMedia, error) {
	mpvInstance, err := mpvplayer.CreateMPVInstance()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MPV instance")
	}
	if dispatch == nil {
		dispatch = Inline
	}

	ctx, cancel := context.WithCancel(ctx)
	m := &MPVMedia{
		instance: &mpvplayer.Mpvplayer{Mpv: mpvInstance},
		dispatch: dispatch,
		logger:   logger,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go m.pump(ctx)
	return m, nil
}

func (m *MPVMedia) Src() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.src
}

func (m *MPVMedia) SetSrc(src string) {
	m.mu.Lock()
	m.src = src
	m.mu.Unlock()
}

func (m *MPVMedia) CurrentTime() float64 {
	pos := m.instance.Double("time-pos")
	if math.IsNaN(pos) {
		return 0
	}
	return pos
}

func (m *MPVMedia) SetCurrentTime(seconds float64) error {
	if m.closed.Load() {
		return ErrClosed
	}
	loaded, err := m.instance.IsSongLoaded()
	if err != nil {
		return errors.Wrap(err, "query idle state")
	}
	if !loaded {
		return ErrNotLoaded
	}
	return m.instance.SeekAbsolute(seconds)
}

func (m *MPVMedia) Duration() float64 {
	return m.instance.Double("duration")
}

func (m *MPVMedia) Volume() float64 {
	v := m.instance.Double("volume")
	if math.IsNaN(v) {
		return 1
	}
	return math.Max(0, math.Min(1, v/100))
}

func (m *MPVMedia) SetVolume(volume float64) error {
	return m.instance.SetVolume(math.Max(0, math.Min(1, volume)))
}

func (m *MPVMedia) Loop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loop
}

func (m *MPVMedia) SetLoop(loop bool) error {
	if err := m.instance.SetLoop(loop); err != nil {
		return err
	}
	m.mu.Lock()
	m.loop = loop
	m.mu.Unlock()
	return nil
}

func (m *MPVMedia) Paused() bool {
	loaded, err := m.instance.IsSongLoaded()
	if err != nil || !loaded {
		return true
	}
	paused, err := m.instance.Flag("pause")
	return err != nil || paused
}

func (m *MPVMedia) Ended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ended
}

func (m *MPVMedia) ReadyState() ReadyState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func (m *MPVMedia) Buffered() []TimeRange {
	cache := m.instance.Double("demuxer-cache-time")
	if math.IsNaN(cache) || cache <= 0 {
		return nil
	}
	return []TimeRange{{Start: 0, End: cache}}
}

func (m *MPVMedia) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Load reloads the current source paused at its start
func (m *MPVMedia) Load() error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.mu.Lock()
	src := m.src
	m.lastErr = nil
	m.ready = HaveNothing
	m.replaceInProgress = m.loaded != "" && !m.ended
	m.loaded = src
	m.ended = false
	m.mu.Unlock()

	if src == "" {
		return ErrNotLoaded
	}
	if err := m.instance.SetPause(true); err != nil {
		return err
	}
	return m.instance.LoadFile(src)
}

// Play resumes the loaded file, or starts the source again when it changed or ended
func (m *MPVMedia) Play() error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.mu.Lock()
	src := m.src
	reload := src != m.loaded || m.ended
	if reload && src != "" {
		m.replaceInProgress = m.loaded != "" && !m.ended
		m.loaded = src
		m.ended = false
	}
	m.mu.Unlock()
	if src == "" {
		return ErrNotLoaded
	}

	if reload {
		if err := m.instance.LoadFile(src); err != nil {
			return err
		}
	}
	return m.instance.SetPause(false)
}

func (m *MPVMedia) Pause() error {
	return m.instance.SetPause(true)
}

func (m *MPVMedia) Subscribe(kind EventKind, handler Handler) func() {
	return m.emitter.Subscribe(kind, handler)
}

// Close stops the event pump and destroys the MPV instance. Later calls to
// Load, Play and SetCurrentTime return ErrClosed.
func (m *MPVMedia) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.cancel()
	<-m.done
	m.instance.Command([]string{"quit"})
	m.instance.TerminateDestroy()
	return nil
}

func (m *MPVMedia) emit(kinds ...EventKind) {
	m.dispatch(func() {
		for _, kind := range kinds {
			m.emitter.Emit(Event{Kind: kind, Target: m})
		}
	})
}

// pump translates MPV events into media events
func (m *MPVMedia) pump(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		e := m.instance.WaitEvent(1)
		if e == nil || e.Event_Id == mpv.EVENT_NONE {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if e.Event_Id == mpv.EVENT_SHUTDOWN {
			return
		}
		m.handle(e)
	}
}

func (m *MPVMedia) handle(e *mpv.Event) {
	switch e.Event_Id {
	case mpv.EVENT_START_FILE:
		m.mu.Lock()
		m.ready = HaveNothing
		m.ended = false
		m.mu.Unlock()
		m.emit(EventLoadStart)

	case mpv.EVENT_FILE_LOADED:
		m.mu.Lock()
		m.ready = HaveEnoughData
		m.mu.Unlock()
		m.emit(EventDurationChange, EventLoadedMetadata, EventLoadedData, EventCanPlay, EventCanPlayThrough)

	case mpv.EVENT_END_FILE:
		m.mu.Lock()
		replaced := m.replaceInProgress
		m.replaceInProgress = false
		if e.Error != nil {
			m.lastErr = e.Error
			m.loaded = ""
		} else if !replaced {
			m.ended = true
		}
		m.mu.Unlock()

		switch {
		case e.Error != nil:
			m.logger.Error().Err(e.Error).Msg("mpv end of file with error")
			m.emit(EventError)
		case replaced:
			m.emit(EventAbort, EventEmptied)
		default:
			m.emit(EventPause, EventEnded)
		}

	case mpv.EVENT_SEEK:
		m.emit(EventSeeking)

	case mpv.EVENT_PLAYBACK_RESTART:
		m.emit(EventSeeked)

	case mpv.EVENT_PROPERTY_CHANGE:
		m.handleProperty(e.Reply_Userdata)
	}
}

func (m *MPVMedia) handleProperty(id uint64) {
	switch id {
	case mpvplayer.ObserveTimePos:
		m.emit(EventTimeUpdate)
	case mpvplayer.ObserveDuration:
		m.emit(EventDurationChange)
	case mpvplayer.ObserveVolume:
		m.emit(EventVolumeChange)
	case mpvplayer.ObserveCacheTime:
		m.emit(EventProgress)
	case mpvplayer.ObservePause:
		if m.Paused() {
			m.emit(EventPause)
		} else {
			m.emit(EventPlay, EventPlaying)
		}
	case mpvplayer.ObservePausedForCache:
		waiting, err := m.instance.Flag("paused-for-cache")
		if err != nil {
			return
		}
		m.mu.Lock()
		if waiting {
			m.ready = HaveCurrentData
		} else if m.ready == HaveCurrentData {
			m.ready = HaveEnoughData
		}
		m.mu.Unlock()
		if waiting {
			m.emit(EventWaiting, EventStalled)
		} else {
			m.emit(EventPlaying)
		}
	}
}

var _ Media = (*MPVMedia)(nil)
