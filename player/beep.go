package player

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"emperror.dev/errors"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog"
)

const (
	speakerRate      = beep.SampleRate(44100)
	timeUpdatePeriod = 250 * time.Millisecond
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

func decoderFor(path string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }, nil
	case ".wav":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }, nil
	case ".ogg", ".oga":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) }, nil
	case ".flac":
		return func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
}

// beepTrack bundles all resources for a single decoded file.
type beepTrack struct {
	src      string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
}

func (t *beepTrack) Close() {
	if t.streamer != nil {
		t.streamer.Close()
	}
	if t.file != nil {
		t.file.Close()
	}
}

// BeepMedia implements the Media interface for local files on top of the beep speaker.
// Fields read by the audio thread are either atomics or guarded by speaker.Lock.
type BeepMedia struct {
	emitter  Emitter
	dispatch Dispatcher
	logger   zerolog.Logger

	mu      sync.Mutex
	src     string
	level   float64
	lastErr error

	// guarded by speaker.Lock
	track  *beepTrack
	ctrl   *beep.Ctrl
	volume *effects.Volume

	loop   atomic.Bool
	ended  atomic.Bool
	closed atomic.Bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewBeepMedia initialises the speaker once per process and starts the timeupdate ticker.
func NewBeepMedia(ctx context.Context, dispatch Dispatcher, logger zerolog.Logger) (*BeepMedia, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerRate, speakerRate.N(100*time.Millisecond))
	})
	if speakerErr != nil {
		return nil, errors.Wrap(speakerErr, "failed to initialise speaker")
	}
	if dispatch == nil {
		dispatch = Inline
	}

	ctx, cancel := context.WithCancel(ctx)
	b := &BeepMedia{
		dispatch: dispatch,
		logger:   logger,
		level:    1,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go b.tick(ctx)
	return b, nil
}

func (b *BeepMedia) Src() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.src
}

func (b *BeepMedia) SetSrc(src string) {
	b.mu.Lock()
	b.src = src
	b.mu.Unlock()
}

func (b *BeepMedia) CurrentTime() float64 {
	speaker.Lock()
	defer speaker.Unlock()
	if b.track == nil {
		return 0
	}
	return b.track.format.SampleRate.D(b.track.streamer.Position()).Seconds()
}

func (b *BeepMedia) SetCurrentTime(seconds float64) error {
	if b.closed.Load() {
		return ErrClosed
	}
	speaker.Lock()
	if b.track == nil {
		speaker.Unlock()
		return ErrNotLoaded
	}
	sr := b.track.format.SampleRate
	last := b.track.streamer.Len() - 1
	pos := sr.N(time.Duration(math.Max(0, seconds) * float64(time.Second)))
	if pos > last {
		pos = last
	}
	err := b.track.streamer.Seek(pos)
	speaker.Unlock()
	if err != nil {
		return errors.Wrap(err, "seek")
	}

	if pos < last {
		b.ended.Store(false)
	}
	b.emit(EventSeeking, EventSeeked, EventTimeUpdate)
	return nil
}

func (b *BeepMedia) Duration() float64 {
	speaker.Lock()
	defer speaker.Unlock()
	if b.track == nil {
		return math.NaN()
	}
	return b.track.format.SampleRate.D(b.track.streamer.Len()).Seconds()
}

func (b *BeepMedia) Volume() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}

func (b *BeepMedia) SetVolume(volume float64) error {
	volume = math.Max(0, math.Min(1, volume))
	b.mu.Lock()
	b.level = volume
	b.mu.Unlock()

	speaker.Lock()
	applyLevel(b.volume, volume)
	speaker.Unlock()

	b.emit(EventVolumeChange)
	return nil
}

func (b *BeepMedia) Loop() bool { return b.loop.Load() }

func (b *BeepMedia) SetLoop(loop bool) error {
	b.loop.Store(loop)
	return nil
}

func (b *BeepMedia) Paused() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return b.ctrl == nil || b.ctrl.Paused
}

func (b *BeepMedia) Ended() bool { return b.ended.Load() }

func (b *BeepMedia) ReadyState() ReadyState {
	speaker.Lock()
	defer speaker.Unlock()
	if b.track == nil {
		return HaveNothing
	}
	return HaveEnoughData
}

// Buffered reports the whole file, local sources are always fully available
func (b *BeepMedia) Buffered() []TimeRange {
	d := b.Duration()
	if math.IsNaN(d) {
		return nil
	}
	return []TimeRange{{Start: 0, End: d}}
}

func (b *BeepMedia) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Load decodes the current source and queues it on the speaker paused at the start
func (b *BeepMedia) Load() error {
	if b.closed.Load() {
		return ErrClosed
	}
	src := b.Src()
	b.emit(EventEmptied, EventLoadStart)

	track, err := b.open(src)
	b.mu.Lock()
	b.lastErr = err
	level := b.level
	b.mu.Unlock()
	if err != nil {
		b.logger.Error().Err(err).Str("src", src).Msg("cannot load source")
		b.emit(EventError)
		return err
	}

	var stream beep.Streamer = track.streamer
	if track.format.SampleRate != speakerRate {
		stream = beep.Resample(4, track.format.SampleRate, speakerRate, track.streamer)
	}
	es := &endStreamer{media: b, track: track, stream: stream}
	ctrl := &beep.Ctrl{Streamer: es, Paused: true}
	es.ctrl = ctrl
	volume := &effects.Volume{Streamer: ctrl, Base: 2}
	applyLevel(volume, level)

	speaker.Lock()
	old := b.track
	b.track, b.ctrl, b.volume = track, ctrl, volume
	speaker.Unlock()
	b.ended.Store(false)

	speaker.Clear()
	if old != nil {
		old.Close()
	}
	speaker.Play(volume)

	b.emit(EventDurationChange, EventLoadedMetadata, EventLoadedData, EventCanPlay, EventCanPlayThrough, EventProgress)
	return nil
}

func (b *BeepMedia) open(src string) (*beepTrack, error) {
	if src == "" {
		return nil, ErrNotLoaded
	}
	decode, err := decoderFor(src)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", src)
	}
	streamer, format, err := decode(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "cannot decode %s", src)
	}
	return &beepTrack{src: src, file: f, streamer: streamer, format: format}, nil
}

func (b *BeepMedia) Play() error {
	if b.closed.Load() {
		return ErrClosed
	}
	src := b.Src()
	speaker.Lock()
	loaded := b.track != nil && b.track.src == src
	speaker.Unlock()
	if !loaded {
		if err := b.Load(); err != nil {
			return err
		}
	}

	speaker.Lock()
	if b.ended.Load() {
		if err := b.track.streamer.Seek(0); err != nil {
			speaker.Unlock()
			return errors.Wrap(err, "rewind")
		}
		b.ended.Store(false)
	}
	b.ctrl.Paused = false
	speaker.Unlock()

	b.emit(EventPlay, EventPlaying)
	return nil
}

func (b *BeepMedia) Pause() error {
	speaker.Lock()
	if b.ctrl != nil {
		b.ctrl.Paused = true
	}
	speaker.Unlock()
	b.emit(EventPause)
	return nil
}

func (b *BeepMedia) Subscribe(kind EventKind, handler Handler) func() {
	return b.emitter.Subscribe(kind, handler)
}

// Close stops the ticker and releases the track, the media is unusable afterwards
func (b *BeepMedia) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	b.cancel()
	<-b.done
	speaker.Clear()
	speaker.Lock()
	track := b.track
	b.track, b.ctrl, b.volume = nil, nil, nil
	speaker.Unlock()
	if track != nil {
		track.Close()
	}
	return nil
}

func (b *BeepMedia) emit(kinds ...EventKind) {
	b.dispatch(func() {
		for _, kind := range kinds {
			b.emitter.Emit(Event{Kind: kind, Target: b})
		}
	})
}

// tick emits timeupdate while playing
func (b *BeepMedia) tick(ctx context.Context) {
	defer close(b.done)
	ticker := time.NewTicker(timeUpdatePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !b.Paused() {
				b.emit(EventTimeUpdate)
			}
		case <-ctx.Done():
			return
		}
	}
}

// finish runs off the audio thread once the track ran out
func (b *BeepMedia) finish() {
	b.emit(EventTimeUpdate, EventPause, EventEnded)
}

func applyLevel(v *effects.Volume, level float64) {
	if v == nil {
		return
	}
	v.Silent = level <= 0
	if level > 0 {
		v.Volume = math.Log2(level)
	}
}

// endStreamer loops or stops the track when the decoder runs dry.
// Stream is called by the speaker with speaker.Lock held.
type endStreamer struct {
	media  *BeepMedia
	track  *beepTrack
	ctrl   *beep.Ctrl
	stream beep.Streamer
}

func (s *endStreamer) Stream(samples [][2]float64) (int, bool) {
	n, _ := s.stream.Stream(samples)
	if n < len(samples) && s.media.loop.Load() {
		if err := s.track.streamer.Seek(0); err == nil {
			m, _ := s.stream.Stream(samples[n:])
			n += m
		}
	}
	if n < len(samples) {
		for i := n; i < len(samples); i++ {
			samples[i] = [2]float64{}
		}
		if !s.media.ended.Swap(true) {
			s.ctrl.Paused = true
			go s.media.finish()
		}
	}
	return len(samples), true
}

func (s *endStreamer) Err() error {
	return s.stream.Err()
}

var (
	_ Media         = (*BeepMedia)(nil)
	_ beep.Streamer = (*endStreamer)(nil)
	_ io.Closer     = (*BeepMedia)(nil)
)
