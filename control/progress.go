package control

import (
	"context"
	"fmt"
	"math"
	"time"

	"emperror.dev/errors"
	"github.com/rs/zerolog"
	"github.com/yhkl-dev/naviplayer/player"
)

const (
	defaultProgressUpdateInterval = 20 * time.Millisecond
	downloadProgressAnimation     = 200 * time.Millisecond
)

var ErrSeekFailed = errors.New("seek failed")

// SeekFunc replaces the direct currentTime assignment, for sources that need
// custom seeking. It runs on its own goroutine.
type SeekFunc func(ctx context.Context, media player.Media, seconds float64) error

// BufferedRange is one buffered segment in whole percents of the bar.
type BufferedRange struct {
	Left  int
	Width int
}

type ProgressBarOptions struct {
	// SrcDuration, when positive, is used instead of the media duration.
	SrcDuration    float64
	UpdateInterval time.Duration
	Seek           SeekFunc
	Label          string

	OnChangeCurrentTimeError func(error)

	Dispatch  player.Dispatcher
	AfterFunc AfterFunc
	Now       func() time.Time
	Logger    zerolog.Logger
}

// ProgressBar turns pointer drags into seeks and mirrors the playback
// position and buffered ranges of a media. Methods must be called from the
// goroutine media events are dispatched to.
type ProgressBar struct {
	media    player.Media
	opts     ProgressBarOptions
	capturer PointerCapturer
	bounds   Rect

	position   float64
	buffered   []BufferedRange
	dragging   bool
	waiting    bool
	timeOnMove float64
	session    *DragSession
	animation  animation

	mounted bool
	unsubs  []func()
	ctx     context.Context
	cancel  context.CancelFunc
	seekGen int
}

func NewProgressBar(media player.Media, opts ProgressBarOptions) *ProgressBar {
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = defaultProgressUpdateInterval
	}
	if opts.Dispatch == nil {
		opts.Dispatch = player.Inline
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = DispatchedAfterFunc(opts.Dispatch)
	}
	return &ProgressBar{
		media:     media,
		opts:      opts,
		animation: animation{after: opts.AfterFunc, window: downloadProgressAnimation},
	}
}

// SetCapturer attaches the surface that grabs the pointer during drags
func (b *ProgressBar) SetCapturer(c PointerCapturer) { b.capturer = c }

// SetBounds records where the bar currently is on screen
func (b *ProgressBar) SetBounds(r Rect) { b.bounds = r }

func (b *ProgressBar) Bounds() Rect { return b.bounds }

// Mount subscribes to the media. ctx bounds pending seek callbacks.
func (b *ProgressBar) Mount(ctx context.Context) {
	if b.mounted || b.media == nil {
		return
	}
	b.mounted = true
	b.ctx, b.cancel = context.WithCancel(ctx)

	onTimeUpdate := Throttle(b.handleTimeUpdate, b.opts.UpdateInterval, b.opts.Now)
	b.unsubs = append(b.unsubs,
		b.media.Subscribe(player.EventTimeUpdate, onTimeUpdate),
		b.media.Subscribe(player.EventProgress, func(player.Event) { b.updateBuffered() }),
	)
}

// Unmount releases every subscription, an active drag and a pending seek.
// A seek completing afterwards is ignored.
func (b *ProgressBar) Unmount() {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
	b.session.End()
	b.session = nil
	b.dragging = false
	b.waiting = false
	b.seekGen++
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.animation.reset()
	b.mounted = false
}

// Position is the displayed playback position in percent
func (b *ProgressBar) Position() float64 { return b.position }

func (b *ProgressBar) PositionString() string {
	return fmt.Sprintf("%.2f%%", b.position)
}

func (b *ProgressBar) Buffered() []BufferedRange { return b.buffered }

func (b *ProgressBar) Dragging() bool { return b.dragging }

// WaitingForSeek is true between the release of a drag and the completion of the seek callback
func (b *ProgressBar) WaitingForSeek() bool { return b.waiting }

// Animating is true shortly after the buffered ranges changed
func (b *ProgressBar) Animating() bool { return b.animation.active }

func (b *ProgressBar) Accessibility() Accessibility {
	return Accessibility{
		Role:     "progressbar",
		Label:    b.opts.Label,
		ValueMin: 0,
		ValueMax: 100,
		ValueNow: math.Round(b.position*100) / 100,
	}
}

func (b *ProgressBar) PointerDown(x int) {
	if b.media == nil {
		return
	}
	seconds, pos := b.progressAt(x)
	if !finite(seconds) {
		return
	}
	b.session.End()

	b.timeOnMove = seconds
	b.position = pos
	b.dragging = true
	b.session = StartDrag(b.capturer, b)
}

func (b *ProgressBar) PointerMove(x int) {
	if !b.dragging {
		return
	}
	b.timeOnMove, b.position = b.progressAt(x)
}

func (b *ProgressBar) PointerUp(x int) {
	if !b.dragging {
		return
	}
	defer b.endDrag()

	seconds := b.timeOnMove
	if b.opts.Seek != nil {
		b.dragging = false
		b.waiting = true
		b.startSeek(seconds)
		return
	}

	b.dragging = false
	ready := b.media.ReadyState()
	if ready == player.HaveNothing || ready == player.HaveMetadata || !finite(seconds) {
		if err := b.media.Load(); err != nil {
			b.position = 0
			b.reportError(err)
			return
		}
	}
	if !finite(seconds) {
		return
	}
	if err := b.media.SetCurrentTime(seconds); err != nil {
		b.reportError(err)
	}
}

func (b *ProgressBar) endDrag() {
	b.session.End()
	b.session = nil
}

func (b *ProgressBar) startSeek(seconds float64) {
	ctx := b.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	b.seekGen++
	gen := b.seekGen
	seek, media, dispatch := b.opts.Seek, b.media, b.opts.Dispatch

	go func() {
		err := seek(ctx, media, seconds)
		dispatch(func() {
			if gen != b.seekGen {
				return
			}
			b.waiting = false
			if err != nil {
				b.reportError(errors.WithMessagef(errors.Combine(ErrSeekFailed, err), "seek to %.2fs", seconds))
			}
		})
	}()
}

func (b *ProgressBar) reportError(err error) {
	if b.opts.OnChangeCurrentTimeError != nil {
		b.opts.OnChangeCurrentTimeError(err)
		return
	}
	b.opts.Logger.Error().Err(err).Msg("cannot change current time")
}

// progressAt maps a pointer x to a time and a position in percent
func (b *ProgressBar) progressAt(x int) (float64, float64) {
	if b.bounds.Width <= 0 {
		return math.NaN(), b.position
	}
	if b.opts.SrcDuration <= 0 && (b.media.Src() == "" || !finite(b.media.CurrentTime())) {
		return 0, 0
	}

	ratio := float64(b.bounds.relative(x)) / float64(b.bounds.Width)
	return b.duration() * ratio, ratio * 100
}

func (b *ProgressBar) duration() float64 {
	d := b.opts.SrcDuration
	if d <= 0 {
		d = b.media.Duration()
	}
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	return d
}

func (b *ProgressBar) handleTimeUpdate(player.Event) {
	if b.dragging || b.waiting {
		return
	}
	b.position = percent(b.media.CurrentTime(), b.duration())
	b.updateBuffered()
}

func (b *ProgressBar) updateBuffered() {
	duration := b.duration()
	ranges := b.media.Buffered()
	buffered := make([]BufferedRange, 0, len(ranges))
	for _, r := range ranges {
		buffered = append(buffered, BufferedRange{
			Left:  int(math.Round(percent(r.Start, duration))),
			Width: int(math.Round(percent(r.End-r.Start, duration))),
		})
	}
	b.buffered = buffered
	b.animation.start()
}

// percent returns part/whole*100 clamped to [0,100], 0 when undefined
func percent(part, whole float64) float64 {
	p := part / whole * 100
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return math.Max(0, math.Min(100, p))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
