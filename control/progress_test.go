package control

import (
	"context"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yhkl-dev/naviplayer/player"
	"github.com/yhkl-dev/naviplayer/player/playertest"
)

type progressFixture struct {
	media    *playertest.Media
	bar      *ProgressBar
	capturer *capturer
	sched    *scheduler
	clock    *clock
	errs     []error
}

func newProgressFixture(t *testing.T, opts ProgressBarOptions) *progressFixture {
	t.Helper()
	f := &progressFixture{
		media:    playertest.New("track.mp3", 100),
		capturer: &capturer{},
		sched:    &scheduler{},
		clock:    newClock(),
	}
	opts.AfterFunc = f.sched.after
	opts.Now = f.clock.Now
	opts.OnChangeCurrentTimeError = func(err error) { f.errs = append(f.errs, err) }
	f.bar = NewProgressBar(f.media, opts)
	f.bar.SetCapturer(f.capturer)
	f.bar.SetBounds(Rect{Left: 10, Width: 100})
	f.bar.Mount(context.Background())
	t.Cleanup(f.bar.Unmount)
	return f
}

func (f *progressFixture) timeUpdate(seconds float64) {
	f.clock.advance(time.Second)
	f.media.Time = seconds
	f.media.Emit(player.EventTimeUpdate)
}

func TestProgressBarPointerIsClamped(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{})

	f.bar.PointerDown(0)
	assert.True(t, f.bar.Dragging())
	assert.Equal(t, 0.0, f.bar.Position())
	assert.Equal(t, "0.00%", f.bar.PositionString())

	f.bar.PointerMove(500)
	assert.Equal(t, 100.0, f.bar.Position())

	f.bar.PointerMove(35)
	assert.Equal(t, "25.00%", f.bar.PositionString())

	f.bar.PointerUp(35)
	assert.False(t, f.bar.Dragging())
	assert.Equal(t, []float64{25}, f.media.Seeks)
	assert.Equal(t, 1, f.capturer.captures)
	assert.Equal(t, 1, f.capturer.releases)
	assert.Empty(t, f.errs)
}

func TestProgressBarDragOwnsPosition(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{})

	f.bar.PointerDown(60)
	assert.Equal(t, 50.0, f.bar.Position())
	assert.Same(t, f.bar, f.capturer.handler)

	f.timeUpdate(10)
	assert.Equal(t, 50.0, f.bar.Position(), "timeupdate must not move the bar during a drag")

	f.capturer.handler.PointerMove(90)
	assert.Equal(t, 80.0, f.bar.Position())

	f.capturer.handler.PointerUp(90)
	assert.Equal(t, []float64{80}, f.media.Seeks)

	f.timeUpdate(40)
	assert.Equal(t, 40.0, f.bar.Position())
}

func TestProgressBarIgnoresPointerWithoutDrag(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{})

	f.bar.PointerMove(50)
	f.bar.PointerUp(50)
	assert.Empty(t, f.media.Seeks)
	assert.Zero(t, f.capturer.captures)
}

func TestProgressBarWithoutSource(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{})
	f.media.Source = ""

	f.bar.PointerDown(80)
	assert.Equal(t, 0.0, f.bar.Position())
	f.bar.PointerUp(80)
	assert.Equal(t, []float64{0}, f.media.Seeks)
}

func TestProgressBarSrcDuration(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{SrcDuration: 400})
	f.media.Source = ""

	f.bar.PointerDown(35)
	f.bar.PointerUp(35)
	assert.Equal(t, []float64{100}, f.media.Seeks)

	f.timeUpdate(200)
	assert.Equal(t, 50.0, f.bar.Position())
}

func TestProgressBarReloadsBeforeSeek(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{})
	f.media.Ready = player.HaveMetadata

	f.bar.PointerDown(60)
	f.bar.PointerUp(60)
	assert.Equal(t, 1, f.media.LoadCalls)
	assert.Equal(t, []float64{50}, f.media.Seeks)
}

func TestProgressBarLoadFailure(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{})
	f.media.Ready = player.HaveNothing
	f.media.LoadErr = errors.New("no such file")

	f.bar.PointerDown(60)
	f.bar.PointerUp(60)

	require.Len(t, f.errs, 1)
	assert.ErrorIs(t, f.errs[0], f.media.LoadErr)
	assert.Equal(t, 0.0, f.bar.Position())
	assert.False(t, f.bar.Dragging())
	assert.Equal(t, 1, f.capturer.releases)
	assert.Empty(t, f.media.Seeks)
}

func TestProgressBarSetCurrentTimeFailure(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{})
	f.media.SeekErr = player.ErrNotLoaded

	f.bar.PointerDown(60)
	f.bar.PointerUp(60)

	require.Len(t, f.errs, 1)
	assert.ErrorIs(t, f.errs[0], player.ErrNotLoaded)
	assert.False(t, f.bar.Dragging())
}

func TestProgressBarSeekCallback(t *testing.T) {
	q := newQueue()
	release := make(chan error)
	var target float64

	f := newProgressFixture(t, ProgressBarOptions{
		Dispatch: q.dispatch,
		Seek: func(ctx context.Context, media player.Media, seconds float64) error {
			target = seconds
			return <-release
		},
	})

	f.bar.PointerDown(85)
	f.bar.PointerUp(85)
	assert.False(t, f.bar.Dragging())
	assert.True(t, f.bar.WaitingForSeek())
	assert.Equal(t, 1, f.capturer.releases)

	f.timeUpdate(3)
	assert.Equal(t, 75.0, f.bar.Position(), "position stays frozen while the seek is pending")

	release <- nil
	require.True(t, q.next())
	assert.Equal(t, 75.0, target)
	assert.False(t, f.bar.WaitingForSeek())
	assert.Empty(t, f.media.Seeks, "the callback replaces the direct seek")

	f.timeUpdate(75)
	assert.Equal(t, 75.0, f.bar.Position())
	f.timeUpdate(20)
	assert.Equal(t, 20.0, f.bar.Position())
}

func TestProgressBarSeekCallbackFailure(t *testing.T) {
	q := newQueue()
	cause := errors.New("segment unavailable")

	f := newProgressFixture(t, ProgressBarOptions{
		Dispatch: q.dispatch,
		Seek: func(context.Context, player.Media, float64) error {
			return cause
		},
	})

	f.bar.PointerDown(30)
	f.bar.PointerUp(30)
	require.True(t, q.next())

	assert.False(t, f.bar.WaitingForSeek())
	require.Len(t, f.errs, 1)
	assert.ErrorIs(t, f.errs[0], ErrSeekFailed)
	assert.ErrorIs(t, f.errs[0], cause)
}

func TestProgressBarUnmountDiscardsPendingSeek(t *testing.T) {
	q := newQueue()
	canceled := make(chan struct{})

	f := newProgressFixture(t, ProgressBarOptions{
		Dispatch: q.dispatch,
		Seek: func(ctx context.Context, _ player.Media, _ float64) error {
			<-ctx.Done()
			close(canceled)
			return ctx.Err()
		},
	})

	f.bar.PointerDown(30)
	f.bar.PointerUp(30)
	f.bar.Unmount()

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("seek context was not canceled")
	}
	require.True(t, q.next())
	assert.False(t, f.bar.WaitingForSeek())
	assert.Empty(t, f.errs)
	assert.Zero(t, f.media.Subscribers(player.EventTimeUpdate))
	assert.Zero(t, f.media.Subscribers(player.EventProgress))
}

func TestProgressBarUnmountEndsDrag(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{})

	f.bar.PointerDown(40)
	f.bar.Unmount()
	assert.False(t, f.bar.Dragging())
	assert.Equal(t, 1, f.capturer.releases)

	f.bar.PointerUp(40)
	assert.Empty(t, f.media.Seeks)
	assert.Equal(t, 1, f.capturer.releases)
}

func TestProgressBarTimeUpdateIsThrottled(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{UpdateInterval: 100 * time.Millisecond})

	f.media.Time = 10
	f.media.Emit(player.EventTimeUpdate)
	assert.Equal(t, 10.0, f.bar.Position())

	f.clock.advance(50 * time.Millisecond)
	f.media.Time = 11
	f.media.Emit(player.EventTimeUpdate)
	assert.Equal(t, 10.0, f.bar.Position())

	f.clock.advance(60 * time.Millisecond)
	f.media.Emit(player.EventTimeUpdate)
	assert.Equal(t, 11.0, f.bar.Position())
}

func TestProgressBarBufferedRanges(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{})
	f.media.Length = 200
	f.media.Ranges = []player.TimeRange{{Start: 0, End: 50}, {Start: 100, End: 200}}

	f.media.Emit(player.EventProgress)
	assert.Equal(t, []BufferedRange{{Left: 0, Width: 25}, {Left: 50, Width: 50}}, f.bar.Buffered())
	assert.True(t, f.bar.Animating())

	pending := f.sched.pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 200*time.Millisecond, pending[0].at)

	f.sched.fire()
	assert.False(t, f.bar.Animating())
}

func TestProgressBarUnknownDuration(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{})
	f.media.Length = 0
	f.media.Ranges = []player.TimeRange{{Start: 0, End: 10}}

	f.timeUpdate(30)
	assert.Equal(t, 0.0, f.bar.Position())
	assert.Equal(t, []BufferedRange{{Left: 0, Width: 0}}, f.bar.Buffered())
}

func TestProgressBarZeroWidthIgnoresPointer(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{SrcDuration: 100})
	f.bar.SetBounds(Rect{})

	f.bar.PointerDown(5)
	assert.False(t, f.bar.Dragging())
	assert.Zero(t, f.capturer.captures)
}

func TestProgressBarZeroWidthWithoutSrcDurationIgnoresPointer(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{})
	f.media.Time = 60
	f.bar.SetBounds(Rect{Left: 10, Width: 0})

	f.bar.PointerDown(10)
	f.bar.PointerUp(10)
	assert.False(t, f.bar.Dragging())
	assert.Zero(t, f.capturer.captures)
	assert.Empty(t, f.media.Seeks)
}

func TestProgressBarAccessibility(t *testing.T) {
	f := newProgressFixture(t, ProgressBarOptions{Label: "Audio progress control"})
	f.media.Length = 300
	f.timeUpdate(100)

	a := f.bar.Accessibility()
	assert.Equal(t, "progressbar", a.Role)
	assert.Equal(t, "Audio progress control", a.Label)
	assert.Equal(t, 0.0, a.ValueMin)
	assert.Equal(t, 100.0, a.ValueMax)
	assert.Equal(t, 33.33, a.ValueNow)
}
