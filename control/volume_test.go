package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yhkl-dev/naviplayer/player"
	"github.com/yhkl-dev/naviplayer/player/playertest"
)

type volumeFixture struct {
	media    *playertest.Media
	bar      *VolumeBar
	capturer *capturer
	sched    *scheduler
	mutes    []bool
}

func newVolumeFixture(t *testing.T, level float64) *volumeFixture {
	t.Helper()
	f := &volumeFixture{
		media:    playertest.New("track.mp3", 100),
		capturer: &capturer{},
		sched:    &scheduler{},
	}
	f.media.Level = level
	f.bar = NewVolumeBar(f.media, VolumeBarOptions{
		Label:        "Volume control",
		AfterFunc:    f.sched.after,
		OnMuteChange: func(muted bool) { f.mutes = append(f.mutes, muted) },
	})
	f.bar.SetCapturer(f.capturer)
	f.bar.SetBounds(Rect{Left: 0, Width: 200})
	f.bar.Mount()
	t.Cleanup(f.bar.Unmount)
	return f
}

func TestVolumeBarPointerMapping(t *testing.T) {
	f := newVolumeFixture(t, 1)

	f.bar.PointerDown(-5)
	assert.Equal(t, 0.0, f.media.Level)
	assert.Equal(t, 0.0, f.bar.Position())
	assert.True(t, f.bar.Dragging())

	f.capturer.handler.PointerMove(250)
	assert.Equal(t, 1.0, f.media.Level)
	assert.Equal(t, 100.0, f.bar.Position())

	f.capturer.handler.PointerMove(50)
	assert.Equal(t, 0.25, f.media.Level)
	assert.Equal(t, "25.00%", f.bar.PositionString())

	f.capturer.handler.PointerMove(200)
	assert.Equal(t, 1.0, f.media.Level)

	f.capturer.handler.PointerUp(200)
	assert.False(t, f.bar.Dragging())
	assert.Equal(t, 1, f.capturer.releases)
}

func TestVolumeBarDragSuppressesAnimation(t *testing.T) {
	f := newVolumeFixture(t, 1)

	f.bar.PointerDown(100)
	assert.Equal(t, 0.5, f.media.Level)
	assert.False(t, f.bar.Animating())
	assert.Empty(t, f.sched.pending())

	f.bar.PointerUp(100)
	require.NoError(t, f.media.SetVolume(0.8))
	assert.Equal(t, 80.0, f.bar.Position())
	assert.True(t, f.bar.Animating())

	pending := f.sched.pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 100*time.Millisecond, pending[0].at)
	f.sched.fire()
	assert.False(t, f.bar.Animating())
}

func TestVolumeBarToggleMuteRestoresLastVolume(t *testing.T) {
	f := newVolumeFixture(t, 0.6)

	f.bar.ToggleMute()
	assert.Equal(t, 0.0, f.media.Level)
	assert.True(t, f.bar.Muted())

	f.bar.ToggleMute()
	assert.Equal(t, 0.6, f.media.Level)
	assert.False(t, f.bar.Muted())
	assert.Equal(t, []bool{true, false}, f.mutes)
}

func TestVolumeBarToggleMuteAfterDragToZero(t *testing.T) {
	f := newVolumeFixture(t, 1)

	f.bar.PointerDown(140)
	f.bar.PointerMove(-10)
	f.bar.PointerUp(-10)
	assert.Equal(t, 0.0, f.media.Level)

	f.bar.ToggleMute()
	assert.Equal(t, 0.7, f.media.Level)
}

func TestVolumeBarToggleMuteDefaultsToFull(t *testing.T) {
	f := newVolumeFixture(t, 0)

	f.bar.ToggleMute()
	assert.Equal(t, 1.0, f.media.Level)
}

func TestVolumeBarMuteChangeOnlyOnTransitions(t *testing.T) {
	f := newVolumeFixture(t, 0.5)

	for _, v := range []float64{0.4, 0.3, 0, 0, 0.2, 0.9} {
		require.NoError(t, f.media.SetVolume(v))
	}
	assert.Equal(t, []bool{true, false}, f.mutes)
}

func TestVolumeBarUnmount(t *testing.T) {
	f := newVolumeFixture(t, 1)
	f.bar.PointerDown(20)
	f.bar.Unmount()

	assert.False(t, f.bar.Dragging())
	assert.Equal(t, 1, f.capturer.releases)
	assert.Zero(t, f.media.Subscribers(player.EventVolumeChange))
}

func TestVolumeBarAccessibility(t *testing.T) {
	f := newVolumeFixture(t, 0.456)

	a := f.bar.Accessibility()
	assert.Equal(t, "progressbar", a.Role)
	assert.Equal(t, "Volume control", a.Label)
	assert.Equal(t, 46.0, a.ValueNow)
}
