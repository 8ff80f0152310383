package control

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/yhkl-dev/naviplayer/player"
)

const volumeAnimation = 100 * time.Millisecond

type VolumeBarOptions struct {
	Label string

	// OnMuteChange fires when the volume crosses between zero and non-zero
	OnMuteChange func(muted bool)

	Dispatch  player.Dispatcher
	AfterFunc AfterFunc
	Logger    zerolog.Logger
}

// VolumeBar maps pointer drags straight to the media volume and mirrors
// volume changes made elsewhere.
type VolumeBar struct {
	media    player.Media
	opts     VolumeBarOptions
	capturer PointerCapturer
	bounds   Rect

	position  float64
	dragging  bool
	session   *DragSession
	animation animation

	lastVolume    float64
	restoreVolume float64

	mounted bool
	unsub   func()
}

func NewVolumeBar(media player.Media, opts VolumeBarOptions) *VolumeBar {
	if opts.Dispatch == nil {
		opts.Dispatch = player.Inline
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = DispatchedAfterFunc(opts.Dispatch)
	}
	b := &VolumeBar{
		media:         media,
		opts:          opts,
		animation:     animation{after: opts.AfterFunc, window: volumeAnimation},
		lastVolume:    1,
		restoreVolume: 1,
	}
	if media != nil {
		b.sync(media.Volume())
	}
	return b
}

// SetRestoreVolume sets the level ToggleMute returns to, zero is ignored
func (b *VolumeBar) SetRestoreVolume(v float64) {
	if v > 0 {
		b.restoreVolume = math.Min(1, v)
	}
}

func (b *VolumeBar) SetCapturer(c PointerCapturer) { b.capturer = c }

func (b *VolumeBar) SetBounds(r Rect) { b.bounds = r }

func (b *VolumeBar) Bounds() Rect { return b.bounds }

func (b *VolumeBar) Mount() {
	if b.mounted || b.media == nil {
		return
	}
	b.mounted = true
	b.sync(b.media.Volume())
	b.unsub = b.media.Subscribe(player.EventVolumeChange, b.handleVolumeChange)
}

func (b *VolumeBar) Unmount() {
	if b.unsub != nil {
		b.unsub()
		b.unsub = nil
	}
	b.session.End()
	b.session = nil
	b.dragging = false
	b.animation.reset()
	b.mounted = false
}

// Position is the displayed volume in percent
func (b *VolumeBar) Position() float64 { return b.position }

func (b *VolumeBar) PositionString() string {
	return fmt.Sprintf("%.2f%%", b.position)
}

func (b *VolumeBar) Dragging() bool { return b.dragging }

func (b *VolumeBar) Animating() bool { return b.animation.active }

func (b *VolumeBar) Muted() bool {
	return b.media != nil && b.media.Volume() == 0
}

func (b *VolumeBar) Accessibility() Accessibility {
	now := 0.0
	if b.media != nil {
		now = math.Round(b.media.Volume() * 100)
	}
	return Accessibility{
		Role:     "progressbar",
		Label:    b.opts.Label,
		ValueMin: 0,
		ValueMax: 100,
		ValueNow: now,
	}
}

// ToggleMute sets the volume to zero, or back to the last non-zero volume seen
func (b *VolumeBar) ToggleMute() {
	if b.media == nil {
		return
	}
	if v := b.media.Volume(); v > 0 {
		b.restoreVolume = v
		b.apply(0)
		return
	}
	b.apply(b.restoreVolume)
}

func (b *VolumeBar) PointerDown(x int) {
	if b.media == nil {
		return
	}
	b.session.End()

	volume, pos := b.volumeAt(x)
	b.dragging = true
	b.position = pos
	b.apply(volume)
	b.session = StartDrag(b.capturer, b)
}

func (b *VolumeBar) PointerMove(x int) {
	if !b.dragging {
		return
	}
	volume, pos := b.volumeAt(x)
	b.position = pos
	b.apply(volume)
}

func (b *VolumeBar) PointerUp(int) {
	b.dragging = false
	b.session.End()
	b.session = nil
}

func (b *VolumeBar) volumeAt(x int) (float64, float64) {
	if b.bounds.Width <= 0 {
		return b.media.Volume(), b.position
	}
	rel := x - b.bounds.Left
	switch {
	case rel < 0:
		return 0, 0
	case rel > b.bounds.Width:
		return 1, 100
	}
	ratio := float64(rel) / float64(b.bounds.Width)
	return ratio, ratio * 100
}

func (b *VolumeBar) apply(volume float64) {
	if err := b.media.SetVolume(volume); err != nil {
		b.opts.Logger.Error().Err(err).Float64("volume", volume).Msg("cannot set volume")
	}
}

func (b *VolumeBar) handleVolumeChange(player.Event) {
	volume := b.media.Volume()
	if (b.lastVolume > 0 && volume == 0) || (b.lastVolume == 0 && volume > 0) {
		if b.opts.OnMuteChange != nil {
			b.opts.OnMuteChange(volume == 0)
		}
	}
	b.lastVolume = volume
	if volume > 0 {
		b.restoreVolume = volume
	}
	if b.dragging {
		return
	}
	b.position = percent(volume, 1)
	b.animation.start()
}

func (b *VolumeBar) sync(volume float64) {
	b.lastVolume = volume
	if volume > 0 {
		b.restoreVolume = volume
	}
	b.position = percent(volume, 1)
}
