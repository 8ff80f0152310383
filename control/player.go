package control

import (
	"context"
	"math"

	"github.com/yhkl-dev/naviplayer/player"
)

// Callbacks are the hooks a host can attach to the player. Every field is optional.
type Callbacks struct {
	OnAbort          func(player.Event)
	OnCanPlay        func(player.Event)
	OnCanPlayThrough func(player.Event)
	OnEnded          func(player.Event)
	OnPlaying        func(player.Event)
	OnSeeking        func(player.Event)
	OnSeeked         func(player.Event)
	OnStalled        func(player.Event)
	OnSuspend        func(player.Event)
	OnLoadStart      func(player.Event)
	OnLoadedMetaData func(player.Event)
	OnLoadedData     func(player.Event)
	OnWaiting        func(player.Event)
	OnEmptied        func(player.Event)
	OnError          func(player.Event)
	OnListen         func(player.Event) // throttled timeupdate
	OnVolumeChange   func(player.Event)
	OnPause          func(player.Event)
	OnPlay           func(player.Event)

	OnClickPrevious func()
	OnClickNext     func()

	OnPlayError              func(error)
	OnChangeCurrentTimeError func(error)
	OnMuteChange             func(muted bool)
}

// Player is the widget shell: it owns the media, forwards its events to the
// callbacks and carries the playback, seek and volume operations.
type Player struct {
	media player.Media
	opts  Options
	cb    Callbacks

	progress *ProgressBar
	volume   *VolumeBar
	labels   map[TimeLabelKind]*TimeLabel

	mounted bool
	unsubs  []func()
}

func NewPlayer(media player.Media, opts Options, cb Callbacks) *Player {
	opts.setDefaults()
	if opts.Src != "" {
		media.SetSrc(opts.Src)
	}

	p := &Player{media: media, opts: opts, cb: cb}
	p.progress = NewProgressBar(media, ProgressBarOptions{
		SrcDuration:              opts.SrcDuration,
		UpdateInterval:           opts.ProgressUpdateInterval,
		Seek:                     opts.Seek,
		Label:                    opts.ProgressLabel,
		OnChangeCurrentTimeError: p.changeCurrentTimeError,
		Dispatch:                 opts.Dispatch,
		AfterFunc:                opts.AfterFunc,
		Now:                      opts.Now,
		Logger:                   opts.Logger,
	})
	p.volume = NewVolumeBar(media, VolumeBarOptions{
		Label:        opts.VolumeLabel,
		OnMuteChange: cb.OnMuteChange,
		Dispatch:     opts.Dispatch,
		AfterFunc:    opts.AfterFunc,
		Logger:       opts.Logger,
	})
	p.labels = map[TimeLabelKind]*TimeLabel{
		CurrentTimeLabel: NewTimeLabel(media, CurrentTimeLabel, opts.TimeFormat, opts.DefaultCurrentTime, opts.SrcDuration),
		LeftTimeLabel:    NewTimeLabel(media, LeftTimeLabel, opts.TimeFormat, opts.DefaultCurrentTime, opts.SrcDuration),
		DurationLabel:    NewTimeLabel(media, DurationLabel, opts.TimeFormat, opts.DefaultDuration, opts.SrcDuration),
	}
	return p
}

func (p *Player) Media() player.Media { return p.media }

func (p *Player) ProgressBar() *ProgressBar { return p.progress }

func (p *Player) VolumeBar() *VolumeBar { return p.volume }

func (p *Player) TimeLabel(kind TimeLabelKind) *TimeLabel { return p.labels[kind] }

// Mount applies the initial volume and loop state, subscribes to the media
// and starts playback when AutoPlay is set.
func (p *Player) Mount(ctx context.Context) {
	if p.mounted {
		return
	}
	p.mounted = true

	volume := p.opts.Volume
	if p.opts.Muted {
		volume = 0
	}
	p.setVolume(volume)
	p.volume.SetRestoreVolume(p.opts.Volume)
	if err := p.media.SetLoop(p.opts.Loop); err != nil {
		p.opts.Logger.Error().Err(err).Msg("cannot set loop")
	}

	p.subscribe(player.EventError, p.handleError)
	p.subscribe(player.EventCanPlay, p.cb.OnCanPlay)
	p.subscribe(player.EventCanPlayThrough, p.cb.OnCanPlayThrough)
	p.subscribe(player.EventPlay, p.cb.OnPlay)
	p.subscribe(player.EventAbort, p.cb.OnAbort)
	p.subscribe(player.EventEnded, p.cb.OnEnded)
	p.subscribe(player.EventPlaying, p.cb.OnPlaying)
	p.subscribe(player.EventSeeking, p.cb.OnSeeking)
	p.subscribe(player.EventSeeked, p.cb.OnSeeked)
	p.subscribe(player.EventWaiting, p.cb.OnWaiting)
	p.subscribe(player.EventEmptied, p.cb.OnEmptied)
	p.subscribe(player.EventStalled, p.cb.OnStalled)
	p.subscribe(player.EventSuspend, p.cb.OnSuspend)
	p.subscribe(player.EventLoadStart, p.cb.OnLoadStart)
	p.subscribe(player.EventLoadedMetadata, p.cb.OnLoadedMetaData)
	p.subscribe(player.EventLoadedData, p.cb.OnLoadedData)
	p.subscribe(player.EventPause, p.cb.OnPause)
	p.subscribe(player.EventVolumeChange, p.cb.OnVolumeChange)
	if p.cb.OnListen != nil {
		p.subscribe(player.EventTimeUpdate, Throttle(p.cb.OnListen, p.opts.ListenInterval, p.opts.Now))
	}

	p.progress.Mount(ctx)
	p.volume.Mount()
	for _, l := range p.labels {
		l.Mount()
	}

	if p.opts.AutoPlay && p.media.Src() != "" {
		p.Play()
	}
}

func (p *Player) Unmount() {
	for _, unsub := range p.unsubs {
		unsub()
	}
	p.unsubs = nil
	p.progress.Unmount()
	p.volume.Unmount()
	for _, l := range p.labels {
		l.Unmount()
	}
	p.mounted = false
}

func (p *Player) subscribe(kind player.EventKind, h player.Handler) {
	if h == nil {
		return
	}
	p.unsubs = append(p.unsubs, p.media.Subscribe(kind, h))
}

// an error at the very end of the media counts as the end of playback
func (p *Player) handleError(e player.Event) {
	if p.media.Err() != nil && p.media.CurrentTime() == p.media.Duration() {
		if p.cb.OnEnded != nil {
			p.cb.OnEnded(e)
		}
		return
	}
	if p.cb.OnError != nil {
		p.cb.OnError(e)
	}
}

// Playing reports whether the media is advancing
func (p *Player) Playing() bool {
	return !p.media.Paused() && !p.media.Ended()
}

func (p *Player) Looping() bool { return p.media.Loop() }

func (p *Player) Volume() float64 { return p.media.Volume() }

func (p *Player) Muted() bool { return p.volume.Muted() }

// Play starts playback, reloading first when the media is in error
func (p *Player) Play() {
	if p.media.Err() != nil {
		if err := p.media.Load(); err != nil {
			p.playError(err)
			return
		}
	}
	if err := p.media.Play(); err != nil {
		p.playError(err)
	}
}

func (p *Player) Pause() {
	if err := p.media.Pause(); err != nil {
		p.opts.Logger.Error().Err(err).Msg("cannot pause")
	}
}

func (p *Player) TogglePlay() {
	switch {
	case (p.media.Paused() || p.media.Ended()) && p.media.Src() != "":
		p.Play()
	case !p.media.Paused():
		p.Pause()
	}
}

func (p *Player) Rewind() {
	p.jumpTime(-p.opts.BackwardStep.Seconds())
}

func (p *Player) Forward() {
	p.jumpTime(p.opts.ForwardStep.Seconds())
}

func (p *Player) jumpTime(delta float64) {
	ready := p.media.ReadyState()
	if ready == player.HaveNothing || ready == player.HaveMetadata ||
		!finite(p.media.Duration()) || !finite(p.media.CurrentTime()) {
		if err := p.media.Load(); err != nil {
			p.changeCurrentTimeError(err)
			return
		}
	}

	duration := p.media.Duration()
	t := p.media.CurrentTime() + delta
	if t < 0 {
		t = 0
	} else if t > duration {
		t = duration
	}
	if err := p.media.SetCurrentTime(t); err != nil {
		p.changeCurrentTimeError(err)
	}
}

// JumpVolume changes the volume by delta, clamped to [0,1]
func (p *Player) JumpVolume(delta float64) {
	p.setVolume(math.Max(0, math.Min(1, p.media.Volume()+delta)))
}

func (p *Player) VolumeUp() { p.JumpVolume(p.opts.VolumeJumpStep) }

func (p *Player) VolumeDown() { p.JumpVolume(-p.opts.VolumeJumpStep) }

func (p *Player) ToggleLoop() {
	if err := p.media.SetLoop(!p.media.Loop()); err != nil {
		p.opts.Logger.Error().Err(err).Msg("cannot toggle loop")
	}
}

func (p *Player) ToggleMute() { p.volume.ToggleMute() }

func (p *Player) Previous() {
	if p.cb.OnClickPrevious != nil {
		p.cb.OnClickPrevious()
	}
}

func (p *Player) Next() {
	if p.cb.OnClickNext != nil {
		p.cb.OnClickNext()
	}
}

// SetSrc switches the source and, with AutoPlayAfterSrcChange, starts it
func (p *Player) SetSrc(src string) {
	p.media.SetSrc(src)
	if src == "" {
		return
	}
	if p.opts.AutoPlayAfterSrcChange {
		p.Play()
		return
	}
	if err := p.media.Load(); err != nil {
		p.opts.Logger.Error().Err(err).Str("src", src).Msg("cannot load source")
	}
}

func (p *Player) setVolume(v float64) {
	if err := p.media.SetVolume(v); err != nil {
		p.opts.Logger.Error().Err(err).Float64("volume", v).Msg("cannot set volume")
	}
}

func (p *Player) playError(err error) {
	p.opts.Logger.Error().Err(err).Str("src", p.media.Src()).Msg("cannot play")
	if p.cb.OnPlayError != nil {
		p.cb.OnPlayError(err)
	}
}

func (p *Player) changeCurrentTimeError(err error) {
	p.opts.Logger.Error().Err(err).Msg("cannot change current time")
	if p.cb.OnChangeCurrentTimeError != nil {
		p.cb.OnChangeCurrentTimeError(err)
	}
}
