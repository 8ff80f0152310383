package control

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/yhkl-dev/naviplayer/config"
	"github.com/yhkl-dev/naviplayer/player"
)

// Options configure a Player. Zero durations and a zero Volume fall back to the
// defaults of config.DefaultConfig, Muted starts silent.
type Options struct {
	Src                    string
	AutoPlay               bool
	AutoPlayAfterSrcChange bool
	ListenInterval         time.Duration
	BackwardStep           time.Duration
	ForwardStep            time.Duration
	VolumeJumpStep         float64
	Loop                   bool
	Muted                  bool
	Volume                 float64
	ProgressUpdateInterval time.Duration
	SrcDuration            float64
	Seek                   SeekFunc

	TimeFormat         TimeFormat
	DefaultCurrentTime string
	DefaultDuration    string
	ProgressLabel      string
	VolumeLabel        string

	Dispatch  player.Dispatcher
	AfterFunc AfterFunc
	Now       func() time.Time
	Logger    zerolog.Logger
}

// OptionsFromConfig maps the configuration file onto player options
func OptionsFromConfig(cfg *config.Config) Options {
	p := cfg.Player
	return Options{
		AutoPlay:               p.AutoPlay,
		AutoPlayAfterSrcChange: p.AutoPlayAfterSrcChange,
		ListenInterval:         p.GetListenInterval(),
		BackwardStep:           time.Duration(p.BackwardStep()) * time.Millisecond,
		ForwardStep:            time.Duration(p.ForwardStep()) * time.Millisecond,
		VolumeJumpStep:         p.VolumeJumpStep,
		Loop:                   p.Loop,
		Muted:                  p.Muted,
		Volume:                 p.Volume,
		ProgressUpdateInterval: p.GetProgressUpdateInterval(),
		SrcDuration:            p.SrcDuration,
		TimeFormat:             TimeFormat(cfg.UI.TimeFormat),
		DefaultCurrentTime:     cfg.UI.DefaultCurrentTime,
		DefaultDuration:        cfg.UI.DefaultDuration,
		ProgressLabel:          cfg.UI.AriaLabels.ProgressControl,
		VolumeLabel:            cfg.UI.AriaLabels.VolumeControl,
	}
}

func (o *Options) setDefaults() {
	def := config.DefaultConfig()
	if o.ListenInterval <= 0 {
		o.ListenInterval = def.Player.GetListenInterval()
	}
	if o.BackwardStep <= 0 {
		o.BackwardStep = time.Duration(def.Player.ProgressJumpStep) * time.Millisecond
	}
	if o.ForwardStep <= 0 {
		o.ForwardStep = time.Duration(def.Player.ProgressJumpStep) * time.Millisecond
	}
	if o.Volume <= 0 {
		o.Volume = def.Player.Volume
	}
	if o.ProgressUpdateInterval <= 0 {
		o.ProgressUpdateInterval = def.Player.GetProgressUpdateInterval()
	}
	if o.TimeFormat == "" {
		o.TimeFormat = TimeFormat(def.UI.TimeFormat)
	}
	if o.DefaultCurrentTime == "" {
		o.DefaultCurrentTime = def.UI.DefaultCurrentTime
	}
	if o.DefaultDuration == "" {
		o.DefaultDuration = def.UI.DefaultDuration
	}
	if o.Dispatch == nil {
		o.Dispatch = player.Inline
	}
	if o.AfterFunc == nil {
		o.AfterFunc = DispatchedAfterFunc(o.Dispatch)
	}
}
