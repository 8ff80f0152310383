package config

import (
	"slices"
	"time"

	"emperror.dev/errors"
)

// Config represents the complete application configuration
type Config struct {
	Player PlayerConfig `mapstructure:"player" toml:"player"`
	UI     UIConfig     `mapstructure:"ui" toml:"ui"`
	Log    LogConfig    `mapstructure:"log" toml:"log"`
}

// PlayerConfig contains playback behaviour settings
type PlayerConfig struct {
	Backend                string    `mapstructure:"backend" toml:"backend"` // mpv or beep
	AutoPlay               bool      `mapstructure:"auto_play" toml:"auto_play"`
	AutoPlayAfterSrcChange bool      `mapstructure:"auto_play_after_src_change" toml:"auto_play_after_src_change"`
	ListenInterval         int       `mapstructure:"listen_interval" toml:"listen_interval"`       // in milliseconds
	ProgressJumpStep       int       `mapstructure:"progress_jump_step" toml:"progress_jump_step"` // in milliseconds
	ProgressJumpSteps      JumpSteps `mapstructure:"progress_jump_steps" toml:"progress_jump_steps"`
	VolumeJumpStep         float64   `mapstructure:"volume_jump_step" toml:"volume_jump_step"`
	Loop                   bool      `mapstructure:"loop" toml:"loop"`
	Muted                  bool      `mapstructure:"muted" toml:"muted"`
	Volume                 float64   `mapstructure:"volume" toml:"volume"`
	ProgressUpdateInterval int       `mapstructure:"progress_update_interval" toml:"progress_update_interval"` // in milliseconds
	HasDefaultKeyBindings  bool      `mapstructure:"has_default_key_bindings" toml:"has_default_key_bindings"`
	SrcDuration            float64   `mapstructure:"src_duration" toml:"src_duration"` // in seconds, overrides the media duration
}

// JumpSteps overrides ProgressJumpStep per direction, zero means unset
type JumpSteps struct {
	Backward int `mapstructure:"backward" toml:"backward"`
	Forward  int `mapstructure:"forward" toml:"forward"`
}

// UIConfig contains user interface settings
type UIConfig struct {
	Layout               string     `mapstructure:"layout" toml:"layout"`
	TimeFormat           string     `mapstructure:"time_format" toml:"time_format"`
	DefaultCurrentTime   string     `mapstructure:"default_current_time" toml:"default_current_time"`
	DefaultDuration      string     `mapstructure:"default_duration" toml:"default_duration"`
	ShowJumpControls     bool       `mapstructure:"show_jump_controls" toml:"show_jump_controls"`
	ShowSkipControls     bool       `mapstructure:"show_skip_controls" toml:"show_skip_controls"`
	ShowDownloadProgress bool       `mapstructure:"show_download_progress" toml:"show_download_progress"`
	ShowFilledProgress   bool       `mapstructure:"show_filled_progress" toml:"show_filled_progress"`
	ShowFilledVolume     bool       `mapstructure:"show_filled_volume" toml:"show_filled_volume"`
	ProgressBarSection   []string   `mapstructure:"progress_bar_section" toml:"progress_bar_section"`
	ControlsSection      []string   `mapstructure:"controls_section" toml:"controls_section"`
	AdditionalControls   []string   `mapstructure:"additional_controls" toml:"additional_controls"`
	VolumeControls       []string   `mapstructure:"volume_controls" toml:"volume_controls"`
	Header               string     `mapstructure:"header" toml:"header"`
	HeaderImage          string     `mapstructure:"header_image" toml:"header_image"` // file path or URL
	Footer               string     `mapstructure:"footer" toml:"footer"`
	Icons                Icons      `mapstructure:"icons" toml:"icons"`
	AriaLabels           AriaLabels `mapstructure:"aria_labels" toml:"aria_labels"`
	Theme                Theme      `mapstructure:"theme" toml:"theme"`
}

// Icons holds the glyphs of the control buttons
type Icons struct {
	Play       string `mapstructure:"play" toml:"play"`
	Pause      string `mapstructure:"pause" toml:"pause"`
	Rewind     string `mapstructure:"rewind" toml:"rewind"`
	Forward    string `mapstructure:"forward" toml:"forward"`
	Previous   string `mapstructure:"previous" toml:"previous"`
	Next       string `mapstructure:"next" toml:"next"`
	Loop       string `mapstructure:"loop" toml:"loop"`
	LoopOff    string `mapstructure:"loop_off" toml:"loop_off"`
	Volume     string `mapstructure:"volume" toml:"volume"`
	VolumeMute string `mapstructure:"volume_mute" toml:"volume_mute"`
}

// AriaLabels are the accessible names of the controls
type AriaLabels struct {
	Player          string `mapstructure:"player" toml:"player"`
	ProgressControl string `mapstructure:"progress_control" toml:"progress_control"`
	VolumeControl   string `mapstructure:"volume_control" toml:"volume_control"`
	Play            string `mapstructure:"play" toml:"play"`
	Pause           string `mapstructure:"pause" toml:"pause"`
	Rewind          string `mapstructure:"rewind" toml:"rewind"`
	Forward         string `mapstructure:"forward" toml:"forward"`
	Previous        string `mapstructure:"previous" toml:"previous"`
	Next            string `mapstructure:"next" toml:"next"`
	Loop            string `mapstructure:"loop" toml:"loop"`
	LoopOff         string `mapstructure:"loop_off" toml:"loop_off"`
	Volume          string `mapstructure:"volume" toml:"volume"`
	VolumeMute      string `mapstructure:"volume_mute" toml:"volume_mute"`
}

// Theme holds tcell color names
type Theme struct {
	Accent   string `mapstructure:"accent" toml:"accent"`
	Track    string `mapstructure:"track" toml:"track"`
	Buffered string `mapstructure:"buffered" toml:"buffered"`
	Text     string `mapstructure:"text" toml:"text"`
}

// LogConfig configures the file logger, the terminal belongs to the UI
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

// UI module identifiers usable in the section lists
const (
	ModuleCurrentTime        = "CURRENT_TIME"
	ModuleCurrentLeftTime    = "CURRENT_LEFT_TIME"
	ModuleProgressBar        = "PROGRESS_BAR"
	ModuleDuration           = "DURATION"
	ModuleAdditionalControls = "ADDITIONAL_CONTROLS"
	ModuleMainControls       = "MAIN_CONTROLS"
	ModuleVolumeControls     = "VOLUME_CONTROLS"
	ModuleLoop               = "LOOP"
	ModuleVolume             = "VOLUME"
)

const (
	LayoutStacked           = "stacked"
	LayoutStackedReverse    = "stacked-reverse"
	LayoutHorizontal        = "horizontal"
	LayoutHorizontalReverse = "horizontal-reverse"
)

const (
	BackendMPV  = "mpv"
	BackendBeep = "beep"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// GetListenInterval returns the listen interval as a time.Duration
func (p *PlayerConfig) GetListenInterval() time.Duration {
	return time.Duration(p.ListenInterval) * time.Millisecond
}

// GetProgressUpdateInterval returns the progress refresh interval as a time.Duration
func (p *PlayerConfig) GetProgressUpdateInterval() time.Duration {
	return time.Duration(p.ProgressUpdateInterval) * time.Millisecond
}

// BackwardStep returns the rewind step in milliseconds
func (p *PlayerConfig) BackwardStep() int {
	if p.ProgressJumpSteps.Backward > 0 {
		return p.ProgressJumpSteps.Backward
	}
	if p.ProgressJumpStep > 0 {
		return p.ProgressJumpStep
	}
	return DefaultConfig().Player.ProgressJumpStep
}

// ForwardStep returns the forward step in milliseconds
func (p *PlayerConfig) ForwardStep() int {
	if p.ProgressJumpSteps.Forward > 0 {
		return p.ProgressJumpSteps.Forward
	}
	if p.ProgressJumpStep > 0 {
		return p.ProgressJumpStep
	}
	return DefaultConfig().Player.ProgressJumpStep
}

// Validate checks the enumerated values
func (c *Config) Validate() error {
	if !slices.Contains([]string{BackendMPV, BackendBeep}, c.Player.Backend) {
		return errors.Wrapf(ErrInvalidConfig, "unknown backend %q", c.Player.Backend)
	}
	if !slices.Contains([]string{LayoutStacked, LayoutStackedReverse, LayoutHorizontal, LayoutHorizontalReverse}, c.UI.Layout) {
		return errors.Wrapf(ErrInvalidConfig, "unknown layout %q", c.UI.Layout)
	}
	if !slices.Contains([]string{"auto", "mm:ss", "hh:mm:ss"}, c.UI.TimeFormat) {
		return errors.Wrapf(ErrInvalidConfig, "unknown time format %q", c.UI.TimeFormat)
	}
	if c.Player.Volume < 0 || c.Player.Volume > 1 {
		return errors.Wrapf(ErrInvalidConfig, "volume %v out of [0,1]", c.Player.Volume)
	}
	if c.Player.VolumeJumpStep < 0 || c.Player.VolumeJumpStep > 1 {
		return errors.Wrapf(ErrInvalidConfig, "volume jump step %v out of [0,1]", c.Player.VolumeJumpStep)
	}
	return nil
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Player: PlayerConfig{
			Backend:                BackendMPV,
			AutoPlay:               false,
			AutoPlayAfterSrcChange: true,
			ListenInterval:         1000,
			ProgressJumpStep:       5000,
			VolumeJumpStep:         0.1,
			Volume:                 1,
			ProgressUpdateInterval: 20,
			HasDefaultKeyBindings:  true,
		},
		UI: UIConfig{
			Layout:               LayoutStacked,
			TimeFormat:           "auto",
			DefaultCurrentTime:   "--:--",
			DefaultDuration:      "--:--",
			ShowJumpControls:     true,
			ShowDownloadProgress: true,
			ShowFilledProgress:   true,
			ProgressBarSection:   []string{ModuleCurrentTime, ModuleProgressBar, ModuleDuration},
			ControlsSection:      []string{ModuleAdditionalControls, ModuleMainControls, ModuleVolumeControls},
			AdditionalControls:   []string{ModuleLoop},
			VolumeControls:       []string{ModuleVolume},
			Icons: Icons{
				Play:       "▶",
				Pause:      "⏸",
				Rewind:     "⏪",
				Forward:    "⏩",
				Previous:   "⏮",
				Next:       "⏭",
				Loop:       "🔁",
				LoopOff:    "➡",
				Volume:     "🔊",
				VolumeMute: "🔇",
			},
			AriaLabels: AriaLabels{
				Player:          "Audio player",
				ProgressControl: "Audio progress control",
				VolumeControl:   "Volume control",
				Play:            "Play",
				Pause:           "Pause",
				Rewind:          "Rewind",
				Forward:         "Forward",
				Previous:        "Previous",
				Next:            "Skip",
				Loop:            "Disable loop",
				LoopOff:         "Enable loop",
				Volume:          "Mute",
				VolumeMute:      "Unmute",
			},
			Theme: Theme{
				Accent:   "lightgreen",
				Track:    "darkgray",
				Buffered: "gray",
				Text:     "white",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
