package control

import "github.com/yhkl-dev/naviplayer/player"

type TimeLabelKind int

const (
	// CurrentTimeLabel shows the playback position
	CurrentTimeLabel TimeLabelKind = iota
	// LeftTimeLabel shows the time remaining until the end
	LeftTimeLabel
	// DurationLabel shows the total duration
	DurationLabel
)

// TimeLabel keeps a formatted time string in step with the media.
type TimeLabel struct {
	media    player.Media
	kind     TimeLabelKind
	format   TimeFormat
	fallback string
	override float64
	text     string
	unsubs   []func()
}

// NewTimeLabel returns a label showing fallback whenever the time is unknown.
// A positive srcDuration replaces the media duration.
func NewTimeLabel(media player.Media, kind TimeLabelKind, format TimeFormat, fallback string, srcDuration float64) *TimeLabel {
	l := &TimeLabel{
		media:    media,
		kind:     kind,
		format:   format,
		fallback: fallback,
		override: srcDuration,
		text:     fallback,
	}
	if media != nil {
		l.refresh(player.Event{Target: media})
	}
	return l
}

func (l *TimeLabel) Mount() {
	if l.media == nil || l.unsubs != nil {
		return
	}
	var kinds []player.EventKind
	switch l.kind {
	case DurationLabel:
		kinds = []player.EventKind{player.EventDurationChange, player.EventAbort}
	default:
		kinds = []player.EventKind{player.EventTimeUpdate, player.EventLoadedMetadata}
	}
	for _, kind := range kinds {
		l.unsubs = append(l.unsubs, l.media.Subscribe(kind, l.refresh))
	}
}

func (l *TimeLabel) Unmount() {
	for _, unsub := range l.unsubs {
		unsub()
	}
	l.unsubs = nil
}

func (l *TimeLabel) Text() string { return l.text }

func (l *TimeLabel) refresh(player.Event) {
	duration := l.media.Duration()
	if l.override > 0 {
		duration = l.override
	}
	seconds := duration
	switch l.kind {
	case CurrentTimeLabel:
		seconds = l.media.CurrentTime()
	case LeftTimeLabel:
		seconds = duration - l.media.CurrentTime()
	}

	if text, ok := FormatTime(seconds, duration, l.format); ok {
		l.text = text
		return
	}
	l.text = l.fallback
}
