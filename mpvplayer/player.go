package mpvplayer

import (
	"math"
	"strconv"

	"emperror.dev/errors"
	"github.com/wildeyedskies/go-mpv/mpv"
)

// Reply ids of the observed properties, reported back in Event.Reply_Userdata
const (
	ObserveTimePos uint64 = iota + 1
	ObserveDuration
	ObserveVolume
	ObservePause
	ObserveCacheTime
	ObservePausedForCache
)

var observed = []struct {
	id     uint64
	name   string
	format mpv.Format
}{
	{ObserveTimePos, "time-pos", mpv.FORMAT_DOUBLE},
	{ObserveDuration, "duration", mpv.FORMAT_DOUBLE},
	{ObserveVolume, "volume", mpv.FORMAT_DOUBLE},
	{ObservePause, "pause", mpv.FORMAT_FLAG},
	{ObserveCacheTime, "demuxer-cache-time", mpv.FORMAT_DOUBLE},
	{ObservePausedForCache, "paused-for-cache", mpv.FORMAT_FLAG},
}

type Mpvplayer struct {
	*mpv.Mpv
}

// Double reads a numeric property, NaN when mpv has no value for it
func (m *Mpvplayer) Double(name string) float64 {
	v, err := m.GetProperty(name, mpv.FORMAT_DOUBLE)
	if err != nil {
		return math.NaN()
	}
	f, ok := v.(float64)
	if !ok {
		return math.NaN()
	}
	return f
}

// Flag reads a boolean property
func (m *Mpvplayer) Flag(name string) (bool, error) {
	v, err := m.GetProperty(name, mpv.FORMAT_FLAG)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

func (m *Mpvplayer) LoadFile(src string) error {
	return errors.Wrapf(m.Command([]string{"loadfile", src, "replace"}), "loadfile %s", src)
}

func (m *Mpvplayer) SeekAbsolute(seconds float64) error {
	return errors.Wrap(m.Command([]string{"seek", formatFloat(seconds), "absolute"}), "seek")
}

func (m *Mpvplayer) SetPause(pause bool) error {
	return m.set("pause", yesNo(pause))
}

// SetVolume takes a level in [0,1], mpv counts in percent
func (m *Mpvplayer) SetVolume(level float64) error {
	return m.set("volume", formatFloat(level*100))
}

func (m *Mpvplayer) SetLoop(loop bool) error {
	value := "no"
	if loop {
		value = "inf"
	}
	return m.set("loop-file", value)
}

func (m *Mpvplayer) IsSongLoaded() (bool, error) {
	idle, err := m.Flag("idle-active")
	return !idle, err
}

func (m *Mpvplayer) set(name, value string) error {
	return errors.Wrapf(m.Command([]string{"set", name, value}), "set %s", name)
}

func CreateMPVInstance() (*mpv.Mpv, error) {
	mpvInstance := mpv.Create()

	mpvInstance.SetOptionString("audio-display", "no")
	mpvInstance.SetOptionString("video", "no")
	mpvInstance.SetOptionString("idle", "yes")
	for _, p := range observed {
		mpvInstance.ObserveProperty(p.id, p.name, p.format)
	}

	err := mpvInstance.Initialize()
	if err != nil {
		mpvInstance.TerminateDestroy()
		return nil, err
	}
	return mpvInstance, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
