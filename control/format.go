package control

import (
	"fmt"
	"math"
)

// TimeFormat selects how FormatTime renders a position.
type TimeFormat string

const (
	TimeFormatAuto    TimeFormat = "auto"
	TimeFormatMinutes TimeFormat = "mm:ss"
	TimeFormatHours   TimeFormat = "hh:mm:ss"
)

// hourThreshold is the total duration from which auto switches to hh:mm:ss
const hourThreshold = 3600

// FormatTime renders seconds as mm:ss or h:mm:ss. total only matters in auto
// mode. ok is false when seconds is not finite or the format is unknown, callers
// then show their default label.
func FormatTime(seconds, total float64, format TimeFormat) (string, bool) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", false
	}
	if seconds < 0 {
		seconds = 0
	}

	minutes := math.Floor(seconds / 60)
	secs := twoDigits(math.Mod(math.Floor(seconds), 60))

	switch format {
	case TimeFormatAuto:
		if total >= hourThreshold {
			return hours(minutes, secs), true
		}
		return twoDigits(minutes) + ":" + secs, true
	case TimeFormatMinutes:
		return twoDigits(minutes) + ":" + secs, true
	case TimeFormatHours:
		return hours(minutes, secs), true
	}
	return "", false
}

func hours(minutes float64, secs string) string {
	return fmt.Sprintf("%.0f:%s:%s", math.Floor(minutes/60), twoDigits(math.Mod(minutes, 60)), secs)
}

// twoDigits pads a whole number to at least two digits
func twoDigits(n float64) string {
	return fmt.Sprintf("%02.0f", n)
}
