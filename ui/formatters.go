package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/yhkl-dev/naviplayer/control"
	"github.com/yhkl-dev/naviplayer/domain"
)

type cellKind int

const (
	cellTrack cellKind = iota
	cellBuffered
	cellFilled
	cellIndicator
)

type barCell struct {
	glyph rune
	kind  cellKind
}

// indicatorIndex maps a position in percent onto one of width cells,
// the first cell is 0% and the last one 100%
func indicatorIndex(width int, position float64) int {
	if width <= 1 {
		return 0
	}
	i := int(math.Round(position / 100 * float64(width-1)))
	return max(0, min(width-1, i))
}

// progressCells lays out a progress bar of width cells
func progressCells(width int, position float64, filled, showBuffered bool, buffered []control.BufferedRange) []barCell {
	cells := make([]barCell, width)
	for i := range cells {
		cells[i] = barCell{glyph: '─', kind: cellTrack}
	}
	if width == 0 {
		return cells
	}

	if showBuffered {
		for _, r := range buffered {
			from := indicatorIndex(width, float64(r.Left))
			to := indicatorIndex(width, float64(r.Left+r.Width))
			for i := from; i <= to && r.Width > 0; i++ {
				cells[i] = barCell{glyph: '━', kind: cellBuffered}
			}
		}
	}

	at := indicatorIndex(width, position)
	if filled {
		for i := 0; i < at; i++ {
			cells[i] = barCell{glyph: '━', kind: cellFilled}
		}
	}
	cells[at] = barCell{glyph: '●', kind: cellIndicator}
	return cells
}

// volumeCells lays out a volume bar of width cells
func volumeCells(width int, position float64, filled bool) []barCell {
	return progressCells(width, position, filled, false, nil)
}

// headerText is shown above the player when no header is configured
func headerText(track domain.Track, index, total int) string {
	if total == 0 {
		return "[darkgray]No track loaded. Pass audio files or URLs on the command line."
	}
	return fmt.Sprintf("[white::b]%s[-:-:-] [darkgray](%d/%d)", track.Title, index+1, total)
}

// describe renders the accessible state of a bar
func describe(a control.Accessibility) string {
	return fmt.Sprintf("%s %s %g%%", a.Label, a.Role, a.ValueNow)
}

// statusLine joins the non-empty parts of the footer
func statusLine(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " [darkgray]|[-] ")
}
