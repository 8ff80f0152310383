package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/yhkl-dev/naviplayer/config"
	"github.com/yhkl-dev/naviplayer/control"
	"github.com/yhkl-dev/naviplayer/domain"
)

func TestIndicatorIndex(t *testing.T) {
	tests := []struct {
		width    int
		position float64
		want     int
	}{
		{0, 50, 0},
		{1, 100, 0},
		{11, 0, 0},
		{11, 50, 5},
		{11, 100, 10},
		{11, 150, 10},
		{11, -10, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, indicatorIndex(tt.width, tt.position), "width %d position %v", tt.width, tt.position)
	}
}

func kinds(cells []barCell) []cellKind {
	out := make([]cellKind, len(cells))
	for i, c := range cells {
		out[i] = c.kind
	}
	return out
}

func TestProgressCells(t *testing.T) {
	cells := progressCells(5, 50, true, false, nil)
	assert.Equal(t, []cellKind{cellFilled, cellFilled, cellIndicator, cellTrack, cellTrack}, kinds(cells))
	assert.Equal(t, '●', cells[2].glyph)

	cells = progressCells(5, 50, false, false, nil)
	assert.Equal(t, []cellKind{cellTrack, cellTrack, cellIndicator, cellTrack, cellTrack}, kinds(cells))

	assert.Empty(t, progressCells(0, 50, true, true, nil))
}

func TestProgressCellsBuffered(t *testing.T) {
	buffered := []control.BufferedRange{{Left: 50, Width: 50}}

	cells := progressCells(5, 0, true, true, buffered)
	assert.Equal(t, []cellKind{cellIndicator, cellTrack, cellBuffered, cellBuffered, cellBuffered}, kinds(cells))

	cells = progressCells(5, 0, true, false, buffered)
	assert.Equal(t, []cellKind{cellIndicator, cellTrack, cellTrack, cellTrack, cellTrack}, kinds(cells))

	// the filled part is drawn over the buffered one
	cells = progressCells(5, 75, true, true, buffered)
	assert.Equal(t, []cellKind{cellFilled, cellFilled, cellFilled, cellIndicator, cellBuffered}, kinds(cells))
}

func TestVolumeCells(t *testing.T) {
	cells := volumeCells(3, 100, true)
	assert.Equal(t, []cellKind{cellFilled, cellFilled, cellIndicator}, kinds(cells))
}

func TestHeaderText(t *testing.T) {
	assert.Contains(t, headerText(domain.Track{}, -1, 0), "No track loaded")
	assert.Equal(t, "[white::b]Song[-:-:-] [darkgray](2/3)", headerText(domain.Track{Src: "song.mp3", Title: "Song"}, 1, 3))
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "", statusLine("", ""))
	assert.Equal(t, "a", statusLine("", "a", ""))
	assert.Equal(t, "a [darkgray]|[-] b", statusLine("a", "b"))
}

func TestDescribe(t *testing.T) {
	a := control.Accessibility{Role: "progressbar", Label: "Volume control", ValueMax: 100, ValueNow: 33.33}
	assert.Equal(t, "Volume control progressbar 33.33%", describe(a))
}

func TestSectionOrder(t *testing.T) {
	tests := []struct {
		layout        string
		direction     int
		controlsFirst bool
	}{
		{config.LayoutStacked, tview.FlexRow, false},
		{config.LayoutStackedReverse, tview.FlexRow, true},
		{config.LayoutHorizontal, tview.FlexColumn, false},
		{config.LayoutHorizontalReverse, tview.FlexColumn, true},
		{"", tview.FlexRow, false},
	}
	for _, tt := range tests {
		direction, controlsFirst := sectionOrder(tt.layout)
		assert.Equal(t, tt.direction, direction, tt.layout)
		assert.Equal(t, tt.controlsFirst, controlsFirst, tt.layout)
	}
}

func TestThemeFrom(t *testing.T) {
	theme := themeFrom(config.DefaultConfig().UI.Theme)
	assert.Equal(t, tcell.ColorLightGreen, theme.Accent)
	assert.Equal(t, tcell.ColorDarkGray, theme.Track)
	assert.Equal(t, tcell.StyleDefault.Foreground(tcell.ColorLightGreen), theme.style(cellIndicator))
	assert.Equal(t, tcell.StyleDefault.Foreground(tcell.ColorGray), theme.style(cellBuffered))
}

func TestHelpText(t *testing.T) {
	km := NewKeyBindingManager()
	km.RegisterKeyBinding(KeyAction{name: "togglePlay", description: "Play / pause"}, nil, []rune{' '})
	km.RegisterKeyBinding(KeyAction{name: "hidden"}, nil, []rune{'x'})

	text := helpText(km.Bindings())
	assert.Contains(t, text, "Space")
	assert.Contains(t, text, "Play / pause")
	assert.NotContains(t, text, " x ")
}
