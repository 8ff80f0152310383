package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yhkl-dev/naviplayer/config"
	"github.com/yhkl-dev/naviplayer/control"
	"github.com/yhkl-dev/naviplayer/player/playertest"
)

func simulationScreen(t *testing.T) tcell.Screen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(20, 3)
	t.Cleanup(screen.Fini)
	return screen
}

func mouse(x int) *tcell.EventMouse {
	return tcell.NewEventMouse(x, 0, tcell.Button1, tcell.ModNone)
}

func noFocus(tview.Primitive) {}

func TestVolumeBarViewDrag(t *testing.T) {
	media := playertest.New("a.mp3", 100)
	bar := control.NewVolumeBar(media, control.VolumeBarOptions{})
	view := NewVolumeBarView(bar, themeFrom(config.DefaultConfig().UI.Theme), true)
	view.SetRect(0, 0, 11, 1)
	view.Draw(simulationScreen(t))
	assert.Equal(t, control.Rect{Left: 0, Width: 10}, bar.Bounds())

	handler := view.MouseHandler()

	consumed, capture := handler(tview.MouseLeftDown, mouse(5), noFocus)
	assert.True(t, consumed)
	assert.Equal(t, tview.Primitive(view), capture)
	assert.InDelta(t, 0.5, media.Level, 1e-9)
	assert.True(t, bar.Dragging())

	// moves outside the view still reach the bar while captured
	consumed, capture = handler(tview.MouseMove, mouse(15), noFocus)
	assert.True(t, consumed)
	assert.Equal(t, tview.Primitive(view), capture)
	assert.InDelta(t, 1.0, media.Level, 1e-9)

	consumed, capture = handler(tview.MouseLeftUp, mouse(15), noFocus)
	assert.True(t, consumed)
	assert.Nil(t, capture)
	assert.False(t, bar.Dragging())

	// released, clicks elsewhere are ignored
	consumed, _ = handler(tview.MouseLeftDown, mouse(15), noFocus)
	assert.False(t, consumed)
	assert.InDelta(t, 1.0, media.Level, 1e-9)
}

func TestProgressBarViewDrag(t *testing.T) {
	media := playertest.New("a.mp3", 100)
	bar := control.NewProgressBar(media, control.ProgressBarOptions{})
	view := NewProgressBarView(bar, themeFrom(config.DefaultConfig().UI.Theme), true, true)
	view.SetRect(0, 0, 11, 1)
	view.Draw(simulationScreen(t))

	handler := view.MouseHandler()
	focused := false
	consumed, capture := handler(tview.MouseLeftDown, mouse(2), func(tview.Primitive) { focused = true })
	assert.True(t, consumed)
	assert.True(t, focused)
	assert.Equal(t, tview.Primitive(view), capture)
	assert.True(t, bar.Dragging())
	assert.InDelta(t, 20.0, bar.Position(), 1e-9)

	handler(tview.MouseMove, mouse(7), noFocus)
	assert.InDelta(t, 70.0, bar.Position(), 1e-9)
	assert.Empty(t, media.Seeks, "no seek while dragging")

	_, capture = handler(tview.MouseLeftUp, mouse(7), noFocus)
	assert.Nil(t, capture)
	assert.False(t, bar.Dragging())
	require.Len(t, media.Seeks, 1)
	assert.InDelta(t, 70.0, media.Seeks[0], 1e-9)
}
