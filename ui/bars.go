package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/yhkl-dev/naviplayer/config"
	"github.com/yhkl-dev/naviplayer/control"
)

// Theme holds the colors used by the bar views
type Theme struct {
	Accent   tcell.Color
	Track    tcell.Color
	Buffered tcell.Color
	Text     tcell.Color
}

func themeFrom(cfg config.Theme) Theme {
	return Theme{
		Accent:   tcell.GetColor(cfg.Accent),
		Track:    tcell.GetColor(cfg.Track),
		Buffered: tcell.GetColor(cfg.Buffered),
		Text:     tcell.GetColor(cfg.Text),
	}
}

func (t Theme) style(kind cellKind) tcell.Style {
	switch kind {
	case cellBuffered:
		return tcell.StyleDefault.Foreground(t.Buffered)
	case cellFilled, cellIndicator:
		return tcell.StyleDefault.Foreground(t.Accent)
	}
	return tcell.StyleDefault.Foreground(t.Track)
}

// dragCapture grabs the mouse for a control.DragHandler through tview's
// mouse capture, which has to be renewed on every mouse action.
type dragCapture struct {
	handler control.DragHandler
}

func (d *dragCapture) Capture(h control.DragHandler) func() {
	d.handler = h
	return func() {
		if d.handler == h {
			d.handler = nil
		}
	}
}

// route forwards captured mouse actions, it reports false when no drag is active
func (d *dragCapture) route(self tview.Primitive, action tview.MouseAction, x int) (bool, tview.Primitive) {
	h := d.handler
	if h == nil {
		return false, nil
	}
	switch action {
	case tview.MouseMove:
		h.PointerMove(x)
	case tview.MouseLeftUp:
		h.PointerUp(x)
	}
	if d.handler == nil {
		return true, nil
	}
	return true, self
}

// ProgressBarView draws a control.ProgressBar and feeds it mouse input
type ProgressBarView struct {
	*tview.Box
	bar          *control.ProgressBar
	theme        Theme
	showFilled   bool
	showBuffered bool
	capture      dragCapture
}

func NewProgressBarView(bar *control.ProgressBar, theme Theme, showFilled, showBuffered bool) *ProgressBarView {
	v := &ProgressBarView{
		Box:          tview.NewBox(),
		bar:          bar,
		theme:        theme,
		showFilled:   showFilled,
		showBuffered: showBuffered,
	}
	bar.SetCapturer(&v.capture)
	return v
}

func (v *ProgressBarView) Draw(screen tcell.Screen) {
	v.Box.DrawForSubclass(screen, v)
	x, y, width, height := v.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}
	v.bar.SetBounds(control.Rect{Left: x, Width: width - 1})

	row := y + height/2
	for i, c := range progressCells(width, v.bar.Position(), v.showFilled, v.showBuffered, v.bar.Buffered()) {
		style := v.theme.style(c.kind)
		if c.kind == cellBuffered && v.bar.Animating() {
			style = style.Dim(true)
		}
		screen.SetContent(x+i, row, c.glyph, nil, style)
	}
}

func (v *ProgressBarView) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return v.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
		x, y := event.Position()
		if consumed, capture := v.capture.route(v, action, x); consumed {
			return true, capture
		}
		if !v.InRect(x, y) {
			return false, nil
		}
		if action == tview.MouseLeftDown {
			setFocus(v)
			v.bar.PointerDown(x)
			if v.capture.handler != nil {
				return true, v
			}
			return true, nil
		}
		return false, nil
	})
}

// VolumeBarView draws a control.VolumeBar and feeds it mouse input
type VolumeBarView struct {
	*tview.Box
	bar        *control.VolumeBar
	theme      Theme
	showFilled bool
	capture    dragCapture
}

func NewVolumeBarView(bar *control.VolumeBar, theme Theme, showFilled bool) *VolumeBarView {
	v := &VolumeBarView{
		Box:        tview.NewBox(),
		bar:        bar,
		theme:      theme,
		showFilled: showFilled,
	}
	bar.SetCapturer(&v.capture)
	return v
}

func (v *VolumeBarView) Draw(screen tcell.Screen) {
	v.Box.DrawForSubclass(screen, v)
	x, y, width, height := v.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}
	v.bar.SetBounds(control.Rect{Left: x, Width: width - 1})

	row := y + height/2
	for i, c := range volumeCells(width, v.bar.Position(), v.showFilled) {
		style := v.theme.style(c.kind)
		if c.kind == cellIndicator && v.bar.Animating() {
			style = style.Bold(true)
		}
		screen.SetContent(x+i, row, c.glyph, nil, style)
	}
}

func (v *VolumeBarView) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return v.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
		x, y := event.Position()
		if consumed, capture := v.capture.route(v, action, x); consumed {
			return true, capture
		}
		if !v.InRect(x, y) {
			return false, nil
		}
		if action == tview.MouseLeftDown {
			setFocus(v)
			v.bar.PointerDown(x)
			if v.capture.handler != nil {
				return true, v
			}
			return true, nil
		}
		return false, nil
	})
}
