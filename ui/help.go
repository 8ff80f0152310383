package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// HelpView represents the keyboard shortcuts help interface
type HelpView struct {
	app       *App
	container *tview.Flex
	textView  *tview.TextView
	isActive  bool
}

// NewHelpView creates a new help view
func NewHelpView(app *App) *HelpView {
	hv := &HelpView{
		app: app,
	}

	hv.textView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)

	hv.container = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(hv.textView, 0, 1, true)

	hv.container.SetBorder(true).
		SetTitle(" Help (ESC to close) ").
		SetBorderColor(tcell.ColorYellow)

	return hv
}

// helpText lists the bindings with their descriptions
func helpText(bindings []KeyBinding) string {
	var b strings.Builder
	b.WriteString("[yellow::b]Keyboard Shortcuts[-:-:-]\n\n")
	for _, kb := range bindings {
		if kb.action.description == "" {
			continue
		}
		fmt.Fprintf(&b, "  [white]%-12s[-] %s\n", kb.Label(), kb.action.description)
	}
	b.WriteString("\n[lightgreen]Mouse:[-] click buttons, drag the progress and volume bars\n")
	b.WriteString("\n[yellow]Press ESC or ? to close this help panel[-]\n")
	return b.String()
}

// Show displays the help view
func (hv *HelpView) Show() {
	hv.isActive = true
	hv.textView.SetText(helpText(hv.app.keys.Bindings())).ScrollToBeginning()
	hv.app.tviewApp.SetRoot(hv.container, true)
	hv.app.tviewApp.SetFocus(hv.textView)
}

// Close hides the help view
func (hv *HelpView) Close() {
	hv.isActive = false
	hv.app.restoreRoot()
}

// IsActive returns whether the help view is active
func (hv *HelpView) IsActive() bool {
	return hv.isActive
}

// GetContainer returns the help view container
func (hv *HelpView) GetContainer() *tview.Flex {
	return hv.container
}
