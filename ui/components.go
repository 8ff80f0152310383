package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/yhkl-dev/naviplayer/config"
	"github.com/yhkl-dev/naviplayer/control"
)

const (
	buttonWidth = 4
	timeWidth   = 10
)

// controlButton is a button whose icon and accessible label follow the player state
type controlButton struct {
	*tview.Button
	label   func() string
	refresh func()
}

// timeView shows one of the time labels of the player
type timeView struct {
	*tview.TextView
	kind control.TimeLabelKind
}

// sectionOrder tells how the progress and controls sections are arranged
func sectionOrder(layout string) (direction int, controlsFirst bool) {
	switch layout {
	case config.LayoutStackedReverse:
		return tview.FlexRow, true
	case config.LayoutHorizontal:
		return tview.FlexColumn, false
	case config.LayoutHorizontalReverse:
		return tview.FlexColumn, true
	}
	return tview.FlexRow, false
}

// createHomepage sets up the UI layout
func (a *App) createHomepage() {
	a.header = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)
	a.cover = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	a.status = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	a.footer = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	a.helpView = NewHelpView(a)
	a.playlistView = NewPlaylistView(a)

	progress := a.buildSection(a.cfg.UI.ProgressBarSection)
	controls := a.buildSection(a.cfg.UI.ControlsSection)

	direction, controlsFirst := sectionOrder(a.cfg.UI.Layout)
	first, second := progress, controls
	if controlsFirst {
		first, second = controls, progress
	}
	mainHeight := 2
	main := tview.NewFlex().SetDirection(direction)
	if direction == tview.FlexColumn {
		mainHeight = 1
		main.AddItem(first, 0, 2, false).
			AddItem(second, 0, 1, false)
	} else {
		main.AddItem(first, 1, 0, false).
			AddItem(second, 1, 0, false)
	}

	headerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	headerHeight := 1
	if a.cfg.UI.HeaderImage != "" {
		width, height := a.coverConverter.Size()
		headerHeight = height
		headerRow.AddItem(a.cover, width+2, 0, false)
	}
	headerRow.AddItem(a.header, 0, 1, false)

	footer := a.cfg.UI.Footer
	if footer == "" {
		footer = "[darkgray]? help  Q playlist  Tab focus  Esc quit"
	}
	a.footer.SetText(footer)

	a.rootFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerRow, headerHeight, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(main, mainHeight, 0, true).
		AddItem(tview.NewBox(), 0, 1, false).
		AddItem(a.status, 1, 0, false).
		AddItem(a.footer, 1, 0, false)
	a.rootFlex.SetBorder(true).
		SetTitle(" " + a.cfg.UI.AriaLabels.Player + " ")

	a.refreshHeader()
	a.tviewApp.SetRoot(a.rootFlex, true)
	if len(a.focusables) > 0 {
		a.tviewApp.SetFocus(a.focusables[0])
	}
}

// buildSection lays out a list of module identifiers side by side
func (a *App) buildSection(modules []string) *tview.Flex {
	section := tview.NewFlex().SetDirection(tview.FlexColumn)
	for _, id := range modules {
		item, fixed, proportion := a.module(id)
		section.AddItem(item, fixed, proportion, false)
	}
	return section
}

// module builds the primitive of one identifier, unknown identifiers are shown as text
func (a *App) module(id string) (tview.Primitive, int, int) {
	ui := a.cfg.UI
	switch id {
	case config.ModuleCurrentTime:
		return a.newTimeView(control.CurrentTimeLabel, tview.AlignLeft), timeWidth, 0
	case config.ModuleCurrentLeftTime:
		return a.newTimeView(control.LeftTimeLabel, tview.AlignLeft), timeWidth, 0
	case config.ModuleDuration:
		return a.newTimeView(control.DurationLabel, tview.AlignRight), timeWidth, 0
	case config.ModuleProgressBar:
		if a.progressView != nil {
			return tview.NewBox(), 0, 1
		}
		a.progressView = NewProgressBarView(a.player.ProgressBar(), a.theme, ui.ShowFilledProgress, ui.ShowDownloadProgress)
		a.focusables = append(a.focusables, a.progressView)
		return a.progressView, 0, 1
	case config.ModuleAdditionalControls:
		return a.buildSection(ui.AdditionalControls), 0, 1
	case config.ModuleMainControls:
		return a.mainControls(), 0, 1
	case config.ModuleVolumeControls:
		return a.buildSection(ui.VolumeControls), 0, 1
	case config.ModuleLoop:
		return a.loopButton(), buttonWidth, 0
	case config.ModuleVolume:
		return a.volumeControl(), 0, 1
	}
	literal := tview.NewTextView().SetText(id)
	return literal, tview.TaggedStringWidth(id) + 1, 0
}

func (a *App) newTimeView(kind control.TimeLabelKind, align int) *timeView {
	v := &timeView{
		TextView: tview.NewTextView().SetTextAlign(align),
		kind:     kind,
	}
	v.SetTextColor(a.theme.Text)
	a.timeViews = append(a.timeViews, v)
	return v
}

// mainControls holds previous, rewind, play, forward and next centered in the section
func (a *App) mainControls() *tview.Flex {
	ui := a.cfg.UI
	icons, labels := ui.Icons, ui.AriaLabels

	var buttons []*controlButton
	if ui.ShowSkipControls {
		buttons = append(buttons, a.newButton(icons.Previous, labels.Previous, a.player.Previous))
	}
	if ui.ShowJumpControls {
		buttons = append(buttons, a.newButton(icons.Rewind, labels.Rewind, a.player.Rewind))
	}

	play := a.newButton(icons.Play, labels.Play, a.player.TogglePlay)
	play.label = func() string {
		if a.player.Playing() {
			return labels.Pause
		}
		return labels.Play
	}
	play.refresh = func() {
		if a.player.Playing() {
			play.SetLabel(icons.Pause)
		} else {
			play.SetLabel(icons.Play)
		}
	}
	buttons = append(buttons, play)

	if ui.ShowJumpControls {
		buttons = append(buttons, a.newButton(icons.Forward, labels.Forward, a.player.Forward))
	}
	if ui.ShowSkipControls {
		buttons = append(buttons, a.newButton(icons.Next, labels.Next, a.player.Next))
	}

	flex := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(tview.NewBox(), 0, 1, false)
	for _, b := range buttons {
		flex.AddItem(b, buttonWidth, 0, false)
	}
	return flex.AddItem(tview.NewBox(), 0, 1, false)
}

func (a *App) loopButton() *controlButton {
	icons, labels := a.cfg.UI.Icons, a.cfg.UI.AriaLabels
	b := a.newButton(icons.LoopOff, labels.LoopOff, a.player.ToggleLoop)
	b.label = func() string {
		if a.player.Looping() {
			return labels.Loop
		}
		return labels.LoopOff
	}
	b.refresh = func() {
		if a.player.Looping() {
			b.SetLabel(icons.Loop)
		} else {
			b.SetLabel(icons.LoopOff)
		}
	}
	return b
}

// volumeControl is the mute button followed by the volume bar
func (a *App) volumeControl() tview.Primitive {
	icons, labels := a.cfg.UI.Icons, a.cfg.UI.AriaLabels
	mute := a.newButton(icons.Volume, labels.Volume, a.player.ToggleMute)
	audible := func() bool { return a.player.Volume() > 0 }
	mute.label = func() string {
		if audible() {
			return labels.Volume
		}
		return labels.VolumeMute
	}
	mute.refresh = func() {
		if audible() {
			mute.SetLabel(icons.Volume)
		} else {
			mute.SetLabel(icons.VolumeMute)
		}
	}

	flex := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(mute, buttonWidth, 0, false)
	if a.volumeView == nil {
		a.volumeView = NewVolumeBarView(a.player.VolumeBar(), a.theme, a.cfg.UI.ShowFilledVolume)
		a.focusables = append(a.focusables, a.volumeView)
		flex.AddItem(a.volumeView, 0, 1, false)
	}
	return flex
}

func (a *App) newButton(icon, label string, onClick func()) *controlButton {
	b := &controlButton{
		Button:  tview.NewButton(icon),
		label:   func() string { return label },
		refresh: func() {},
	}
	b.SetStyle(tcell.StyleDefault.Foreground(a.theme.Text))
	b.SetActivatedStyle(tcell.StyleDefault.Foreground(a.theme.Accent).Bold(true))
	b.SetSelectedFunc(onClick)
	a.buttons = append(a.buttons, b)
	a.focusables = append(a.focusables, b)
	return b
}

// setupInputHandlers sets up keyboard input handlers
func (a *App) setupInputHandlers() {
	a.registerKeyBindings()

	a.tviewApp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Handle modal views first
		if a.helpView.IsActive() {
			if event.Key() == tcell.KeyEscape || event.Rune() == '?' {
				a.helpView.Close()
				return nil
			}
			return event
		}
		if a.playlistView.IsActive() {
			if event.Key() == tcell.KeyEscape || event.Rune() == 'Q' {
				a.playlistView.Close()
				return nil
			}
			return event
		}

		switch event.Key() {
		case tcell.KeyTab:
			a.cycleFocus(1)
			return nil
		case tcell.KeyBacktab:
			a.cycleFocus(-1)
			return nil
		}
		if a.keys.HandleKey(event) {
			return nil
		}
		return event
	})
}

func (a *App) registerKeyBindings() {
	if a.cfg.Player.HasDefaultKeyBindings {
		p := a.player
		a.keys.RegisterKeyBinding(KeyAction{name: "togglePlay", description: "Play / pause", handler: p.TogglePlay}, nil, []rune{' '})
		a.keys.RegisterKeyBinding(KeyAction{name: "rewind", description: "Rewind", handler: p.Rewind}, []tcell.Key{tcell.KeyLeft}, nil)
		a.keys.RegisterKeyBinding(KeyAction{name: "forward", description: "Forward", handler: p.Forward}, []tcell.Key{tcell.KeyRight}, nil)
		a.keys.RegisterKeyBinding(KeyAction{name: "volumeUp", description: "Volume up", handler: p.VolumeUp}, []tcell.Key{tcell.KeyUp}, nil)
		a.keys.RegisterKeyBinding(KeyAction{name: "volumeDown", description: "Volume down", handler: p.VolumeDown}, []tcell.Key{tcell.KeyDown}, nil)
		a.keys.RegisterKeyBinding(KeyAction{name: "loop", description: "Toggle loop", handler: p.ToggleLoop}, nil, []rune{'l'})
		a.keys.RegisterKeyBinding(KeyAction{name: "mute", description: "Toggle mute", handler: p.ToggleMute}, nil, []rune{'m'})
		a.keys.RegisterKeyBinding(KeyAction{name: "next", description: "Next track", handler: p.Next}, nil, []rune{'n', 'N'})
		a.keys.RegisterKeyBinding(KeyAction{name: "previous", description: "Previous track", handler: p.Previous}, nil, []rune{'p', 'P'})
	}
	a.keys.RegisterKeyBinding(KeyAction{name: "help", description: "Show this help panel", handler: a.helpView.Show}, nil, []rune{'?'})
	a.keys.RegisterKeyBinding(KeyAction{name: "playlist", description: "Show the playlist", handler: a.playlistView.Show}, nil, []rune{'Q'})
	a.keys.RegisterKeyBinding(KeyAction{name: "quit", description: "Exit program", handler: a.Stop}, []tcell.Key{tcell.KeyEscape, tcell.KeyCtrlC}, nil)
}

// cycleFocus moves the focus through the buttons and bars
func (a *App) cycleFocus(delta int) {
	n := len(a.focusables)
	if n == 0 {
		return
	}
	next := 0
	for i, p := range a.focusables {
		if p.HasFocus() {
			next = ((i+delta)%n + n) % n
			break
		}
	}
	a.tviewApp.SetFocus(a.focusables[next])
}

// restoreRoot puts the player back after a modal view closed
func (a *App) restoreRoot() {
	a.tviewApp.SetRoot(a.rootFlex, true)
	if len(a.focusables) > 0 {
		a.tviewApp.SetFocus(a.focusables[0])
	}
}
