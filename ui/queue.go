package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PlaylistView lists the tracks and plays the selected one
type PlaylistView struct {
	app       *App
	container *tview.Flex
	table     *tview.Table
	isActive  bool
}

// NewPlaylistView creates a new playlist view
func NewPlaylistView(app *App) *PlaylistView {
	pv := &PlaylistView{
		app: app,
	}

	pv.table = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)

	headerStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Attributes(tcell.AttrBold)
	pv.table.SetCell(0, 0, tview.NewTableCell("#").SetStyle(headerStyle).SetSelectable(false))
	pv.table.SetCell(0, 1, tview.NewTableCell("Title").SetStyle(headerStyle).SetSelectable(false))
	pv.table.SetCell(0, 2, tview.NewTableCell("Source").SetStyle(headerStyle).SetSelectable(false))

	pv.table.SetSelectedFunc(func(row, _ int) {
		if row < 1 {
			return
		}
		pv.Close()
		pv.app.selectTrack(row - 1)
	})

	pv.container = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(pv.table, 0, 1, true)

	pv.container.SetBorder(true).
		SetTitle(" Playlist (ESC/Q to close, Enter to play) ").
		SetBorderColor(tcell.NewHexColor(0x00bcd4))

	return pv
}

// Show displays the playlist view
func (pv *PlaylistView) Show() {
	pv.isActive = true
	pv.refresh()
	pv.app.tviewApp.SetRoot(pv.container, true)
	pv.app.tviewApp.SetFocus(pv.table)
}

// Close hides the playlist view
func (pv *PlaylistView) Close() {
	pv.isActive = false
	pv.app.restoreRoot()
}

// IsActive returns whether the playlist view is active
func (pv *PlaylistView) IsActive() bool {
	return pv.isActive
}

// GetContainer returns the playlist view container
func (pv *PlaylistView) GetContainer() *tview.Flex {
	return pv.container
}

// refresh updates the table with the current tracks
func (pv *PlaylistView) refresh() {
	for i := pv.table.GetRowCount() - 1; i > 0; i-- {
		pv.table.RemoveRow(i)
	}

	tracks := pv.app.playlist.Tracks()
	if len(tracks) == 0 {
		pv.table.SetCell(1, 0, tview.NewTableCell("Playlist is empty").
			SetAlign(tview.AlignCenter).
			SetExpansion(3).
			SetSelectable(false).
			SetTextColor(tcell.ColorGray))
		return
	}

	_, current, _ := pv.app.playlist.Current()
	rowStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	for i, track := range tracks {
		row := i + 1
		title := track.Title
		if i == current {
			title = "▶ " + title
		}

		pv.table.SetCell(row, 0,
			tview.NewTableCell(fmt.Sprintf("%d", i+1)).
				SetStyle(rowStyle.Foreground(tcell.ColorLightGreen)).
				SetAlign(tview.AlignRight))

		pv.table.SetCell(row, 1,
			tview.NewTableCell(title).
				SetStyle(rowStyle).
				SetExpansion(2))

		pv.table.SetCell(row, 2,
			tview.NewTableCell(track.Src).
				SetStyle(rowStyle.Foreground(tcell.ColorGray)).
				SetMaxWidth(40))
	}

	pv.table.SetSelectedStyle(tcell.StyleDefault.
		Background(tcell.ColorDarkCyan).
		Foreground(tcell.ColorWhite))
	if current >= 0 {
		pv.table.Select(current+1, 0)
	}
}
