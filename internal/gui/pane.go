//go:build !nogui

package gui

import (
	"fmt"

	"ezsubs/internal/session"
	"ezsubs/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// filePane is one of the two lists with its edit buttons.
type filePane struct {
	panel    *session.Panel
	title    *widget.Label
	list     *widget.List
	selected int

	upButton     *widget.Button
	downButton   *widget.Button
	removeButton *widget.Button
	clearButton  *widget.Button
	sortButton   *widget.Button
}

func newFilePane(panel *session.Panel) *filePane {
	p := &filePane{panel: panel, selected: -1}
	set := panel.Set()

	p.title = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	p.list = widget.NewList(
		func() int { return set.Len() },
		func() fyne.CanvasObject { return widget.NewLabel("template") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if ref, ok := set.At(id); ok {
				obj.(*widget.Label).SetText(fmt.Sprintf("%d. %s", id+1, ref.Name()))
			}
		},
	)
	p.list.OnSelected = func(id widget.ListItemID) { p.selected = id }
	p.list.OnUnselected = func(id widget.ListItemID) {
		if p.selected == id {
			p.selected = -1
		}
	}

	p.upButton = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() { p.move(types.Up) })
	p.downButton = widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() { p.move(types.Down) })
	p.removeButton = widget.NewButtonWithIcon("Remove", theme.DeleteIcon(), p.remove)
	p.clearButton = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), p.clear)
	p.sortButton = widget.NewButton("Sort", p.sort)

	p.refresh()
	return p
}

func (p *filePane) content() fyne.CanvasObject {
	buttons := container.NewHBox(p.upButton, p.downButton, p.removeButton, p.clearButton, p.sortButton)
	return container.NewBorder(p.title, buttons, nil, nil, p.list)
}

func (p *filePane) move(dir types.Direction) {
	if p.selected < 0 {
		return
	}
	if p.panel.Set().SwapAdjacent(p.selected, dir) {
		next := p.selected + 1
		if dir == types.Up {
			next = p.selected - 1
		}
		p.refresh()
		p.list.Select(next)
	}
}

func (p *filePane) remove() {
	if p.selected < 0 {
		return
	}
	removed := p.selected
	p.panel.Set().RemoveAt(removed)
	p.list.UnselectAll()
	p.selected = -1
	p.refresh()
	if n := p.panel.Len(); n > 0 {
		p.list.Select(min(removed, n-1))
	}
}

func (p *filePane) clear() {
	p.panel.Clear()
	p.list.UnselectAll()
	p.selected = -1
	p.refresh()
}

func (p *filePane) sort() {
	p.panel.Set().NormalizeOrder()
	p.refresh()
}

func (p *filePane) refresh() {
	name := "Media"
	if p.panel.Side() == session.Subtitles {
		name = "Subtitles"
	}
	p.title.SetText(fmt.Sprintf("%s (%d)", name, p.panel.Len()))
	p.list.Refresh()
}
