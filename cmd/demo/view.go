package main

import (
	"fmt"

	"github.com/gdamore/tcell/v3"

	vlist "github.com/floor/vlist"
)

// termElement is the Element a Template mounts for each rendered row. It
// carries no drawing logic of its own — view.draw reads rows straight from
// the List via Item/ScrollOffset — but RenderingManager still needs a real
// Element to position and recycle rather than an opaque handle.
type termElement struct {
	index      int
	x, y, w, h int
}

func (e *termElement) SetBounds(x, y, w, h int) { e.x, e.y, e.w, e.h = x, y, w, h }
func (e *termElement) Bounds() (int, int, int, int) { return e.x, e.y, e.w, e.h }

func termTemplate(item vlist.Item, index int, reuse vlist.Element) (vlist.Element, error) {
	if el, ok := reuse.(*termElement); ok {
		el.index = index
		return el, nil
	}
	return &termElement{index: index}, nil
}

// view owns the terminal-facing half of the demo: turning the List's public
// surface (Item, TotalItems, ScrollOffset, Scrollbar) into screen rows, and
// turning tcell input events into List calls.
type view struct {
	list   *vlist.List
	screen tcell.Screen

	width, height int
	status        string
}

func newView(list *vlist.List, screen tcell.Screen, w, h int) *view {
	return &view{list: list, screen: screen, width: w, height: h}
}

const footerHeight = 1

func (v *view) resize(w, h int) {
	v.width, v.height = w, h
	v.list.SetViewportSize(max(h-footerHeight, 0))
}

func (v *view) handleKey(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return true
	case tcell.KeyRune:
		if ev.Rune() == 'q' || ev.Rune() == 'Q' {
			return true
		}
	case tcell.KeyUp:
		v.list.HandleWheel(-1)
	case tcell.KeyDown:
		v.list.HandleWheel(1)
	case tcell.KeyPgUp:
		v.list.HandleWheel(-float64(v.viewportRows()))
	case tcell.KeyPgDn:
		v.list.HandleWheel(float64(v.viewportRows()))
	case tcell.KeyHome:
		v.list.ScrollToIndex(0, vlist.AlignStart)
	case tcell.KeyEnd:
		v.list.ScrollToIndex(v.list.TotalItems()-1, vlist.AlignEnd)
	case tcell.KeyEnter:
		row := v.focusedRow()
		if err := v.list.Click(row, false, false); err != nil {
			v.status = err.Error()
		}
	}
	return false
}

func (v *view) handleMouse(ev *tcell.EventMouse) {
	_, y := ev.Position()
	switch ev.Buttons() {
	case tcell.WheelUp:
		v.list.HandleWheel(-3)
	case tcell.WheelDown:
		v.list.HandleWheel(3)
	case tcell.Button1:
		index := v.rowIndex(y)
		if err := v.list.Click(index, false, false); err != nil {
			v.status = err.Error()
		}
	}
}

// viewportRows is the number of item rows currently visible, one pixel per
// row since cfg.Virtual.ItemSize is 1.
func (v *view) viewportRows() int { return max(v.height-footerHeight, 0) }

// rowIndex converts a screen row into the item index drawn there.
func (v *view) rowIndex(screenY int) int { return v.list.ScrollOffset() + screenY }

// focusedRow is the item currently at the top of the viewport, used as the
// Enter-key selection target.
func (v *view) focusedRow() int { return v.list.ScrollOffset() }

func (v *view) draw() {
	v.screen.Clear()
	offset := v.list.ScrollOffset()
	total := v.list.TotalItems()

	for row := 0; row < v.viewportRows(); row++ {
		index := offset + row
		if index >= total {
			break
		}
		item, ok := v.list.Item(index)
		if !ok {
			continue
		}
		style := tcell.StyleDefault
		if v.list.IsSelected(index) {
			style = style.Reverse(true)
		}
		if vlist.IsPlaceholder(item) {
			style = style.Dim(true)
		}
		drawText(v.screen, 0, row, v.width-1, style, formatItem(item, index))
	}

	drawScrollbar(v.screen, v.list, v.width-1, v.viewportRows())

	footer := fmt.Sprintf("%s  |  %d items", v.list.StatsText("footer-stats"), total)
	if v.status != "" {
		footer = v.status
	}
	drawText(v.screen, 0, v.height-footerHeight, v.width, tcell.StyleDefault.Reverse(true), footer)

	v.screen.Show()
}

func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		if col >= x+maxWidth {
			break
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}

func drawScrollbar(screen tcell.Screen, list *vlist.List, col, track int) {
	if track <= 0 {
		return
	}
	bar := list.Scrollbar()
	offset := list.ScrollOffset()
	// With Config.Virtual.ItemSize == 1 and SetViewportSize given in rows,
	// the scrollbar's pixel space and the screen's row space coincide, so
	// ThumbSize/ThumbPosition need no further conversion.
	thumbSize := bar.ThumbSize()
	thumbPos := bar.ThumbPosition(offset)

	for row := 0; row < track; row++ {
		style := tcell.StyleDefault
		if row >= thumbPos && row < thumbPos+thumbSize {
			style = style.Reverse(true)
		}
		screen.SetContent(col, row, '│', nil, style)
	}
}

func formatItem(item vlist.Item, index int) string {
	title, _ := item["title"].(string)
	subtitle, _ := item["subtitle"].(string)
	return fmt.Sprintf("%6d  %-30s %s", index, title, subtitle)
}
