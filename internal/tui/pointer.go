package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"geoedit/internal/surface"
)

// doubleClickWindow is the longest gap between two clicks on the same cell
// that still counts as a double click.
const doubleClickWindow = 400 * time.Millisecond

type cell struct{ x, y int }

// pointerTracker turns terminal mouse reports into the pointer events the
// map understands. A press and release on one cell is a click.
type pointerTracker struct {
	down      bool
	dragged   bool
	press     cell
	lastClick cell
	lastAt    time.Time
}

func (p *pointerTracker) translate(msg tea.MouseMsg, c cell, now time.Time) []surface.EventType {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		p.down, p.dragged, p.press = true, false, c
		return []surface.EventType{surface.PointerDown}
	case tea.MouseActionMotion:
		if !p.down {
			return []surface.EventType{surface.PointerMove}
		}
		if c != p.press {
			p.dragged = true
		}
		return []surface.EventType{surface.PointerDrag}
	case tea.MouseActionRelease:
		if !p.down {
			return nil
		}
		p.down = false
		out := []surface.EventType{surface.PointerUp}
		if p.dragged || c != p.press {
			p.lastAt = time.Time{}
			return out
		}
		out = append(out, surface.Click)
		if !p.lastAt.IsZero() && c == p.lastClick && now.Sub(p.lastAt) <= doubleClickWindow {
			p.lastAt = time.Time{}
			return append(out, surface.DoubleClick)
		}
		p.lastClick, p.lastAt = c, now
		return out
	}
	return nil
}
