package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	planar "github.com/ctessum/geom"

	"geoedit/internal/editor"
	"geoedit/internal/geom"
	"geoedit/internal/interaction"
	"geoedit/internal/surface"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.height-1-2) // provisional; will be refined in View
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			case "enter":
				m.pasteWKT(strings.TrimSpace(m.ta.Value()))
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		cmd := m.handleKey(msg)
		if m.showSidebar {
			var lc tea.Cmd
			m.l, lc = m.l.Update(msg)
			return m, tea.Batch(cmd, lc)
		}
		return m, cmd
	case tea.MouseMsg:
		m.handleMouse(msg, time.Now())
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Draw):
		kind := interaction.ShapeKinds[int(msg.String()[0]-'1')]
		m.report("draw", m.ed.Draw(kind))
	case key.Matches(msg, k.Edit):
		m.ed.Edit()
		m.status = "editing: click a feature to select it"
	case key.Matches(msg, k.Modify):
		_, on := m.subMode().(editor.SubModify)
		m.report("modify", m.ed.Modify(!on))
	case key.Matches(msg, k.Translate):
		_, on := m.subMode().(editor.SubTranslate)
		m.report("translate", m.ed.Translate(!on))
	case key.Matches(msg, k.Delete):
		m.report("delete", m.ed.Delete())
	case key.Matches(msg, k.CutHole):
		m.toggleBoolean(editor.CutHole, m.ed.CutHole)
	case key.Matches(msg, k.Extend):
		m.toggleBoolean(editor.Extend, m.ed.Extend)
	case key.Matches(msg, k.Clip):
		m.toggleBoolean(editor.Clip, m.ed.Clip)
	case key.Matches(msg, k.Finish):
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
			return nil
		}
		m.report("finish", m.ed.FinishDraw())
	case key.Matches(msg, k.Cancel):
		switch {
		case m.inspectPopup != "":
			m.inspectPopup = ""
		case m.ed.Sketch() != nil:
			m.ed.AbortDraw()
			m.status = "sketch dropped"
		default:
			m.ed.Stop()
			m.status = m.ed.Mode().String()
		}
	case key.Matches(msg, k.Save):
		if err := geom.SaveGeo(m.output, m.st.All()); err != nil {
			m.status = "save error: " + err.Error()
		} else {
			m.status = fmt.Sprintf("saved %d features to %s", m.st.Main().Len(), m.output)
			m.log.WithField("path", m.output).Info("features saved")
		}
	case key.Matches(msg, k.Fit):
		m.fitView()
	case key.Matches(msg, k.Sidebar):
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			m.l.SetSize(sidebarWidth-2, m.height-1-2)
		}
	case key.Matches(msg, k.Paste):
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		m.ta.Focus()
	case key.Matches(msg, k.Attrs):
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
	case key.Matches(msg, k.Inspect):
		m.inspect()
	case key.Matches(msg, k.Layers):
		m.hideFeatures = !m.hideFeatures
		m.status = fmt.Sprintf("features: %v", !m.hideFeatures)
	case key.Matches(msg, k.ZoomIn):
		if m.zoom < 64 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case key.Matches(msg, k.ZoomOut):
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case m.showAttrs && (key.Matches(msg, k.Up) || key.Matches(msg, k.Down)):
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return cmd
	case key.Matches(msg, k.Up):
		m.offsetY -= 1
	case key.Matches(msg, k.Down):
		m.offsetY += 1
	case key.Matches(msg, k.Left):
		m.offsetX -= 2
	case key.Matches(msg, k.Right):
		m.offsetX += 2
	case key.Matches(msg, k.Help):
		m.helpVisible = !m.helpVisible
	default:
		return nil
	}
	if m.showAttrs {
		m.refreshAttrs()
	}
	return nil
}

// report shows err in the status line, or the mode when there is none.
func (m *Model) report(action string, err error) {
	if err != nil {
		m.status = action + " error: " + err.Error()
		return
	}
	m.status = m.ed.Mode().String()
}

func (m Model) subMode() editor.SubMode {
	if e, ok := m.ed.Mode().(editor.Editing); ok {
		return e.Sub
	}
	return nil
}

// toggleBoolean starts the boolean edit of kind, or commits it when it is
// already open.
func (m *Model) toggleBoolean(kind editor.BooleanKind, fn func(bool) error) {
	b, ok := m.subMode().(editor.BooleanEdit)
	open := ok && b.Kind == kind
	err := fn(!open)
	m.report(kind.String(), err)
	if err != nil || open {
		return
	}
	if _, ok := m.subMode().(editor.BooleanEdit); !ok {
		m.status = kind.String() + ": select a polygon in edit mode first"
	}
}

func (m *Model) pasteWKT(w string) {
	if w == "" {
		m.status = "paste: empty"
		return
	}
	fs, err := geom.LoadWKT(w)
	if err != nil {
		m.status = "wkt error: " + err.Error()
		return
	}
	empty := m.st.Main().Len() == 0
	for _, f := range fs {
		if err := m.ed.AddFeature(f); err != nil {
			m.status = "paste error: " + err.Error()
			return
		}
	}
	if empty {
		m.fitView()
	}
	m.status = fmt.Sprintf("pasted %d features", len(fs))
	m.pasteMode = false
	m.ta.Blur()
}

// inspect describes the selected feature in a popup.
func (m *Model) inspect() {
	f, ok := m.sel.Current()
	if !ok || f.Geometry == nil {
		m.inspectPopup = "nothing selected"
		m.status = m.inspectPopup
		return
	}
	b := f.Geometry.Bounds()
	meta := []string{
		fmt.Sprintf("id: %s", f.ID),
		fmt.Sprintf("kind: %s", f.Kind()),
		fmt.Sprintf("vertices: %d", len(geom.Vertices(f.Geometry))),
		fmt.Sprintf("bbox: [%.3f, %.3f, %.3f, %.3f]", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y),
	}
	if p, ok := geom.Polygonal(f.Geometry); ok {
		meta = append(meta, fmt.Sprintf("area: %.3f", p.Area()))
	}
	if c, ok := f.Geometry.(geom.Circle); ok {
		meta = append(meta, fmt.Sprintf("radius: %.3f", c.Radius))
	}
	meta = append(meta, fmt.Sprintf("properties: %d", len(f.Properties)))
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect popup"
}

func (m *Model) handleMouse(msg tea.MouseMsg, now time.Time) {
	lay := m.layout()
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lay.contentHeight-2)
	}
	if m.showAttrs || m.pasteMode {
		return
	}
	cx, cy := msg.X-lay.mapX, msg.Y-lay.mapY
	inside := cx >= 0 && cx < lay.mapW && cy >= 0 && cy < lay.mapH
	if !inside && !m.ptr.down {
		m.hovering = false
		return
	}
	cx = clamp(cx, 0, lay.mapW-1)
	cy = clamp(cy, 0, lay.mapH-1)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.zoom < 64 {
			m.zoom *= 1.2
		}
		return
	case tea.MouseButtonWheelDown:
		if m.zoom > 0.05 {
			m.zoom /= 1.2
		}
		return
	}

	x, y, ok := m.cellToMap(cx, cy, lay.mapW, lay.mapH)
	if !ok {
		return
	}
	m.hovering = true
	m.hoverCellX, m.hoverCellY = cx, cy
	m.hoverHasGeo = true
	m.hoverX, m.hoverY = x, y
	m.hoverMicX, m.hoverMicY = m.nearestVertexMicro(cx*2, cy*4, lay.mapW, lay.mapH)

	res := m.resolution(lay.mapW, lay.mapH)
	for _, t := range m.ptr.translate(msg, cell{cx, cy}, now) {
		err := m.surf.Dispatch(surface.Event{Type: t, Coord: planar.Point{X: x, Y: y}, Resolution: res})
		if err != nil {
			m.status = "edit error: " + err.Error()
			return
		}
		switch t {
		case surface.Click, surface.DoubleClick, surface.PointerUp:
			m.status = m.ed.Mode().String()
			if cur, ok := m.sel.Current(); ok {
				m.status += "  selected: " + cur.ID
			}
		}
	}
}

// nearestVertexMicro returns the microgrid position of the rendered vertex
// closest to (hx, hy), or (hx, hy) itself when nothing is drawn.
func (m Model) nearestVertexMicro(hx, hy, w, h int) (int, int) {
	best := math.MaxInt
	bx, by := hx, hy
	for _, l := range m.visibleLayers() {
		for _, f := range l.Source().All() {
			if f.Geometry == nil {
				continue
			}
			for _, p := range geom.Vertices(f.Geometry) {
				mx, my, ok := m.screenXYMicro(p.X, p.Y, w, h)
				if !ok {
					continue
				}
				dx := mx - hx
				dy := my - hy
				if d := dx*dx + dy*dy; d < best {
					best = d
					bx, by = mx, my
				}
			}
		}
	}
	return bx, by
}

// loadPath replaces the edited features with the content of p.
func (m *Model) loadPath(p string) {
	m.selPath = p
	fs, err := geom.LoadFile(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	if err := m.ed.Load(fs); err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.fitView()
	m.status = fmt.Sprintf("loaded: %s  features=%d", filepath.Base(p), len(fs))
	// If attributes are currently shown, verify availability for the new dataset
	if m.showAttrs {
		m.refreshAttrs()
	}
}
