package tui

import (
	"math"
	"sort"
	"strings"

	planar "github.com/ctessum/geom"

	"geoedit/internal/geom"
	"geoedit/internal/surface"
)

// cellToMap converts a map cell coordinate back to map units using bbox,
// zoom and pan.
func (m Model) cellToMap(cx, cy, w, h int) (float64, float64, bool) {
	if m.bbox.Empty() {
		return 0, 0, false
	}
	if w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	x := m.bbox.MinX + nx*(m.bbox.MaxX-m.bbox.MinX)
	y := m.bbox.MinY + ny*(m.bbox.MaxY-m.bbox.MinY)
	return x, y, true
}

// resolution is the map distance covered by one cell along the coarser
// axis.
func (m Model) resolution(w, h int) float64 {
	if m.bbox.Empty() || w <= 1 || h <= 1 {
		return 0
	}
	rx := (m.bbox.MaxX - m.bbox.MinX) / m.zoom / float64(w-1)
	ry := (m.bbox.MaxY - m.bbox.MinY) / m.zoom / float64(h-1)
	return math.Max(rx, ry)
}

// visibleLayers are the surface layers to draw.
func (m Model) visibleLayers() []*surface.Layer {
	var out []*surface.Layer
	for _, l := range m.surf.Layers() {
		if !l.Visible() || (m.hideFeatures && l == m.ed.MainLayer()) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (m Model) renderMap(w, h int) string {
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		lines[y] = strings.Repeat(" ", w)
	}
	// High-resolution braille buffer for crisp lines/edges
	br := newBrailleBuf(w, h)

	// the selection is filled, everything else is drawn as outlines
	if cur, ok := m.sel.Current(); ok && cur.Geometry != nil && !m.hideFeatures {
		_, _, polys := geom.Paths(cur.Geometry)
		for _, p := range polys {
			m.fillPolygon(br, p, w, h)
		}
	}
	for _, l := range m.visibleLayers() {
		for _, f := range l.Source().All() {
			if f.Geometry != nil {
				m.drawGeom(br, f.Geometry, w, h)
			}
		}
	}
	if g := m.ed.Sketch(); g != nil {
		m.drawGeom(br, g, w, h)
	}

	// Composite braille overlay onto base lines
	braLines := br.toLines()
	for y := 0; y < h && y < len(braLines); y++ {
		base := []rune(lines[y])
		over := []rune(braLines[y])
		for x := 0; x < len(base) && x < len(over); x++ {
			if over[x] != ' ' {
				base[x] = over[x]
			}
		}
		lines[y] = string(base)
	}

	// Hover highlight: draw an orange circle at the hovered vertex cell
	if m.hovering {
		cx := m.hoverMicX / 2
		cy := m.hoverMicY / 4
		if cy >= 0 && cy < len(lines) {
			r := []rune(lines[cy])
			if cx >= 0 && cx < len(r) {
				lines[cy] = string(r[:cx]) + hoverStyle.Render("◯") + string(r[cx+1:])
			}
		}
	}
	return strings.Join(lines, "\n")
}

// drawGeom draws points as dots and every path and ring as braille lines.
func (m Model) drawGeom(br *brailleBuf, g planar.Geom, w, h int) {
	points, paths, polys := geom.Paths(g)
	for _, p := range points {
		mx, my, ok := m.screenXYMicro(p.X, p.Y, w, h)
		if !ok {
			continue
		}
		br.dot(mx, my)
	}
	for _, p := range paths {
		m.drawPath(br, p, false, w, h)
	}
	for _, poly := range polys {
		for _, ring := range poly {
			m.drawPath(br, ring, true, w, h)
		}
	}
}

func (m Model) drawPath(br *brailleBuf, pts []planar.Point, closed bool, w, h int) {
	var mic [][2]int
	for _, p := range pts {
		mx, my, ok := m.screenXYMicro(p.X, p.Y, w, h)
		if !ok {
			continue
		}
		mic = append(mic, [2]int{mx, my})
	}
	if len(mic) == 1 {
		br.setPixel(mic[0][0], mic[0][1])
		return
	}
	for i := 0; i+1 < len(mic); i++ {
		br.drawLineMicro(mic[i][0], mic[i][1], mic[i+1][0], mic[i+1][1])
	}
	if closed && len(mic) > 2 {
		a, b := mic[len(mic)-1], mic[0]
		br.drawLineMicro(a[0], a[1], b[0], b[1])
	}
}

// fillPolygon fills p on the microgrid with the even-odd rule over all of
// its rings, so holes stay empty.
func (m Model) fillPolygon(br *brailleBuf, p planar.Polygon, w, h int) {
	var rings [][][2]int
	for _, ring := range p {
		var sm [][2]int
		for _, pt := range ring {
			mx, my, ok := m.screenXYMicro(pt.X, pt.Y, w, h)
			if !ok {
				continue
			}
			sm = append(sm, [2]int{mx, my})
		}
		if len(sm) >= 3 {
			rings = append(rings, sm)
		}
	}
	hMic := h * 4
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for _, r := range rings {
			for i := 0; i < len(r); i++ {
				a := r[i]
				b := r[(i+1)%len(r)]
				if a[1] == b[1] { // horizontal edge: skip
					continue
				}
				y0, y1 := a[1], b[1]
				x0, x1 := a[0], b[0]
				if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
					t := float64(yMic-y0) / float64(y1-y0)
					xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			br.span(xs[i], xs[i+1], yMic)
		}
	}
}

// screenXYMicro maps a map coordinate into a 2x4 microgrid per cell for
// braille rendering.
func (m Model) screenXYMicro(x, y float64, w, h int) (int, int, bool) {
	if m.bbox.Empty() {
		return 0, 0, false
	}
	nx := (x - m.bbox.MinX) / (m.bbox.MaxX - m.bbox.MinX)
	ny := (y - m.bbox.MinY) / (m.bbox.MaxY - m.bbox.MinY)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(math.Round(zx*float64(wMic-2))) + m.offsetX*2
	sy := int(math.Round((1.0-zy)*float64(hMic-4))) + m.offsetY*4
	return sx, sy, true
}

