// Package editor is the mode controller of the vector editor. It decides
// which interactions are live, runs the scratch workflow of boolean edits
// and is the only writer of the feature store.
package editor

import (
	"errors"
	"fmt"
	"io"

	planar "github.com/ctessum/geom"
	"github.com/sirupsen/logrus"

	"geoedit/internal/geom"
	"geoedit/internal/interaction"
	"geoedit/internal/store"
	"geoedit/internal/surface"
)

var (
	ErrNotEditing          = errors.New("editor: not in edit mode")
	ErrUnknownShape        = interaction.ErrUnknownShape
	ErrUnsupportedGeometry = errors.New("editor: unsupported geometry for this edit")
	ErrNoDraw              = errors.New("editor: no active drawing")
)

// Options tune the geometry and pointer tolerances.
type Options struct {
	Tolerance     float64
	ToleranceUnit geom.Unit
	SnapCells     float64
	HitCells      float64
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = 0.001
	}
	if o.ToleranceUnit == "" {
		o.ToleranceUnit = geom.Meters
	}
	if o.SnapCells <= 0 {
		o.SnapCells = 1
	}
	if o.HitCells <= 0 {
		o.HitCells = 1
	}
	return o
}

// drawHandle owns a draw interaction together with its completion
// listener; release tears both down.
type drawHandle struct {
	draw    *interaction.Draw
	off     func()
	surface surface.Surface
}

func (h *drawHandle) release() {
	h.off()
	h.draw.Disable()
	h.surface.RemoveInteraction(h.draw)
}

type Editor struct {
	surface   surface.Surface
	store     *store.Store
	selection *store.Selection
	opts      Options
	log       logrus.FieldLogger

	mainLayer    *surface.Layer
	scratchLayer *surface.Layer

	selectI    *interaction.Select
	modifyI    *interaction.Modify
	translateI *interaction.Translate
	snapI      *interaction.Snap

	draw *drawHandle
	edit *booleanEdit
	mode Mode
}

// New wires the editor's layers and interactions into surf. A nil logger
// discards output.
func New(surf surface.Surface, st *store.Store, sel *store.Selection, opts Options, log logrus.FieldLogger) *Editor {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	opts = opts.withDefaults()
	e := &Editor{
		surface:   surf,
		store:     st,
		selection: sel,
		opts:      opts,
		log:       log,
		mode:      Idle{},
	}
	e.mainLayer = surface.NewLayer("features", st.Main())
	e.scratchLayer = surface.NewLayer("scratch", st.ScratchCollection())
	surf.AddLayer(e.mainLayer)
	surf.AddLayer(e.scratchLayer)

	e.selectI = interaction.NewSelect(st.Main(), sel, opts.HitCells)
	e.modifyI = interaction.NewModify(sel, opts.HitCells)
	e.translateI = interaction.NewTranslate(sel, opts.HitCells)
	e.snapI = interaction.NewSnap(opts.SnapCells, st.Main(), st.ScratchCollection())
	e.selectI.OnDeactivate(sel.Clear)
	sel.OnChange(func(f *geom.Feature) {
		id := ""
		if f != nil {
			id = f.ID
		}
		e.log.WithField("feature", id).Debug("selection changed")
	})
	surf.AddInteraction(e.selectI)
	surf.AddInteraction(e.modifyI)
	surf.AddInteraction(e.translateI)
	return e
}

func (e *Editor) Mode() Mode { return e.mode }

// MainLayer is hidden while a boolean edit is open.
func (e *Editor) MainLayer() *surface.Layer { return e.mainLayer }

func (e *Editor) ScratchLayer() *surface.Layer { return e.scratchLayer }

func (e *Editor) setMode(m Mode) {
	if e.mode.String() != m.String() {
		e.log.WithFields(logrus.Fields{"from": e.mode.String(), "to": m.String()}).Debug("mode change")
	}
	e.mode = m
}

func (e *Editor) editing() bool {
	_, ok := e.mode.(Editing)
	return ok
}

func (e *Editor) attachDraw(kind interaction.ShapeKind, target interaction.Target, onEnd interaction.DrawEndFunc) (*drawHandle, error) {
	d, err := interaction.NewDraw(kind, target)
	if err != nil {
		return nil, err
	}
	off := func() {}
	if onEnd != nil {
		off = d.OnDrawEnd(onEnd)
	}
	e.surface.AddInteraction(d)
	d.Enable()
	return &drawHandle{draw: d, off: off, surface: e.surface}, nil
}

// attachSnap (re)adds snap so it is the last interaction in the chain.
func (e *Editor) attachSnap(ignore func(*geom.Feature) bool) {
	e.surface.RemoveInteraction(e.snapI)
	e.surface.AddInteraction(e.snapI)
	e.snapI.Ignore(ignore)
	e.snapI.Enable()
}

func (e *Editor) detachSnap() {
	e.snapI.Disable()
	e.surface.RemoveInteraction(e.snapI)
}

func (e *Editor) isSelected(f *geom.Feature) bool {
	cur, ok := e.selection.Current()
	return ok && cur == f
}

// Stop resets to Idle: the draw is destroyed, an open boolean edit is
// discarded and every interaction is switched off.
func (e *Editor) Stop() {
	if e.draw != nil {
		e.draw.release()
		e.draw = nil
	}
	if e.edit != nil {
		e.endBoolean(false)
	}
	e.detachSnap()
	e.modifyI.Disable()
	e.translateI.Disable()
	e.selectI.Disable()
	e.setMode(Idle{})
}

// stopMutual switches off modify and translate and discards an open
// boolean edit.
func (e *Editor) stopMutual() {
	e.modifyI.Disable()
	e.translateI.Disable()
	e.detachSnap()
	if e.edit != nil {
		e.endBoolean(false)
	}
}

// Draw starts drawing shapes of kind into the store.
func (e *Editor) Draw(kind interaction.ShapeKind) error {
	if _, err := interaction.ParseShapeKind(string(kind)); err != nil {
		return err
	}
	e.Stop()
	h, err := e.attachDraw(kind, e.store.Main(), nil)
	if err != nil {
		return err
	}
	e.draw = h
	e.attachSnap(nil)
	e.setMode(Drawing{Shape: kind})
	return nil
}

// Edit enters edit mode with selection enabled.
func (e *Editor) Edit() {
	e.Stop()
	e.selectI.Enable()
	e.setMode(Editing{Sub: SubNone{}})
}

// Modify toggles vertex editing of the selected feature.
func (e *Editor) Modify(on bool) error {
	if !e.editing() {
		return ErrNotEditing
	}
	e.stopMutual()
	if !on {
		e.setMode(Editing{Sub: SubNone{}})
		return nil
	}
	e.modifyI.Enable()
	e.attachSnap(e.isSelected)
	e.setMode(Editing{Sub: SubModify{}})
	return nil
}

// Translate toggles dragging of the selected feature.
func (e *Editor) Translate(on bool) error {
	if !e.editing() {
		return ErrNotEditing
	}
	e.stopMutual()
	if !on {
		e.setMode(Editing{Sub: SubNone{}})
		return nil
	}
	e.translateI.Enable()
	e.attachSnap(e.isSelected)
	e.setMode(Editing{Sub: SubTranslate{}})
	return nil
}

// Delete removes the selected feature. Without a selection it does
// nothing.
func (e *Editor) Delete() error {
	if !e.editing() {
		return ErrNotEditing
	}
	e.stopMutual()
	e.setMode(Editing{Sub: SubNone{}})
	f, ok := e.selection.Current()
	if !ok {
		return nil
	}
	e.store.Remove(f.ID)
	e.selection.Clear()
	e.log.WithField("feature", f.ID).Info("feature deleted")
	return nil
}

// CutHole starts (on) or commits (off, or on again) cutting drawn
// polygons out of the selected feature.
func (e *Editor) CutHole(on bool) error { return e.boolean(CutHole, on) }

// Extend starts or commits growing the selected feature by drawn polygons.
func (e *Editor) Extend(on bool) error { return e.boolean(Extend, on) }

// Clip starts or commits cutting the selected polygon with drawn lines,
// keeping the first piece.
func (e *Editor) Clip(on bool) error { return e.boolean(Clip, on) }

// active returns the draw receiving clicks: the boolean edit's auxiliary
// draw or the top-level one.
func (e *Editor) active() *interaction.Draw {
	switch {
	case e.edit != nil:
		return e.edit.aux.draw
	case e.draw != nil:
		return e.draw.draw
	}
	return nil
}

// FinishDraw completes the current sketch.
func (e *Editor) FinishDraw() error {
	d := e.active()
	if d == nil {
		return ErrNoDraw
	}
	return d.Finish()
}

// AbortDraw drops the current sketch, if any.
func (e *Editor) AbortDraw() {
	if d := e.active(); d != nil {
		d.Abort()
	}
}

// Sketch is the in-progress drawing, or nil.
func (e *Editor) Sketch() planar.Geom {
	if d := e.active(); d != nil {
		return d.Sketch()
	}
	return nil
}

// Load replaces the store content and resets to Idle.
func (e *Editor) Load(features []*geom.Feature) error {
	e.Stop()
	if err := e.store.Replace(features); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	e.log.WithField("features", len(features)).Info("features loaded")
	return nil
}

// AddFeature adds f to the store as is.
func (e *Editor) AddFeature(f *geom.Feature) error {
	return e.store.Add(f)
}
