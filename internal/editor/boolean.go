package editor

import (
	"errors"
	"fmt"

	planar "github.com/ctessum/geom"
	"github.com/sirupsen/logrus"

	"geoedit/internal/geom"
	"geoedit/internal/interaction"
	"geoedit/internal/store"
)

// booleanEdit is an open scratch workflow. original is the feature taken
// out of the store at index.
type booleanEdit struct {
	kind     BooleanKind
	original *geom.Feature
	index    int
	aux      *drawHandle
}

func (e *Editor) boolean(kind BooleanKind, on bool) error {
	if e.edit != nil && e.edit.kind == kind {
		return e.endBoolean(true)
	}
	if !on {
		return nil
	}
	if e.edit != nil {
		// discard the other edit first; that restores its feature as the
		// selection
		e.stopMutual()
	}
	f, ok := e.selection.Current()
	if !ok {
		return nil
	}
	if err := checkBooleanInput(kind, f); err != nil {
		return err
	}
	e.stopMutual()
	return e.beginBoolean(kind, f)
}

func checkBooleanInput(kind BooleanKind, f *geom.Feature) error {
	k := f.Kind()
	switch kind {
	case CutHole, Extend:
		if k == geom.KindPolygon || k == geom.KindMultiPolygon {
			return nil
		}
	case Clip:
		if k == geom.KindPolygon {
			return nil
		}
	}
	return fmt.Errorf("%w: %s on %s", ErrUnsupportedGeometry, kind, k)
}

func (e *Editor) beginBoolean(kind BooleanKind, f *geom.Feature) error {
	shape := interaction.Polygon
	if kind == Clip {
		shape = interaction.LineString
	}
	idx := e.store.Remove(f.ID)
	scratch := f.Clone()
	if err := e.store.ScratchAdd(scratch); err != nil {
		if idx >= 0 {
			_ = e.store.Insert(idx, f)
		}
		return err
	}
	e.mainLayer.SetVisible(false)
	e.selectI.Disable()

	ed := &booleanEdit{kind: kind, original: f, index: idx}
	aux, err := e.attachDraw(shape, nil, func(drawn *geom.Feature) error {
		return e.applyDrawn(ed, drawn)
	})
	if err != nil {
		return err
	}
	ed.aux = aux
	e.edit = ed
	e.attachSnap(nil)
	e.setMode(Editing{Sub: BooleanEdit{Kind: kind, Pending: scratch}})
	e.log.WithFields(logrus.Fields{"feature": f.ID, "kind": kind.String()}).Info("boolean edit started")
	return nil
}

// applyDrawn folds a finished auxiliary drawing into the scratch feature.
// On failure the scratch keeps its previous geometry and the edit stays
// open.
func (e *Editor) applyDrawn(ed *booleanEdit, drawn *geom.Feature) error {
	scratch, ok := e.store.Scratch()
	if !ok {
		return nil
	}
	g, err := e.combine(ed.kind, scratch, drawn)
	if err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{"feature": scratch.ID, "kind": ed.kind.String()}).Warn("boolean edit failed")
		return err
	}
	scratch.Geometry = g
	return nil
}

func (e *Editor) combine(kind BooleanKind, scratch, drawn *geom.Feature) (planar.Geom, error) {
	switch kind {
	case CutHole, Extend:
		a, ok := geom.Polygonal(scratch.Geometry)
		if !ok {
			return nil, ErrUnsupportedGeometry
		}
		b, ok := geom.Polygonal(drawn.Geometry)
		if !ok {
			return nil, ErrUnsupportedGeometry
		}
		if kind == Extend {
			return geom.Union(a, b)
		}
		overlap, err := geom.Intersection(a, b)
		if errors.Is(err, geom.ErrEmptyGeometry) {
			return scratch.Geometry, nil
		}
		if err != nil {
			return nil, err
		}
		cut, ok := geom.Polygonal(overlap)
		if !ok {
			return nil, ErrUnsupportedGeometry
		}
		return geom.Difference(a, cut)
	case Clip:
		pieces, err := geom.Cut(scratch, drawn, e.opts.Tolerance, e.opts.ToleranceUnit)
		if err != nil {
			return nil, err
		}
		return pieces[0].Geometry, nil
	}
	return nil, fmt.Errorf("editor: unknown boolean edit %d", kind)
}

// endBoolean closes the open boolean edit. With commit the scratch
// geometry replaces the original's; either way the feature goes back to
// its old position and becomes the selection again.
func (e *Editor) endBoolean(commit bool) error {
	ed := e.edit
	if ed == nil {
		return nil
	}
	e.edit = nil
	ed.aux.release()

	restored := ed.original
	if scratch, ok := e.store.Scratch(); commit && ok {
		restored = &geom.Feature{ID: ed.original.ID, Geometry: scratch.Geometry, Properties: ed.original.Properties}
	}
	idx := ed.index
	if idx < 0 {
		idx = e.store.Main().Len()
	}
	err := e.store.Insert(idx, restored)
	if errors.Is(err, store.ErrDuplicateID) {
		// the id was taken while the edit was open; keep the geometry under
		// a fresh id
		e.log.WithError(err).WithField("feature", restored.ID).Warn("restoring feature under a new id")
		restored = geom.NewFeature(restored.Geometry, restored.Properties)
		err = errors.Join(err, e.store.Insert(idx, restored))
	}
	e.store.ClearScratch()
	e.mainLayer.SetVisible(true)
	e.detachSnap()
	e.selectI.Enable()
	e.selection.Select(restored)
	e.setMode(Editing{Sub: SubNone{}})

	msg := "boolean edit discarded"
	if commit {
		msg = "boolean edit committed"
	}
	e.log.WithFields(logrus.Fields{"feature": ed.original.ID, "kind": ed.kind.String()}).Info(msg)
	return err
}
