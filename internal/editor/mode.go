package editor

import (
	"geoedit/internal/geom"
	"geoedit/internal/interaction"
)

// Mode is the editor state: Idle, Drawing or Editing.
type Mode interface {
	isMode()
	String() string
}

type Idle struct{}

type Drawing struct {
	Shape interaction.ShapeKind
}

type Editing struct {
	Sub SubMode
}

func (Idle) isMode()    {}
func (Drawing) isMode() {}
func (Editing) isMode() {}

func (Idle) String() string      { return "idle" }
func (d Drawing) String() string { return "drawing " + string(d.Shape) }
func (e Editing) String() string {
	if e.Sub == nil {
		return "editing"
	}
	if s := e.Sub.String(); s != "" {
		return "editing/" + s
	}
	return "editing"
}

// SubMode refines Editing.
type SubMode interface {
	isSubMode()
	String() string
}

type SubNone struct{}
type SubModify struct{}
type SubTranslate struct{}

// BooleanEdit is an open cut-hole, extend or clip. Pending is the scratch
// feature the drawn shapes are applied to.
type BooleanEdit struct {
	Kind    BooleanKind
	Pending *geom.Feature
}

func (SubNone) isSubMode()      {}
func (SubModify) isSubMode()    {}
func (SubTranslate) isSubMode() {}
func (BooleanEdit) isSubMode()  {}

func (SubNone) String() string       { return "" }
func (SubModify) String() string     { return "modify" }
func (SubTranslate) String() string  { return "translate" }
func (b BooleanEdit) String() string { return b.Kind.String() }

type BooleanKind int

const (
	CutHole BooleanKind = iota
	Extend
	Clip
)

func (k BooleanKind) String() string {
	switch k {
	case CutHole:
		return "cut hole"
	case Extend:
		return "extend"
	case Clip:
		return "clip"
	}
	return "unknown"
}
