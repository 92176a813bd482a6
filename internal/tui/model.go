package tui

import (
	"io"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"geoedit/internal/editor"
	"geoedit/internal/geom"
	"geoedit/internal/store"
	"geoedit/internal/surface"
)

// defaultView is the extent shown before anything is loaded or drawn.
var defaultView = geom.BBox{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 1000}

// Options configure a Model.
type Options struct {
	Editor editor.Options
	// Output is where w saves the features.
	Output string
	Log    logrus.FieldLogger
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string
	keys   keyMap

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Editing
	surf   *surface.Map
	st     *store.Store
	sel    *store.Selection
	ed     *editor.Editor
	log    logrus.FieldLogger
	output string
	bbox   geom.BBox

	// last rendered map size
	mapW int
	mapH int

	// pointer state
	ptr pointerTracker

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// hides stored features without touching the editor's layers
	hideFeatures bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverX      float64
	hoverY      float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(opts Options) Model {
	if opts.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		opts.Log = l
	}
	if opts.Output == "" {
		opts.Output = "features.geojson"
	}
	m := Model{
		showSidebar: false,
		helpVisible: true,
		zoom:        1.0,
		status:      "geoedit ready",
		keys:        defaultKeys(),
		surf:        surface.NewMap(),
		st:          store.New(),
		sel:         store.NewSelection(),
		log:         opts.Log,
		output:      opts.Output,
		bbox:        defaultView,
	}
	m.ed = editor.New(m.surf, m.st, m.sel, opts.Editor, opts.Log)
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here, one geometry per line. Enter adds the features; Esc cancels."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a file's features at launch.
func NewWithPath(path string, opts Options) Model {
	m := New(opts)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Editor exposes the mode controller driving the map.
func (m Model) Editor() *editor.Editor { return m.ed }

// Store exposes the features being edited.
func (m Model) Store() *store.Store { return m.st }

// fitView frames all features, or the default extent when there are none.
func (m *Model) fitView() {
	bb, ok := geom.BBoxOf(m.st.All())
	switch {
	case !ok:
		bb = defaultView
	case bb.Empty():
		bb = geom.BBox{MinX: bb.MinX - 1, MinY: bb.MinY - 1, MaxX: bb.MaxX + 1, MaxY: bb.MaxY + 1}
	default:
		bb = bb.Pad(0.05)
	}
	m.bbox = bb
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
}
