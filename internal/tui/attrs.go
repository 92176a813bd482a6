package tui

import (
	"encoding/json"
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"

	"geoedit/internal/geom"
)

// refreshAttrs rebuilds the table from the stored features and moves the
// cursor to the selected one.
func (m *Model) refreshAttrs() {
	fs := m.st.All()
	cols, rows := buildAttributes(fs)
	if len(rows) == 0 {
		// Do not touch table internals here to avoid re-render during SetColumns
		m.showAttrs = false
		m.status = "no features to list"
		return
	}
	tcols := make([]table.Column, 0, len(cols))
	maxColW := 24
	for i, c := range cols {
		w := len(c) + 2
		for _, r := range rows {
			w = max(w, len(r[i])+2)
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		trows = append(trows, table.Row(r))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
	if cur, ok := m.sel.Current(); ok {
		for i, f := range fs {
			if f == cur {
				m.tbl.SetCursor(i)
				break
			}
		}
	}
}

// buildAttributes lays features out as rows: id and kind first, then the
// union of property keys in sorted order.
func buildAttributes(fs []*geom.Feature) ([]string, [][]string) {
	seen := map[string]bool{}
	var keys []string
	for _, f := range fs {
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	cols := append([]string{"id", "kind"}, keys...)

	rows := make([][]string, 0, len(fs))
	for _, f := range fs {
		vals := make([]string, 0, len(cols))
		vals = append(vals, f.ID, string(f.Kind()))
		for _, k := range keys {
			vals = append(vals, formatValue(f.Properties[k]))
		}
		rows = append(rows, vals)
	}
	return cols, rows
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
