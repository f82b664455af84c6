// Package dataset holds the immutable tabular snapshot a viewer session is
// built from: one numeric column per axis, a category column, and a mapping
// from category to display color.
//
// A Table is created once per session and never mutated afterwards; the
// engine only references rows by index.
package dataset

import (
	"fmt"
	"image/color"

	"github.com/aclements/go-moremath/stats"
)

// DefaultColor is used for categories without an entry in the color map.
var DefaultColor = color.RGBA{R: 0xAA, G: 0xAA, B: 0xAA, A: 0xFF}

// Schema declares which columns act as axes and which carries the category.
//
// It is resolved against the supplied columns exactly once, at construction.
type Schema struct {
	AxisColumns    []string
	CategoryColumn string
}

// MissingColumnError reports a declared axis or category column that is
// absent from the supplied data. It is fatal: the session does not start.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("dataset: missing column %q", e.Column)
}

// Table is an immutable dataset snapshot.
type Table struct {
	schema Schema

	axes       [][]float64 // one slice per axis column, schema order
	categories []string
	colors     []color.RGBA
	rows       int
}

// New builds a Table from named columns.
//
// Every column declared in the schema must be present; axis columns and the
// category column must all have the same length. Categories missing from the
// color map fall back to DefaultColor.
func New(schema Schema, columns map[string][]float64, categories []string, colors map[string]color.RGBA) (*Table, error) {
	if len(schema.AxisColumns) == 0 {
		return nil, fmt.Errorf("dataset: no axis columns declared")
	}

	t := &Table{
		schema: schema,
		axes:   make([][]float64, 0, len(schema.AxisColumns)),
		rows:   len(categories),
	}

	for _, name := range schema.AxisColumns {
		col, ok := columns[name]
		if !ok {
			return nil, &MissingColumnError{Column: name}
		}
		if len(col) != t.rows {
			return nil, fmt.Errorf("dataset: column %q has %d rows, want %d", name, len(col), t.rows)
		}
		t.axes = append(t.axes, col)
	}

	t.categories = categories
	t.colors = make([]color.RGBA, t.rows)
	for i, cat := range categories {
		c, ok := colors[cat]
		if !ok {
			c = DefaultColor
		}
		t.colors[i] = c
	}
	return t, nil
}

// Schema returns the resolved schema.
func (t *Table) Schema() Schema { return t.schema }

// Dims returns the number of axis columns.
func (t *Table) Dims() int { return len(t.axes) }

// Len returns the row count.
func (t *Table) Len() int { return t.rows }

// Point appends the i-th row's axis coordinates to dst and returns it.
//
// Passing a reused dst avoids a per-row allocation in the projection loop.
func (t *Table) Point(i int, dst []float64) []float64 {
	dst = dst[:0]
	for _, col := range t.axes {
		dst = append(dst, col[i])
	}
	return dst
}

// Category returns the i-th row's category label.
func (t *Table) Category(i int) string { return t.categories[i] }

// Color returns the i-th row's resolved display color.
func (t *Table) Color(i int) color.RGBA { return t.colors[i] }

// ColumnBounds returns the min and max of the named axis column.
func (t *Table) ColumnBounds(name string) (min, max float64, ok bool) {
	for ai, n := range t.schema.AxisColumns {
		if n != name {
			continue
		}
		s := stats.Sample{Xs: t.axes[ai]}
		min, max = s.Bounds()
		return min, max, true
	}
	return 0, 0, false
}

// Normalize returns a copy of the table with every axis column rescaled into
// [-1, 1] around the column midpoint. Constant columns map to 0.
//
// The engine projects into a unit display cube; arbitrary input columns need
// this once at load time.
func (t *Table) Normalize() *Table {
	out := &Table{
		schema:     t.schema,
		axes:       make([][]float64, len(t.axes)),
		categories: t.categories,
		colors:     t.colors,
		rows:       t.rows,
	}
	for ai, col := range t.axes {
		s := stats.Sample{Xs: col}
		lo, hi := s.Bounds()
		mid := (lo + hi) / 2
		half := (hi - lo) / 2

		scaled := make([]float64, len(col))
		if half > 0 {
			for i, v := range col {
				scaled[i] = (v - mid) / half
			}
		}
		out.axes[ai] = scaled
	}
	return out
}
