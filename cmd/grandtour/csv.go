package main

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"os"
	"strconv"

	"grandtour/dataset"
)

// loadCSV reads a headered CSV into a dataset table. Axis columns must
// parse as floats; colorCol, when present, supplies #rrggbb colors per
// category.
func loadCSV(path string, schema dataset.Schema, colorCol string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("csv: empty file")
	}

	colIdx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		colIdx[name] = i
	}
	rows := records[1:]

	columns := make(map[string][]float64, len(schema.AxisColumns))
	for _, name := range schema.AxisColumns {
		ci, ok := colIdx[name]
		if !ok {
			continue // dataset.New reports the missing column
		}
		col := make([]float64, len(rows))
		for ri, rec := range rows {
			v, err := strconv.ParseFloat(rec[ci], 64)
			if err != nil {
				return nil, fmt.Errorf("csv: row %d column %q: %w", ri+2, name, err)
			}
			col[ri] = v
		}
		columns[name] = col
	}

	catIdx, ok := colIdx[schema.CategoryColumn]
	if !ok {
		return nil, &dataset.MissingColumnError{Column: schema.CategoryColumn}
	}
	categories := make([]string, len(rows))
	for ri, rec := range rows {
		categories[ri] = rec[catIdx]
	}

	colors := make(map[string]color.RGBA)
	if ci, ok := colIdx[colorCol]; ok {
		for ri, rec := range rows {
			if c, err := parseHexColor(rec[ci]); err == nil {
				colors[categories[ri]] = c
			}
		}
	} else {
		for i, cat := range uniqueStrings(categories) {
			colors[cat] = palette[i%len(palette)]
		}
	}

	return dataset.New(schema, columns, categories, colors)
}

// palette colors categories when the data carries none.
var palette = []color.RGBA{
	{R: 0x4A, G: 0xD1, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0xD1, B: 0x4A, A: 0xFF},
	{R: 0x7F, G: 0xFF, B: 0x7F, A: 0xFF},
	{R: 0xFF, G: 0x7F, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0x8A, B: 0x5C, A: 0xFF},
	{R: 0x9F, G: 0x8A, B: 0xFF, A: 0xFF},
}

func parseHexColor(s string) (color.RGBA, error) {
	if len(s) == 7 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
