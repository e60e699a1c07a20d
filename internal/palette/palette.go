// Package palette assigns one color per field base name.
package palette

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"missviz/internal/model"
)

// Qualitative palettes, in order. tab10 serves up to ten bases, tab20 more.
var (
	tab10 = hexColors(
		"1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd",
		"8c564b", "e377c2", "7f7f7f", "bcbd22", "17becf",
	)
	tab20 = hexColors(
		"1f77b4", "aec7e8", "ff7f0e", "ffbb78", "2ca02c",
		"98df8a", "d62728", "ff9896", "9467bd", "c5b0d5",
		"8c564b", "c49c94", "e377c2", "f7b6d2", "7f7f7f",
		"c7c7c7", "bcbd22", "dbdb8d", "17becf", "9edae5",
	)
)

// Reserved colors outside the field palette.
var (
	Background    = drawing.ColorFromHex("f0f8ff") // aliceblue, flag false
	Active        = drawing.ColorFromHex("2f4f4f") // darkslategrey, website active
	Inactive      = drawing.ColorFromHex("ff8c00") // darkorange, website inactive
	PrimaryDark   = drawing.ColorFromHex("696969") // dimgrey, text
	SecondaryDark = Active
)

func hexColors(hex ...string) []drawing.Color {
	out := make([]drawing.Color, len(hex))
	for i, h := range hex {
		out[i] = drawing.ColorFromHex(h)
	}
	return out
}

// Capacity is the number of distinct bases that get distinct colors.
func Capacity() int { return len(tab20) }

// Map is an immutable base name to color assignment.
type Map struct {
	bases  []string
	colors map[string]drawing.Color
}

// Assign builds the mapping for an ordered sequence of flag column headers.
// Bases are colored in first-seen order; colors repeat only past Capacity.
func Assign(columns []string) *Map {
	m := &Map{colors: make(map[string]drawing.Color)}
	for _, name := range columns {
		base := model.ParseFlagColumn(name).Base
		if _, ok := m.colors[base]; ok {
			continue
		}
		m.colors[base] = drawing.Color{}
		m.bases = append(m.bases, base)
	}

	table := tab10
	if len(m.bases) > len(tab10) {
		table = tab20
	}
	for i, base := range m.bases {
		m.colors[base] = table[i%len(table)]
	}
	return m
}

// ForTable is Assign over the table's column headers.
func ForTable(t *model.Table) *Map {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return Assign(names)
}

// Color returns the color assigned to base.
func (m *Map) Color(base string) (drawing.Color, bool) {
	c, ok := m.colors[base]
	return c, ok
}

// Bases returns the mapped bases in assignment order.
func (m *Map) Bases() []string {
	return append([]string(nil), m.bases...)
}

// Len is the number of mapped bases.
func (m *Map) Len() int { return len(m.bases) }

// Hex formats c as #RRGGBB.
func Hex(c drawing.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
