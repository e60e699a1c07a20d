package render

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"missviz/internal/model"
	"missviz/internal/palette"
)

// StatusLabel names the status strip band.
const StatusLabel = "link active"

// LegendEntry is one swatch in the legend.
type LegendEntry struct {
	Label string
	Color drawing.Color
}

// Matrix is the colored cell grid: one band per flag column plus the status
// strip, each band holding one cell per record.
type Matrix struct {
	Columns      []model.FlagColumn
	ColumnColors []drawing.Color   // Field color of each column
	Links        []string          // Record identifiers, in row order
	Cells        [][]drawing.Color // Cells[column][record]
	Status       []drawing.Color   // Status strip, one cell per record
	Legend       []LegendEntry     // One entry per distinct base
}

// StatusLegend is the fixed legend for the status strip.
func StatusLegend() []LegendEntry {
	return []LegendEntry{
		{Label: "yes", Color: palette.Active},
		{Label: "no", Color: palette.Inactive},
	}
}

// Records is the number of records in the matrix.
func (m *Matrix) Records() int { return len(m.Links) }

// BuildMatrix colors every cell of t. A base in t without a color in colors
// means the mapping was built from a different column set; that is an
// InternalInvariantError and no matrix is returned.
func BuildMatrix(t *model.Table, colors *palette.Map) (*Matrix, error) {
	m := &Matrix{
		Columns:      t.Columns,
		ColumnColors: make([]drawing.Color, len(t.Columns)),
		Links:        t.Links(),
		Cells:        make([][]drawing.Color, len(t.Columns)),
		Status:       make([]drawing.Color, len(t.Records)),
	}

	for _, base := range t.Bases() {
		c, ok := colors.Color(base)
		if !ok {
			return nil, &model.InternalInvariantError{Detail: "no color assigned to base " + base}
		}
		m.Legend = append(m.Legend, LegendEntry{Label: base, Color: c})
	}

	for col, fc := range t.Columns {
		c, _ := colors.Color(fc.Base)
		m.ColumnColors[col] = c

		cells := make([]drawing.Color, len(t.Records))
		for row := range t.Records {
			if t.Flags[row][col] {
				cells[row] = c
			} else {
				cells[row] = palette.Background
			}
		}
		m.Cells[col] = cells
	}

	for row, rec := range t.Records {
		if rec.Active() {
			m.Status[row] = palette.Active
		} else {
			m.Status[row] = palette.Inactive
		}
	}
	return m, nil
}
