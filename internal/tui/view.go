package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"missviz/internal/model"
	"missviz/internal/palette"
	"missviz/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(palette.Hex(palette.SecondaryDark))).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Hex(palette.PrimaryDark)))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Widest label column in cells; longer labels are truncated.
const maxLabelWidth = 28

func colorStyle(c drawing.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Hex(c)))
}

func (m AppModel) View() string {
	if !m.Ready {
		return "\n  Preparing matrix...\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(render.Title))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d records, %d flag columns", m.Matrix.Records(), len(m.Matrix.Columns))))
	b.WriteString("\n")
	if m.Source != "" {
		b.WriteString(dimStyle.Render(m.Source))
	}
	b.WriteString("\n")

	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("↑/↓ scroll • l legend • q quit • %3.f%%", m.Viewport.ScrollPercent()*100)))
	return b.String()
}

// RenderGrid draws the matrix as colored block characters for a terminal
// width columns wide. Records are bucketed so the grid fits; a flag bucket
// shows the field color when any record in it is missing a value, a strip
// bucket shows inactive when any record in it is inactive.
func RenderGrid(m *render.Matrix, width int, showLegend bool) string {
	labels := make([]string, 0, len(m.Columns)+1)
	for _, c := range m.Columns {
		labels = append(labels, c.Label())
	}
	labels = append(labels, render.StatusLabel)

	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}
	labelWidth = min(labelWidth, maxLabelWidth)

	buckets := min(m.Records(), width-labelWidth-2)
	if buckets < 1 {
		buckets = min(m.Records(), 1)
	}

	var b strings.Builder
	for band, label := range labels {
		label = truncate(label, labelWidth)
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(label))

		var row []drawing.Color
		var labelColor drawing.Color
		if band < len(m.Columns) {
			row = Bucket(m.Cells[band], buckets, palette.Background)
			labelColor = m.ColumnColors[band]
		} else {
			row = Bucket(m.Status, buckets, palette.Active)
			labelColor = palette.SecondaryDark
		}

		b.WriteString(pad)
		b.WriteString(colorStyle(labelColor).Render(label))
		b.WriteString("  ")
		b.WriteString(renderRow(row))
		b.WriteString("\n")
	}

	if showLegend {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("DATASETS"))
		b.WriteString("\n")
		for _, e := range m.Legend {
			b.WriteString("  ")
			b.WriteString(colorStyle(e.Color).Render(model.IconSwatch))
			b.WriteString(" " + e.Label + "\n")
		}
		b.WriteString(dimStyle.Render("LINK ACTIVE"))
		b.WriteString("\n")
		for _, e := range render.StatusLegend() {
			b.WriteString("  ")
			b.WriteString(colorStyle(e.Color).Render(model.IconSwatch))
			b.WriteString(" " + e.Label + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Bucket folds cells into n buckets. A bucket takes the color of its first
// cell that differs from def, or def when every cell equals it.
func Bucket(cells []drawing.Color, n int, def drawing.Color) []drawing.Color {
	if n <= 0 || len(cells) == 0 {
		return nil
	}
	out := make([]drawing.Color, n)
	for k := 0; k < n; k++ {
		lo := k * len(cells) / n
		hi := (k + 1) * len(cells) / n
		out[k] = def
		for _, c := range cells[lo:hi] {
			if c != def {
				out[k] = c
				break
			}
		}
	}
	return out
}

// renderRow styles runs of equal color together to keep escape codes short.
func renderRow(row []drawing.Color) string {
	var b strings.Builder
	for i := 0; i < len(row); {
		j := i + 1
		for j < len(row) && row[j] == row[i] {
			j++
		}
		b.WriteString(colorStyle(row[i]).Render(strings.Repeat(model.IconCell, j-i)))
		i = j
	}
	return b.String()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
