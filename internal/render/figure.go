package render

import (
	"bytes"
	"fmt"
	"image"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"missviz/internal/model"
	"missviz/internal/palette"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

const (
	Title    = "MISSING VALUES COMPARISON"
	Subtitle = "This tool helps compare datasets relative to their missing values"
)

const (
	titleFontSize    = 16.0
	subtitleFontSize = 10.0
	labelFontSize    = 10.0
	legendFontSize   = 9.0
	axisFontSize     = 8.0

	margin           = 20
	headerSpace      = 70
	footerSpace      = 30
	labelGap         = 8
	legendGap        = 24
	swatchSize       = 12
	legendLineHeight = 18
	maxTicks         = 10
)

// Options controls figure size and encoding.
type Options struct {
	Width  int
	Height int
	Format string // FormatPNG or FormatSVG
}

// Figure is a rendered chart. Data is produced once and shared by every
// output mode.
type Figure struct {
	Data   []byte
	Format string
	Width  int
	Height int

	// Plot is the matrix area and Legend the area holding every legend
	// entry. Bands counts flag columns plus the strip.
	Plot    chart.Box
	Legend  chart.Box
	Bands   int
	Records int
}

// ContentType is the MIME type of Data.
func (f *Figure) ContentType() string {
	if f.Format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// CellCenter is the pixel at the middle of the cell for band and record.
func (f *Figure) CellCenter(band, record int) image.Point {
	x0, x1 := span(f.Plot.Left, f.Plot.Width(), record, f.Records)
	y0, y1 := span(f.Plot.Top, f.Plot.Height(), band, f.Bands)
	return image.Pt((x0+x1)/2, (y0+y1)/2)
}

// span splits length pixels starting at start into n slots and returns the
// bounds of slot i. Every slot is at least one pixel wide.
func span(start, length, i, n int) (int, int) {
	a := start + i*length/n
	b := start + (i+1)*length/n
	if b <= a {
		b = a + 1
	}
	return a, b
}

// Draw renders m with its labels, legend and titles.
func Draw(m *Matrix, opts Options) (*Figure, error) {
	provider := chart.PNG
	format := FormatPNG
	if opts.Format == FormatSVG {
		provider = chart.SVG
		format = FormatSVG
	}

	r, err := provider(opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	r.SetFont(font)

	fillBox(r, chart.Box{Right: opts.Width, Bottom: opts.Height}, palette.Background)

	drawCentered(r, Title, titleFontSize, opts.Width/2, margin+16)
	drawCentered(r, Subtitle, subtitleFontSize, opts.Width/2, margin+40)

	labels := make([]string, 0, len(m.Columns)+1)
	labelColors := make([]drawing.Color, 0, len(m.Columns)+1)
	for i, c := range m.Columns {
		labels = append(labels, c.Label())
		labelColors = append(labelColors, m.ColumnColors[i])
	}
	labels = append(labels, StatusLabel)
	labelColors = append(labelColors, palette.SecondaryDark)

	r.SetFontSize(labelFontSize)
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, r.MeasureText(l).Width())
	}

	legend := legendLines(m)
	r.SetFontSize(legendFontSize)
	entryWidth := 0
	for _, l := range legend {
		entryWidth = max(entryWidth, r.MeasureText(l.text).Width())
	}
	entryWidth += swatchSize + 6

	top := margin + headerSpace
	rows := (opts.Height - margin - top) / legendLineHeight
	tooSmall := &model.ConfigurationError{
		Option: "PLOT_WIDTH/PLOT_HEIGHT",
		Value:  strconv.Itoa(opts.Width) + "x" + strconv.Itoa(opts.Height),
		Reason: "figure too small for labels, legend and bands",
	}
	if rows < 1 {
		return nil, tooSmall
	}
	// The legend flows into as many columns as its height requires.
	legendCols := (len(legend) + rows - 1) / rows
	legendWidth := legendCols*entryWidth + (legendCols-1)*legendGap

	plot := chart.Box{
		Top:    top,
		Left:   margin + labelWidth + labelGap,
		Right:  opts.Width - margin - legendWidth - legendGap,
		Bottom: opts.Height - margin - footerSpace,
	}
	bands := len(m.Columns) + 1
	// Box.Width and Box.Height are absolute, so compare the signed extents.
	if plot.Right-plot.Left < 1 || plot.Bottom-plot.Top < bands {
		return nil, tooSmall
	}
	legendBox := chart.Box{
		Top:    plot.Top,
		Left:   plot.Right + legendGap,
		Right:  plot.Right + legendGap + legendWidth,
		Bottom: plot.Top + min(len(legend), rows)*legendLineHeight,
	}

	n := m.Records()
	for b := 0; b < bands; b++ {
		y0, y1 := span(plot.Top, plot.Height(), b, bands)
		cells := m.Status
		if b < len(m.Columns) {
			cells = m.Cells[b]
		}
		drawRuns(r, cells, plot, y0, y1, n)

		r.SetFontSize(labelFontSize)
		r.SetFontColor(labelColors[b])
		tb := r.MeasureText(labels[b])
		r.Text(labels[b], plot.Left-labelGap-tb.Width(), (y0+y1)/2+tb.Height()/2)
	}

	drawIndexAxis(r, plot, n)
	drawLegend(r, legend, legendBox, rows, entryWidth)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("encoding figure: %w", err)
	}
	return &Figure{
		Data:    buf.Bytes(),
		Format:  format,
		Width:   opts.Width,
		Height:  opts.Height,
		Plot:    plot,
		Legend:  legendBox,
		Bands:   bands,
		Records: n,
	}, nil
}

// drawRuns fills consecutive cells of one color as a single rectangle.
// Background cells are left to the canvas fill.
func drawRuns(r chart.Renderer, cells []drawing.Color, plot chart.Box, y0, y1, n int) {
	for i := 0; i < n; {
		j := i + 1
		for j < n && cells[j] == cells[i] {
			j++
		}
		if cells[i] != palette.Background {
			x0, _ := span(plot.Left, plot.Width(), i, n)
			_, x1 := span(plot.Left, plot.Width(), j-1, n)
			fillBox(r, chart.Box{Left: x0, Top: y0, Right: x1, Bottom: y1}, cells[i])
		}
		i = j
	}
}

func drawIndexAxis(r chart.Renderer, plot chart.Box, n int) {
	r.SetFontSize(axisFontSize)
	r.SetFontColor(palette.PrimaryDark)
	r.Text("I N D E X", plot.Left, plot.Bottom+footerSpace)

	if n == 0 {
		return
	}
	step := max(1, (n+maxTicks-1)/maxTicks)
	for i := 0; i < n; i += step {
		x0, x1 := span(plot.Left, plot.Width(), i, n)
		label := strconv.Itoa(i)
		tb := r.MeasureText(label)
		r.Text(label, (x0+x1)/2-tb.Width()/2, plot.Bottom+4+tb.Height())
	}
}

type legendLine struct {
	text   string
	swatch bool
	color  drawing.Color
}

func legendLines(m *Matrix) []legendLine {
	lines := []legendLine{{text: "DATASETS"}}
	for _, e := range m.Legend {
		label := e.Label
		if label == "" {
			label = "default"
		}
		lines = append(lines, legendLine{text: label, swatch: true, color: e.Color})
	}
	lines = append(lines, legendLine{}, legendLine{text: "LINK ACTIVE"})
	for _, e := range StatusLegend() {
		lines = append(lines, legendLine{text: e.Label, swatch: true, color: e.Color})
	}
	return lines
}

// drawLegend lays lines out top to bottom in columns of rows entries.
func drawLegend(r chart.Renderer, lines []legendLine, box chart.Box, rows, entryWidth int) {
	r.SetFontSize(legendFontSize)
	for i, l := range lines {
		if l.text == "" {
			continue
		}
		x := box.Left + (i/rows)*(entryWidth+legendGap)
		baseline := box.Top + (i%rows+1)*legendLineHeight
		tx := x
		if l.swatch {
			fillBox(r, chart.Box{Left: x, Top: baseline - swatchSize, Right: x + swatchSize, Bottom: baseline}, l.color)
			tx += swatchSize + 6
		}
		r.SetFontColor(palette.PrimaryDark)
		r.Text(l.text, tx, baseline)
	}
}

func drawCentered(r chart.Renderer, text string, size float64, cx, baseline int) {
	r.SetFontSize(size)
	r.SetFontColor(palette.PrimaryDark)
	tb := r.MeasureText(text)
	r.Text(text, cx-tb.Width()/2, baseline)
}

func fillBox(r chart.Renderer, b chart.Box, c drawing.Color) {
	r.SetFillColor(c)
	r.MoveTo(b.Left, b.Top)
	r.LineTo(b.Right, b.Top)
	r.LineTo(b.Right, b.Bottom)
	r.LineTo(b.Left, b.Bottom)
	r.Close()
	r.Fill()
}
