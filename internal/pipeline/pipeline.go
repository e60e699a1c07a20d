// Package pipeline runs the flags file through loading, normalization,
// ordering, color mapping and rendering.
package pipeline

import (
	"time"

	"go.uber.org/zap"

	"missviz/internal/config"
	"missviz/internal/model"
	"missviz/internal/palette"
	"missviz/internal/render"
	"missviz/internal/report"
	"missviz/internal/table"
)

// Analysis is everything derived from the flags file before rendering.
type Analysis struct {
	Table  *model.Table
	Colors *palette.Map
	Matrix *render.Matrix
}

// Summary returns the per-column counts for a.
func (a *Analysis) Summary(source string) report.Summary {
	return report.Summarize(source, a.Table, a.Colors)
}

// Runner executes one run for a fixed configuration.
type Runner struct {
	Config config.Config
	Logger *zap.Logger

	// Draw renders the matrix; defaults to render.Draw.
	Draw func(*render.Matrix, render.Options) (*render.Figure, error)
	// Display shows the result interactively when DISPLAY_PLOT is set.
	// A nil Display skips the interactive step.
	Display func(*render.Matrix, *render.Figure) error
}

// New returns a Runner with the default renderer.
func New(cfg config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Config: cfg, Logger: logger, Draw: render.Draw}
}

// Analyze loads, normalizes, selects, orders and colors the flags file.
// Every error is returned before anything is rendered.
func (r *Runner) Analyze() (*Analysis, error) {
	cfg := r.Config
	path := cfg.FlagsPath()

	raw, err := table.LoadFile(path)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("loaded flags file",
		zap.String("path", path),
		zap.Int("records", len(raw.Records)),
		zap.Int("flag_columns", len(raw.Columns)))

	t, err := table.Normalize(raw)
	if err != nil {
		return nil, err
	}

	t, err = table.Select(t, cfg.SelectedBases)
	if err != nil {
		return nil, err
	}
	if len(cfg.SelectedBases) > 0 {
		r.Logger.Debug("selected bases",
			zap.Strings("bases", cfg.SelectedBases),
			zap.Int("flag_columns", len(t.Columns)))
	}

	t, err = table.Order(t, cfg.SortDF, cfg.SortColumn)
	if err != nil {
		return nil, err
	}
	if cfg.SortDF {
		r.Logger.Debug("sorted records", zap.String("column", cfg.SortColumn))
	}

	colors := palette.ForTable(t)
	if colors.Len() > palette.Capacity() {
		r.Logger.Warn("more fields than palette colors, colors will repeat",
			zap.Int("fields", colors.Len()),
			zap.Int("palette", palette.Capacity()))
	}

	m, err := render.BuildMatrix(t, colors)
	if err != nil {
		return nil, err
	}
	return &Analysis{Table: t, Colors: colors, Matrix: m}, nil
}

// Render draws the figure for a using the configured size and format.
func (r *Runner) Render(a *Analysis) (*render.Figure, error) {
	draw := r.Draw
	if draw == nil {
		draw = render.Draw
	}
	start := time.Now()
	fig, err := draw(a.Matrix, render.Options{
		Width:  r.Config.PlotWidth,
		Height: r.Config.PlotHeight,
		Format: r.Config.PlotFormat(),
	})
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("rendered figure",
		zap.String("format", fig.Format),
		zap.Int("bytes", len(fig.Data)),
		zap.Duration("took", time.Since(start)))
	return fig, nil
}

// Run performs a full run: analyze, optionally export, render, then save
// and display as configured.
func (r *Runner) Run() (*Analysis, *render.Figure, error) {
	cfg := r.Config

	a, err := r.Analyze()
	if err != nil {
		return nil, nil, err
	}

	if cfg.ExportMissingFlags {
		path := cfg.ReportPath()
		if err := table.WriteFile(path, a.Table); err != nil {
			return nil, nil, err
		}
		r.Logger.Info("exported normalized flags", zap.String("path", path))
	}

	fig, err := r.Render(a)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.SavePlotAsFile && !cfg.DisplayPlot {
		r.Logger.Warn("SAVE_PLOT_AS_FILE and DISPLAY_PLOT are both off, figure discarded")
	}

	if cfg.SavePlotAsFile {
		path := cfg.PlotPath()
		if err := render.Save(path, fig); err != nil {
			return nil, nil, err
		}
		r.Logger.Info("saved figure", zap.String("path", path))
	}

	if cfg.DisplayPlot && r.Display != nil {
		if err := r.Display(a.Matrix, fig); err != nil {
			return nil, nil, err
		}
	}
	return a, fig, nil
}
