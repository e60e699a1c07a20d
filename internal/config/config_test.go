package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/pflag"

	"missviz/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLOT_FOLDER", dir)

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := Defaults()
	want.PlotFolder = dir
	if len(cfg.SelectedBases) != 0 {
		t.Fatalf("expected no selected bases, got %v", cfg.SelectedBases)
	}
	cfg.SelectedBases = nil
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("defaults mismatch:\n got %+v\nwant %+v", cfg, want)
	}
	if got := cfg.FlagsPath(); got != filepath.Join(dir, "dummy_dataset.csv") {
		t.Errorf("FlagsPath = %q", got)
	}
	if got := cfg.PlotPath(); got != filepath.Join(dir, "missing_values_comparison.png") {
		t.Errorf("PlotPath = %q", got)
	}
	if cfg.PlotFormat() != "png" {
		t.Errorf("PlotFormat = %q, want png", cfg.PlotFormat())
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLOT_FOLDER", dir)
	t.Setenv("SORT_DF", "true")
	t.Setenv("SORT_COLUMN", "Website_active")
	t.Setenv("DISPLAY_PLOT", "false")
	t.Setenv("SELECTED_BASES", "Title, h1 ,,")
	t.Setenv("PLOT_FILENAME", "chart.SVG")

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.SortDF || cfg.SortColumn != "Website_active" {
		t.Errorf("sort options not applied: %+v", cfg)
	}
	if cfg.DisplayPlot {
		t.Errorf("DISPLAY_PLOT should be false")
	}
	if want := []string{"Title", "h1"}; !reflect.DeepEqual(cfg.SelectedBases, want) {
		t.Errorf("SelectedBases = %q, want %q", cfg.SelectedBases, want)
	}
	if cfg.PlotFormat() != "svg" {
		t.Errorf("PlotFormat = %q, want svg", cfg.PlotFormat())
	}
}

func TestLoadDotEnvLosesToEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "PLOT_FOLDER=" + dir + "\nSORT_COLUMN=Title_dataset1.csv\nPLOT_WIDTH=900\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PLOT_WIDTH", "1000")

	cfg, err := Load(Options{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SortColumn != "Title_dataset1.csv" {
		t.Errorf("SortColumn = %q, want value from .env", cfg.SortColumn)
	}
	if cfg.PlotWidth != 1000 {
		t.Errorf("PlotWidth = %d, want environment value 1000", cfg.PlotWidth)
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLOT_FOLDER", dir)
	if _, err := Load(Options{EnvFile: filepath.Join(dir, "nope.env")}); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "missviz.yaml")
	content := "PLOT_FOLDER: " + dir + "\nSAVE_PLOT_AS_FILE: false\nSELECTED_BASES:\n  - Title\n  - p\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(Options{ConfigFile: file})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SavePlotAsFile {
		t.Errorf("SAVE_PLOT_AS_FILE should be false")
	}
	if want := []string{"Title", "p"}; !reflect.DeepEqual(cfg.SelectedBases, want) {
		t.Errorf("SelectedBases = %q, want %q", cfg.SelectedBases, want)
	}
}

func TestLoadUnreadableConfigFile(t *testing.T) {
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")})
	if !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLOT_FOLDER", dir)
	t.Setenv("SORT_DF", "false")
	t.Setenv("SORT_COLUMN", "Website_active")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	if err := flags.Parse([]string{"--sort"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(Options{Flags: flags})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.SortDF {
		t.Errorf("--sort should override SORT_DF=false")
	}
	// Unchanged flags must not mask the environment.
	if cfg.SortColumn != "Website_active" {
		t.Errorf("SortColumn = %q, want environment value", cfg.SortColumn)
	}
}

func TestValidateRejects(t *testing.T) {
	dir := t.TempDir()
	base := Defaults()
	base.PlotFolder = dir

	cases := map[string]func(c *Config){
		"missing folder": func(c *Config) { c.PlotFolder = filepath.Join(dir, "absent") },
		"folder is file": func(c *Config) {
			f := filepath.Join(dir, "file")
			_ = os.WriteFile(f, nil, 0o644)
			c.PlotFolder = f
		},
		"empty sort column": func(c *Config) { c.SortColumn = "  " },
		"narrow figure":     func(c *Config) { c.PlotWidth = 10 },
		"short figure":      func(c *Config) { c.PlotHeight = 199 },
		"empty input name":  func(c *Config) { c.MissingFlagsFilename = "" },
		"export over input": func(c *Config) {
			c.ExportMissingFlags = true
			c.MissingReportFilename = c.MissingFlagsFilename
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			if err := c.Validate(); !errors.Is(err, model.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("defaults with existing folder should validate, got %v", err)
	}
}

func TestLoadSkipValidation(t *testing.T) {
	t.Setenv("PLOT_FOLDER", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("UPDATE_REPO", "acme/missviz")

	if _, err := Load(Options{}); !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing folder, got %v", err)
	}
	cfg, err := Load(Options{SkipValidation: true})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.UpdateRepo != "acme/missviz" {
		t.Errorf("UpdateRepo = %q", cfg.UpdateRepo)
	}
}
