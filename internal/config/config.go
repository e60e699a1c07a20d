package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"missviz/internal/model"
)

// Config stores all run parameters. It is built once by Load and passed by
// value; components never read viper or the environment themselves.
type Config struct {
	DisplayPlot           bool     `mapstructure:"DISPLAY_PLOT"`
	SavePlotAsFile        bool     `mapstructure:"SAVE_PLOT_AS_FILE"`
	SortDF                bool     `mapstructure:"SORT_DF"`
	SortColumn            string   `mapstructure:"SORT_COLUMN"`
	PlotFolder            string   `mapstructure:"PLOT_FOLDER"`
	MissingFlagsFilename  string   `mapstructure:"MISSING_FLAGS_FILENAME"`
	PlotFilename          string   `mapstructure:"PLOT_FILENAME"`
	SelectedBases         []string `mapstructure:"SELECTED_BASES"`
	ExportMissingFlags    bool     `mapstructure:"EXPORT_MISSING_FLAGS_TO_CSV"`
	MissingReportFilename string   `mapstructure:"MISSING_REPORT_FILENAME"`
	PlotWidth             int      `mapstructure:"PLOT_WIDTH"`
	PlotHeight            int      `mapstructure:"PLOT_HEIGHT"`
	LogLevel              string   `mapstructure:"LOG_LEVEL"`
	WebAddr               string   `mapstructure:"WEB_ADDR"`
	UpdateRepo            string   `mapstructure:"UPDATE_REPO"`
}

// MinPlotSize is the smallest accepted figure width or height in pixels.
const MinPlotSize = 200

// Options tells Load where to look besides the environment.
type Options struct {
	ConfigFile string         // Optional yaml/toml/json/env file
	EnvFile    string         // Optional dotenv file; missing is not an error
	Flags      *pflag.FlagSet // Optional; only flags the user changed override

	// SkipValidation returns the merged values without checking them, for
	// commands that never touch the data folder.
	SkipValidation bool
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"display":     "DISPLAY_PLOT",
	"save":        "SAVE_PLOT_AS_FILE",
	"sort":        "SORT_DF",
	"sort-column": "SORT_COLUMN",
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		DisplayPlot:           true,
		SavePlotAsFile:        true,
		SortDF:                false,
		SortColumn:            model.ColumnLink,
		PlotFolder:            "fusion_analysis",
		MissingFlagsFilename:  "dummy_dataset.csv",
		PlotFilename:          "missing_values_comparison.png",
		ExportMissingFlags:    false,
		MissingReportFilename: "missing_flags_normalized.csv",
		PlotWidth:             1500,
		PlotHeight:            800,
		LogLevel:              "info",
		WebAddr:               ":8080",
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("DISPLAY_PLOT", d.DisplayPlot)
	v.SetDefault("SAVE_PLOT_AS_FILE", d.SavePlotAsFile)
	v.SetDefault("SORT_DF", d.SortDF)
	v.SetDefault("SORT_COLUMN", d.SortColumn)
	v.SetDefault("PLOT_FOLDER", d.PlotFolder)
	v.SetDefault("MISSING_FLAGS_FILENAME", d.MissingFlagsFilename)
	v.SetDefault("PLOT_FILENAME", d.PlotFilename)
	v.SetDefault("SELECTED_BASES", []string{})
	v.SetDefault("EXPORT_MISSING_FLAGS_TO_CSV", d.ExportMissingFlags)
	v.SetDefault("MISSING_REPORT_FILENAME", d.MissingReportFilename)
	v.SetDefault("PLOT_WIDTH", d.PlotWidth)
	v.SetDefault("PLOT_HEIGHT", d.PlotHeight)
	v.SetDefault("LOG_LEVEL", d.LogLevel)
	v.SetDefault("WEB_ADDR", d.WebAddr)
	v.SetDefault("UPDATE_REPO", "")
}

// RegisterFlags adds the configuration overrides to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Defaults()
	flags.Bool("display", d.DisplayPlot, "Show the interactive matrix viewer (DISPLAY_PLOT)")
	flags.Bool("save", d.SavePlotAsFile, "Save the figure to PLOT_FILENAME (SAVE_PLOT_AS_FILE)")
	flags.Bool("sort", d.SortDF, "Sort records by the sort column (SORT_DF)")
	flags.String("sort-column", d.SortColumn, "Column used for sorting (SORT_COLUMN)")
}

// Load reads configuration from defaults, the dotenv file, the config file,
// the environment and changed flags, highest precedence last.
func Load(opts Options) (Config, error) {
	v := viper.New()
	setDefaults(v)

	// .env values act as defaults so the real environment still wins.
	if opts.EnvFile != "" {
		values, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, &model.ConfigurationError{Option: "env file", Value: opts.EnvFile, Reason: "cannot read", Err: err}
		}
		for k, val := range values {
			v.SetDefault(strings.ToUpper(k), val)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(model.ExpandTilde(opts.ConfigFile))
		if err := v.ReadInConfig(); err != nil {
			return Config{}, &model.ConfigurationError{Option: "config file", Value: opts.ConfigFile, Reason: "cannot read", Err: err}
		}
	}

	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, &model.ConfigurationError{Option: key, Value: f.Value.String(), Reason: "cannot bind flag", Err: err}
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, &model.ConfigurationError{Option: "config", Reason: "cannot decode", Err: err}
	}
	cfg.SelectedBases = cleanList(cfg.SelectedBases)

	if opts.SkipValidation {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// cleanList trims entries and drops empty ones. A single entry holding
// commas is split, which covers values that arrive unsplit from a config
// file.
func cleanList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Validate checks the options that can be checked without reading data.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SortColumn) == "" {
		return &model.ConfigurationError{Option: "SORT_COLUMN", Value: c.SortColumn, Reason: "must not be empty"}
	}
	if c.PlotWidth < MinPlotSize {
		return &model.ConfigurationError{Option: "PLOT_WIDTH", Value: strconv.Itoa(c.PlotWidth), Reason: "below minimum of " + strconv.Itoa(MinPlotSize)}
	}
	if c.PlotHeight < MinPlotSize {
		return &model.ConfigurationError{Option: "PLOT_HEIGHT", Value: strconv.Itoa(c.PlotHeight), Reason: "below minimum of " + strconv.Itoa(MinPlotSize)}
	}
	if strings.TrimSpace(c.MissingFlagsFilename) == "" {
		return &model.ConfigurationError{Option: "MISSING_FLAGS_FILENAME", Reason: "must not be empty"}
	}
	if c.SavePlotAsFile && strings.TrimSpace(c.PlotFilename) == "" {
		return &model.ConfigurationError{Option: "PLOT_FILENAME", Reason: "must not be empty when SAVE_PLOT_AS_FILE is set"}
	}

	ok, err := model.IsDir(model.ExpandTilde(c.PlotFolder))
	if err != nil {
		return &model.ConfigurationError{Option: "PLOT_FOLDER", Value: c.PlotFolder, Reason: "cannot stat", Err: err}
	}
	if !ok {
		return &model.ConfigurationError{Option: "PLOT_FOLDER", Value: c.PlotFolder, Reason: "not an existing directory"}
	}

	if c.ExportMissingFlags {
		if strings.TrimSpace(c.MissingReportFilename) == "" {
			return &model.ConfigurationError{Option: "MISSING_REPORT_FILENAME", Reason: "must not be empty when EXPORT_MISSING_FLAGS_TO_CSV is set"}
		}
		if c.ReportPath() == c.FlagsPath() {
			return &model.ConfigurationError{Option: "MISSING_REPORT_FILENAME", Value: c.MissingReportFilename, Reason: "would overwrite the input file"}
		}
	}
	return nil
}

// FlagsPath is the resolved input file.
func (c Config) FlagsPath() string {
	return model.ResolveIn(c.PlotFolder, c.MissingFlagsFilename)
}

// PlotPath is the resolved output image.
func (c Config) PlotPath() string {
	return model.ResolveIn(c.PlotFolder, c.PlotFilename)
}

// ReportPath is the resolved normalized export file.
func (c Config) ReportPath() string {
	return model.ResolveIn(c.PlotFolder, c.MissingReportFilename)
}

// PlotFormat is "svg" when the output file ends in .svg, "png" otherwise.
func (c Config) PlotFormat() string {
	if strings.EqualFold(filepath.Ext(c.PlotFilename), ".svg") {
		return "svg"
	}
	return "png"
}
