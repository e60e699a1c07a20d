package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"missviz/internal/config"
	"missviz/internal/model"
	"missviz/internal/pipeline"
	"missviz/internal/render"
	"missviz/internal/report"
	"missviz/internal/tui"
	"missviz/internal/web"
)

func checkUpdate(repo, currentVer string) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		fmt.Println("No release repository configured; set UPDATE_REPO=owner/name to check for updates.")
		return
	}

	githubTag := &latest.GithubTag{
		Owner:      owner,
		Repository: name,
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not check for updates: %v\n", err)
		return
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Printf("👉 Download it from https://github.com/%s/releases\n", repo)
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

// newLogger builds the zap logger for level. Verbose runs get the
// human-readable development encoder.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc = zap.NewDevelopmentConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, &model.ConfigurationError{Option: "LOG_LEVEL", Value: level, Reason: "unknown level", Err: err}
		}
		if verbose && lvl > zapcore.DebugLevel {
			lvl = zapcore.DebugLevel
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: missviz [options]\n\n")
		fmt.Fprintf(os.Stderr, "missviz draws which records are missing values in which dataset versions.\n")
		fmt.Fprintf(os.Stderr, "It reads the missing-flags CSV from PLOT_FOLDER, renders the matrix with a\n")
		fmt.Fprintf(os.Stderr, "website-active strip and legend, then saves and/or shows it.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSettings come from flags, the environment, --config, then .env.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  missviz                   # Render, save and show the matrix\n")
		fmt.Fprintf(os.Stderr, "  missviz --display=false   # Render and save only\n")
		fmt.Fprintf(os.Stderr, "  missviz --sort            # Sort records by SORT_COLUMN first\n")
		fmt.Fprintf(os.Stderr, "  missviz -r -o r.txt       # Save a missing-values report to file\n")
		fmt.Fprintf(os.Stderr, "  missviz --json            # Output the summary as JSON\n")
		fmt.Fprintf(os.Stderr, "  missviz --web             # Serve the figure on WEB_ADDR\n")
	}

	configFlag := pflag.StringP("config", "c", "", "Read settings from this yaml/toml/json file")
	config.RegisterFlags(pflag.CommandLine)
	jsonFlag := pflag.BoolP("json", "j", false, "Output the missing-values summary as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Print a missing-values report instead of rendering")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Debug logging; list missing columns per record in the report")
	webFlag := pflag.BoolP("web", "w", false, "Serve the figure and summary on WEB_ADDR")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check UPDATE_REPO for a newer release")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return 0
	}

	if *versionFlag {
		fmt.Printf("missviz version %s\n", model.Version)
		return 0
	}

	opts := config.Options{
		ConfigFile:     *configFlag,
		EnvFile:        ".env",
		Flags:          pflag.CommandLine,
		SkipValidation: *updateFlag,
	}
	cfg, err := config.Load(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return model.ExitCode(err)
	}

	if *updateFlag {
		checkUpdate(cfg.UpdateRepo, model.Version)
		return 0
	}

	logger, err := newLogger(cfg.LogLevel, *verboseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return model.ExitCode(err)
	}
	defer logger.Sync()

	switch {
	case *webFlag:
		err = web.StartServer(cfg, logger)
	case *reportFlag:
		err = runReportMode(cfg, logger, *outputFlag, *verboseFlag)
	case *jsonFlag:
		err = runJSONMode(cfg, logger)
	default:
		err = runPipeline(cfg, logger)
	}

	if err != nil {
		logger.Error("run failed", zap.String("kind", model.Kind(err)), zap.Error(err))
		return model.ExitCode(err)
	}
	return 0
}

func runReportMode(cfg config.Config, logger *zap.Logger, outputFile string, verbose bool) error {
	a, err := pipeline.New(cfg, logger).Analyze()
	if err != nil {
		return err
	}
	text := report.Generate(a.Summary(cfg.FlagsPath()), a.Table, verbose)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing report to %s: %w", outputFile, err)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
		return nil
	}
	fmt.Println(text)
	return nil
}

func runJSONMode(cfg config.Config, logger *zap.Logger) error {
	a, err := pipeline.New(cfg, logger).Analyze()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(a.Summary(cfg.FlagsPath()))
}

func runPipeline(cfg config.Config, logger *zap.Logger) error {
	runner := pipeline.New(cfg, logger)

	source := ""
	if cfg.SavePlotAsFile {
		source = cfg.PlotPath()
	}
	runner.Display = func(m *render.Matrix, _ *render.Figure) error {
		return tui.Show(m, source)
	}

	_, _, err := runner.Run()
	return err
}
