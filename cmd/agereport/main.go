package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"schoolcensus/internal/config"
	"schoolcensus/internal/infrastructure"
	"schoolcensus/internal/services"
	"schoolcensus/pkg/contracts/domain"
)

const usage = `usage: agereport [-config file] [-out dir] [-format csv,xlsx] [year]`

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	// Local env files feed the CENSUS_* overrides; real environment wins.
	_ = godotenv.Load(".env.local", ".env")

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("Report run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("agereport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "path to a YAML config file (defaults to census.yaml lookup)")
	outputDir := fs.String("out", "", "output directory for reports (overrides config)")
	formats := fs.String("format", "", "comma separated export formats: csv, xlsx (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configFile, stderr)
	if err != nil {
		return err
	}
	if *outputDir != "" {
		cfg.Report.OutputDir = *outputDir
	}
	if *formats != "" {
		cfg.Report.Formats = splitFormats(*formats)
	}

	year := cfg.Report.Year
	if y, ok := parseYearArg(fs.Args()); ok {
		year = y
	} else {
		fmt.Fprintln(stderr, usage)
		fmt.Fprintf(stderr, "using default year %d\n", year)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	ctx := infrastructure.EnsureTraceID(context.Background())
	logger.InfoContext(ctx, "Starting report run",
		slog.String("version", Version),
		slog.Int("year", year),
		slog.String("data_dir", cfg.Data.Dir),
		slog.String("output_dir", cfg.Report.OutputDir),
		slog.Any("formats", cfg.Report.Formats))

	svc := services.NewReportService(cfg, logger, telemetry)

	data, err := svc.LoadDatasets(ctx)
	if err != nil {
		return err
	}

	reports, err := svc.Generate(ctx, data, year)
	if err != nil {
		return err
	}

	for _, r := range reports {
		printReport(stdout, r)
	}

	if len(cfg.Report.Formats) > 0 {
		written, err := svc.Export(ctx, reports, cfg.Report.OutputDir, cfg.Report.Formats)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(stdout, "wrote %s\n", path)
		}
	}

	if cfg.Telemetry.EnableMetrics && cfg.Telemetry.MetricsTextfile != "" {
		if err := telemetry.WriteTextfile(cfg.Telemetry.MetricsTextfile); err != nil {
			logger.WarnContext(ctx, "Failed to write metrics textfile",
				slog.String("path", cfg.Telemetry.MetricsTextfile),
				slog.String("error", err.Error()))
		}
	}

	logger.InfoContext(ctx, "Report run complete", slog.Int("reports", len(reports)))
	return nil
}

// loadConfig loads an explicit config file strictly. Without one, a
// failed lookup falls back to defaults with a warning.
func loadConfig(file string, stderr io.Writer) (*config.Config, error) {
	if file != "" {
		cfg, err := config.LoadFrom(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", file, err)
		}
		return cfg, nil
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Failed to load config: %v\nUsing default configuration\n", err)
		return config.Default(), nil
	}
	return cfg, nil
}

// parseYearArg accepts exactly one positional argument holding a year.
func parseYearArg(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

func splitFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// printReport renders a report as an aligned console table.
func printReport(w io.Writer, r domain.AgeGroupReport) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\n%s\n", r.Title())
	p.Fprintf(w, "%-24s %12s %12s %12s\n", "Suburb", "Population", "Enrolment", "Difference")
	for _, row := range r.Rows {
		p.Fprintf(w, "%-24s %12d %12.2f %12.2f\n", row.Suburb, row.Population, row.Enrolment, row.Difference())
	}
	p.Fprintf(w, "%d suburbs\n", len(r.Rows))
}
