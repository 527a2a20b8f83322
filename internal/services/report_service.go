package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"schoolcensus/internal/config"
	"schoolcensus/internal/dataprocessing"
	apperrors "schoolcensus/internal/errors"
	"schoolcensus/internal/exporter"
	"schoolcensus/internal/infrastructure"
	"schoolcensus/internal/validation"
	"schoolcensus/pkg/contracts/domain"
)

// Dataset names used in logs, spans and metric attributes.
const (
	DatasetSchools    = "school_locations"
	DatasetEnrolment  = "enrolment"
	DatasetPopulation = "population"
)

// Datasets holds the three inputs of a report run.
type Datasets struct {
	Schools    []domain.SchoolRecord
	Enrolment  []domain.CensusRecord
	Population domain.PopulationData
}

// ReportService loads the census datasets and builds age group reports.
type ReportService struct {
	config    *config.Config
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry
	files     *validation.FileValidator
}

// NewReportService creates a report service. A nil logger falls back to
// slog.Default and nil telemetry records nothing.
func NewReportService(cfg *config.Config, logger *slog.Logger, telemetry *infrastructure.Telemetry) *ReportService {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if telemetry == nil {
		telemetry = infrastructure.NoopTelemetry()
	}
	logger = infrastructure.WithComponent(logger, "report_service")

	return &ReportService{
		config:    cfg,
		logger:    logger,
		telemetry: telemetry,
		files:     validation.NewFileValidator(logger),
	}
}

// LoadDatasets reads the three datasets concurrently. A school locations
// failure is logged and yields no schools; enrolment and population
// failures are returned.
func (s *ReportService) LoadDatasets(ctx context.Context) (*Datasets, error) {
	ctx, end := s.telemetry.StartStage(ctx, "load_datasets")
	data := &Datasets{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		schools, err := loadDataset(gctx, s, DatasetSchools, s.config.Data.SchoolLocationsPath(),
			dataprocessing.ReadSchoolLocations)
		if err != nil {
			s.logger.ErrorContext(gctx, "School locations unavailable, continuing without schools",
				s.errorAttrs(err)...)
			schools = []domain.SchoolRecord{}
		}
		data.Schools = schools
		return nil
	})

	g.Go(func() error {
		records, err := loadDataset(gctx, s, DatasetEnrolment, s.config.Data.EnrolmentPath(),
			dataprocessing.ReadEnrolmentData)
		if err != nil {
			return fmt.Errorf("load %s: %w", DatasetEnrolment, err)
		}
		data.Enrolment = records
		return nil
	})

	g.Go(func() error {
		agesRange := s.config.Data.AgesRange
		pop, err := loadDataset(gctx, s, DatasetPopulation, s.config.Data.PopulationPath(),
			func(path string) (domain.PopulationData, error) {
				return dataprocessing.ReadPopulationData(path, agesRange)
			})
		if err != nil {
			return fmt.Errorf("load %s: %w", DatasetPopulation, err)
		}
		data.Population = pop
		return nil
	})

	if err := g.Wait(); err != nil {
		end(err)
		return nil, err
	}
	end(nil)

	s.logger.InfoContext(ctx, "Datasets loaded",
		slog.Int("schools", len(data.Schools)),
		slog.Int("census_records", len(data.Enrolment)),
		slog.Int("population_keys", len(data.Population)))
	return data, nil
}

// loadDataset validates and reads one input file, recording its span, the
// records read and any failed read.
func loadDataset[T any](ctx context.Context, s *ReportService, name, path string, read func(string) (T, error)) (T, error) {
	var zero T
	ctx, end := s.telemetry.StartStage(ctx, "read_"+name, attribute.String("path", path))
	dataset := metric.WithAttributes(attribute.String("dataset", name))

	fail := func(err error) (T, error) {
		s.telemetry.Metrics.ReadFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("dataset", name),
			attribute.String("error_type", string(apperrors.TypeOf(err)))))
		end(err)
		return zero, err
	}

	if err := s.files.ValidateCSVFile(path); err != nil {
		return fail(err)
	}

	result, err := read(path)
	if err != nil {
		return fail(err)
	}

	count := recordCount(result)
	s.telemetry.Metrics.RecordsRead.Add(ctx, int64(count), dataset)
	s.logger.DebugContext(ctx, "Dataset read",
		slog.String("dataset", name),
		slog.String("path", path),
		slog.Int("records", count))
	end(nil)
	return result, nil
}

func recordCount(v any) int {
	switch d := v.(type) {
	case []domain.SchoolRecord:
		return len(d)
	case []domain.CensusRecord:
		return len(d)
	case domain.PopulationData:
		return len(d)
	}
	return 0
}

func (s *ReportService) errorAttrs(err error) []any {
	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("error_type", string(apperrors.TypeOf(err))),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		for k, v := range appErr.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
	}
	return attrs
}

// ResolveAgeGroups maps configured group names to age groups.
func ResolveAgeGroups(names []string) ([]domain.AgeGroup, error) {
	groups := make([]domain.AgeGroup, 0, len(names))
	for _, name := range names {
		g, ok := domain.AgeGroupByName(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return nil, apperrors.NewConfigError(fmt.Sprintf("unknown age group %q", name), nil)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// Generate compares population and enrolment for each age group in the
// given year. With no groups the configured ones are used. Suburbs with no
// population and no enrolment are dropped unless KeepEmptySuburbs is set.
func (s *ReportService) Generate(ctx context.Context, data *Datasets, year int, groups ...domain.AgeGroup) ([]domain.AgeGroupReport, error) {
	if data == nil {
		return nil, apperrors.NewValidationError("no datasets loaded", nil)
	}
	if len(groups) == 0 {
		var err error
		if groups, err = ResolveAgeGroups(s.config.Report.AgeGroups); err != nil {
			return nil, err
		}
	}

	delta := s.config.Report.AgeDelta
	reports := make([]domain.AgeGroupReport, 0, len(groups))
	for _, group := range groups {
		stageCtx, end := s.telemetry.StartStage(ctx, "compare",
			attribute.String("age_group", group.Name),
			attribute.Int("year", year))

		rows := dataprocessing.ComparePopulationAndEnrolment(
			data.Enrolment, data.Schools, data.Population, group.Ages(), year, delta)
		if !s.config.Report.KeepEmptySuburbs {
			rows = dropEmpty(rows)
		}

		s.telemetry.Metrics.SuburbsReported.Add(stageCtx, int64(len(rows)),
			metric.WithAttributes(attribute.String("age_group", group.Name)))
		s.logger.InfoContext(stageCtx, "Age group compared",
			slog.String("age_group", group.Name),
			slog.String("ages", group.Label()),
			slog.Int("year", year),
			slog.Int("suburbs", len(rows)))
		end(nil)

		reports = append(reports, domain.AgeGroupReport{
			Group: group,
			Year:  year,
			Delta: delta,
			Rows:  rows,
		})
	}
	return reports, nil
}

func dropEmpty(rows []domain.SuburbComparison) []domain.SuburbComparison {
	kept := make([]domain.SuburbComparison, 0, len(rows))
	for _, r := range rows {
		if !r.IsEmpty() {
			kept = append(kept, r)
		}
	}
	return kept
}

// Export writes the reports to dir in each requested format ("csv", "xlsx")
// and returns the files written.
func (s *ReportService) Export(ctx context.Context, reports []domain.AgeGroupReport, dir string, formats []string) ([]string, error) {
	ctx, end := s.telemetry.StartStage(ctx, "export", attribute.String("dir", dir))

	written, err := s.export(ctx, reports, dir, formats)
	end(err)
	return written, err
}

func (s *ReportService) export(ctx context.Context, reports []domain.AgeGroupReport, dir string, formats []string) ([]string, error) {
	if len(reports) == 0 {
		return nil, apperrors.NewExportError("no reports to export", nil)
	}
	if err := s.files.ValidateOutputDirectory(dir); err != nil {
		return nil, err
	}

	var written []string
	for _, format := range formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "csv":
			w := exporter.NewCSVWriter(dir, s.logger)
			for _, r := range reports {
				name := exporter.ReportFileName(r)
				if err := w.WriteReport(name, r); err != nil {
					return written, err
				}
				written = append(written, filepath.Join(dir, name))
			}
		case "xlsx":
			name := exporter.WorkbookFileName(reports[0].Year)
			if err := exporter.NewXLSXWriter(dir, s.logger).WriteReports(name, reports); err != nil {
				return written, err
			}
			written = append(written, filepath.Join(dir, name))
		default:
			return written, apperrors.NewExportError(fmt.Sprintf("unsupported format %q", format), nil)
		}
	}

	s.logger.InfoContext(ctx, "Reports exported",
		slog.String("dir", dir),
		slog.Int("files", len(written)))
	return written, nil
}
