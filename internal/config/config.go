package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"schoolcensus/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "CENSUS"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// DataConfig locates the three input datasets.
type DataConfig struct {
	Dir             string `yaml:"dir" envconfig:"DIR"`
	SchoolLocations string `yaml:"school_locations" envconfig:"SCHOOL_LOCATIONS" validate:"required"`
	Enrolment       string `yaml:"enrolment" envconfig:"ENROLMENT" validate:"required"`
	Population      string `yaml:"population" envconfig:"POPULATION" validate:"required"`
	AgesRange       int    `yaml:"ages_range" envconfig:"AGES_RANGE" validate:"min=1"`
}

// ReportConfig controls which comparisons are produced and where they go.
type ReportConfig struct {
	Year             int      `yaml:"year" envconfig:"YEAR" validate:"min=1900,max=2200"`
	AgeDelta         int      `yaml:"age_delta" envconfig:"AGE_DELTA" validate:"min=0"`
	AgeGroups        []string `yaml:"age_groups" envconfig:"AGE_GROUPS" validate:"min=1,dive,oneof=preschool kindergarten primary junior secondary"`
	OutputDir        string   `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	Formats          []string `yaml:"formats" envconfig:"FORMATS" validate:"dive,oneof=csv xlsx"`
	KeepEmptySuburbs bool     `yaml:"keep_empty_suburbs" envconfig:"KEEP_EMPTY_SUBURBS"`
}

// TelemetryConfig toggles OpenTelemetry tracing and metrics.
type TelemetryConfig struct {
	EnableTracing   bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceExporter   string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	SampleRatio     float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
	EnableMetrics   bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	MetricsTextfile string  `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// Load loads configuration from defaults, the first config file found and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a default tag are only touched when their variable is set,
	// so file values survive unless overridden.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)

	return validator.New().Struct(c)
}

// Path resolves a dataset file name against the data directory.
func (d DataConfig) Path(name string) string {
	if filepath.IsAbs(name) || d.Dir == "" {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// SchoolLocationsPath returns the resolved school locations file.
func (d DataConfig) SchoolLocationsPath() string { return d.Path(d.SchoolLocations) }

// EnrolmentPath returns the resolved enrolment census file.
func (d DataConfig) EnrolmentPath() string { return d.Path(d.Enrolment) }

// PopulationPath returns the resolved population projections file.
func (d DataConfig) PopulationPath() string { return d.Path(d.Population) }

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	// Check for config file in common locations
	locations := []string{
		"census.yaml",
		"configs/census.yaml",
		"../configs/census.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/agereport.log",
		},
		Data: DataConfig{
			Dir:             "data",
			SchoolLocations: "ACT_School_Locations_2017_-_archived.csv",
			Enrolment:       "Census_Data_for_all_ACT_Schools.csv",
			Population:      "ACT_Population_Projections_by_Suburb__2015_-_2020_.csv",
			AgesRange:       domain.DefaultAgesRange,
		},
		Report: ReportConfig{
			Year:      2019,
			AgeDelta:  domain.DefaultAgeDelta,
			AgeGroups: []string{"junior", "secondary"},
			OutputDir: "reports",
			Formats:   []string{"csv", "xlsx"},
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			TraceExporter: "stdout",
			SampleRatio:   1.0,
			EnableMetrics: true,
		},
	}
}
