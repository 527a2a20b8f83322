package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"CENSUS_LOGGING_LEVEL", "CENSUS_LOGGING_FORMAT", "CENSUS_LOGGING_OUTPUT",
	"CENSUS_DATA_DIR", "CENSUS_DATA_AGES_RANGE",
	"CENSUS_REPORT_YEAR", "CENSUS_REPORT_AGE_DELTA", "CENSUS_REPORT_FORMATS", "CENSUS_REPORT_AGE_GROUPS",
	"CENSUS_TELEMETRY_ENABLE_METRICS", "CENSUS_CONFIG_FILE",
}

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnvVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "census.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars or file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, "data", cfg.Data.Dir)
				assert.Equal(t, 86, cfg.Data.AgesRange)
				assert.Equal(t, 2019, cfg.Report.Year)
				assert.Equal(t, 5, cfg.Report.AgeDelta)
				assert.Equal(t, []string{"junior", "secondary"}, cfg.Report.AgeGroups)
				assert.Equal(t, []string{"csv", "xlsx"}, cfg.Report.Formats)
				assert.False(t, cfg.Report.KeepEmptySuburbs)
				assert.True(t, cfg.Telemetry.EnableMetrics)
				assert.False(t, cfg.Telemetry.EnableTracing)
			},
		},
		{
			name: "environment variables override defaults",
			setupEnv: func(t *testing.T) {
				t.Setenv("CENSUS_REPORT_YEAR", "2017")
				t.Setenv("CENSUS_REPORT_FORMATS", "csv")
				t.Setenv("CENSUS_LOGGING_LEVEL", "DEBUG")
				t.Setenv("CENSUS_TELEMETRY_ENABLE_METRICS", "false")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2017, cfg.Report.Year)
				assert.Equal(t, []string{"csv"}, cfg.Report.Formats)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.False(t, cfg.Telemetry.EnableMetrics)
			},
		},
		{
			name: "file values overlay defaults",
			fileContent: `
data:
  dir: /srv/act
  ages_range: 20
report:
  year: 2016
  age_groups: [primary]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/act", cfg.Data.Dir)
				assert.Equal(t, 20, cfg.Data.AgesRange)
				assert.Equal(t, 2016, cfg.Report.Year)
				assert.Equal(t, []string{"primary"}, cfg.Report.AgeGroups)
				assert.Equal(t, 5, cfg.Report.AgeDelta)
			},
		},
		{
			name: "environment takes precedence over file",
			setupEnv: func(t *testing.T) {
				t.Setenv("CENSUS_REPORT_YEAR", "2020")
			},
			fileContent: "report:\n  year: 2016\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2020, cfg.Report.Year)
			},
		},
		{
			name: "unknown output format rejected",
			setupEnv: func(t *testing.T) {
				t.Setenv("CENSUS_REPORT_FORMATS", "csv,pdf")
			},
			wantErr: true,
		},
		{
			name: "unknown age group rejected",
			setupEnv: func(t *testing.T) {
				t.Setenv("CENSUS_REPORT_AGE_GROUPS", "tertiary")
			},
			wantErr: true,
		},
		{
			name: "non numeric year rejected",
			setupEnv: func(t *testing.T) {
				t.Setenv("CENSUS_REPORT_YEAR", "next")
			},
			wantErr: true,
		},
		{
			name:        "invalid yaml rejected",
			fileContent: "report: [",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}

			path := ""
			if tt.fileContent != "" {
				path = writeConfigFile(t, tt.fileContent)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "report:\n  age_delta: 6\n")
	t.Setenv("CENSUS_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Report.AgeDelta)
}

func TestDataConfig_Path(t *testing.T) {
	abs, err := filepath.Abs("schools.csv")
	require.NoError(t, err)

	tests := []struct {
		name string
		dir  string
		file string
		want string
	}{
		{name: "relative joined with dir", dir: "data", file: "schools.csv", want: filepath.Join("data", "schools.csv")},
		{name: "absolute kept", dir: "data", file: abs, want: abs},
		{name: "empty dir", dir: "", file: "schools.csv", want: "schools.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DataConfig{Dir: tt.dir}
			assert.Equal(t, tt.want, d.Path(tt.file))
		})
	}
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().validate())
}
