// Package config provides configuration loading for the enrolment report.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CENSUS_<SECTION>_<FIELD>:
//
//	CENSUS_DATA_DIR=/srv/act-data
//	CENSUS_REPORT_YEAR=2018
//	CENSUS_REPORT_FORMATS=csv,xlsx
//	CENSUS_LOGGING_LEVEL=debug
//
// CENSUS_CONFIG_FILE selects the YAML file explicitly; otherwise census.yaml
// and configs/census.yaml are tried.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	path := cfg.Data.EnrolmentPath()
package config
