// Package services orchestrates a report run: loading the census datasets,
// comparing population against enrolment per age group and exporting the
// results.
package services
