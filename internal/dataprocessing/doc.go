// Package dataprocessing reads the ACT school datasets and joins school
// enrolment with suburb population projections.
//
// # Datasets
//
//	school locations   name, address, suburb, ...
//	enrolment census   census date, school, sector, year level, enrolment, ...
//	population         timestamp, suburb, 86 female age counts, 86 male age counts
//
// Each file has one header row, which is skipped.
//
// # Data Flow
//
//	Read*/Parse* → normalized records → AverageYearlyEnrolment → ComparePopulationAndEnrolment
//
// All transforms are pure: inputs are never modified and every call returns
// freshly allocated results.
//
// # Error Handling
//
// A missing or unreadable file yields a FILE_UNAVAILABLE error. A row that
// cannot be normalized (wrong column count, unknown month or year level,
// unparseable number) yields a MALFORMED_RECORD error carrying the csv line.
// Missing data for a school, level, suburb or year is not an error; it
// contributes zero.
package dataprocessing
