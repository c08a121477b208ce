// Package report converts song timelines into the tables of a model.Report.
//
// Build is a pure transform: the same timelines and calendar always produce
// a deep-equal Report, which keeps exports reproducible.
package report
