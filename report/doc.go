// Package report defines the JSON report emitted by every benchmark run
// and its exporters.
//
// A Report is a RunMeta header plus a flat list of Measurements. Write
// produces indented JSON; WritePrometheus renders the same numbers as a
// node-exporter textfile.
package report
