// Package patterns holds the pattern tables the extractor relies on.
//
// Month abbreviations, date layouts, venue indicator keywords, field labels and
// selector hints are versioned configuration data in patterns.yaml, embedded in
// the binary and optionally overridden from a file. The tables are tuned to one
// page's markup, so a markup change shows up as an empty or degraded extraction
// rather than an error.
package patterns
