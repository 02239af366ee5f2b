// Package logging assembles structured slog loggers and formatting helpers used
// across bdnav.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and wraps handlers so playback code can tag log
// lines with session, disc, and title identifiers. The package also provides a
// no-op logger for tests and library callers that pass no logger.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same field names.
package logging
