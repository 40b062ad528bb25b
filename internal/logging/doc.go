// Package logging assembles structured slog loggers and formatting helpers used
// across comicrenamer.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so per-entry code automatically tags log
// lines with the run identifier and entry name. Shells that cannot read a
// console (a GUI log pane, a test) attach a StreamHub, a bounded in-memory
// buffer of structured events that can be tailed or polled.
//
// No package keeps a global logger: construct one here and pass it into the
// components that need it.
package logging
