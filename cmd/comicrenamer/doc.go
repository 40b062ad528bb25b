// Package main hosts the comicrenamer CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, builds the Bangumi client and
// logger, and hands a directory to the organizer's Renamer. It owns the pieces
// a terminal user sees: the progress bar, the summary table, and the lock that
// stops two renames from running against the same directory at once.
//
// Keep this package lean. Behaviour belongs in the internal packages; commands
// here only translate flags into options and render results.
package main
