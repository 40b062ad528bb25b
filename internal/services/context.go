package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	entryKey      contextKey = "entry"
	entryIndexKey contextKey = "entry_index"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithEntry annotates context with the directory entry being processed and its
// 1-based position in the batch.
func WithEntry(ctx context.Context, name string, index int) context.Context {
	if name != "" {
		ctx = context.WithValue(ctx, entryKey, name)
	}
	if index > 0 {
		ctx = context.WithValue(ctx, entryIndexKey, index)
	}
	return ctx
}

// EntryFromContext returns the entry name if present.
func EntryFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(entryKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// EntryIndexFromContext returns the 1-based entry position if present.
func EntryIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(entryIndexKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
