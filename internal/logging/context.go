package logging

import (
	"context"
	"log/slog"

	"comicrenamer/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for batch run identifiers.
	FieldRunID = "run_id"
	// FieldEntry is the standardized structured logging key for the directory entry being processed.
	FieldEntry = "entry"
	// FieldEntryIndex is the 1-based position of the entry within the batch.
	FieldEntryIndex = "entry_index"
	// FieldReason classifies why an entry was skipped.
	FieldReason = "reason"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if entry, ok := services.EntryFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldEntry, entry))
	}
	if idx, ok := services.EntryIndexFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldEntryIndex, idx))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
