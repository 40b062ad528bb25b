package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"comicrenamer/internal/fileutil"
	"comicrenamer/internal/identification"
	"comicrenamer/internal/logging"
	"comicrenamer/internal/services"
)

// Identifier resolves one entry name into template fields. found is false on
// a catalog miss.
type Identifier interface {
	Identify(ctx context.Context, term string, whitelist identification.Whitelist, useWhitelist bool) (fields identification.ResolvedFields, found bool, err error)
}

// WhitelistLoader reads the publisher whitelist for a run.
type WhitelistLoader func(path string, logger *slog.Logger) (identification.Whitelist, error)

// Options configures one batch run.
type Options struct {
	Template      string
	UseWhitelist  bool
	WhitelistPath string
	DryRun        bool
	// OnProgress receives the processed percentage in [0,100] after every entry.
	OnProgress func(percent float64)
	// OnDone is called exactly once when the run ends, successfully or not.
	OnDone func(summary Summary, err error)
}

// Renamer applies catalog-derived names to the entries of a directory.
type Renamer struct {
	identifier    Identifier
	logger        *slog.Logger
	loadWhitelist WhitelistLoader
	now           func() time.Time
}

// Option customises a Renamer.
type Option func(*Renamer)

// WithWhitelistLoader overrides how the publisher whitelist is read.
func WithWhitelistLoader(loader WhitelistLoader) Option {
	return func(r *Renamer) {
		if loader != nil {
			r.loadWhitelist = loader
		}
	}
}

// NewRenamer constructs a Renamer. A nil logger discards output.
func NewRenamer(identifier Identifier, logger *slog.Logger, opts ...Option) *Renamer {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Renamer{
		identifier:    identifier,
		logger:        logging.NewComponentLogger(logger, "renamer"),
		loadWhitelist: identification.LoadWhitelist,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is delivered by Start when the background run finishes.
type Result struct {
	Summary Summary
	Err     error
}

// Start runs the batch on a background goroutine. The returned channel
// receives exactly one Result and is then closed.
func (r *Renamer) Start(ctx context.Context, dir string, opts Options) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		summary, err := r.Run(ctx, dir, opts)
		done <- Result{Summary: summary, Err: err}
	}()
	return done
}

// Run renames every immediate entry of dir. Only an unusable directory or a
// cancelled ctx is returned as an error; per-entry failures are logged and
// recorded in the summary. Cancellation is checked between entries, so the
// entry in flight finishes first.
func (r *Renamer) Run(ctx context.Context, dir string, opts Options) (summary Summary, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	summary = Summary{Dir: dir, DryRun: opts.DryRun, StartedAt: r.now()}
	if runID, ok := services.RunIDFromContext(ctx); ok {
		summary.RunID = runID
	}
	defer func() {
		summary.FinishedAt = r.now()
		if opts.OnDone != nil {
			opts.OnDone(summary, err)
		}
	}()

	logger := logging.WithContext(ctx, r.logger)
	if r.identifier == nil {
		return summary, services.Wrap(services.ErrConfiguration, "renamer", "run", "identifier is nil", nil)
	}
	template := opts.Template
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}
	if err := fileutil.EnsureDir(dir); err != nil {
		logger.Error("cannot start batch", logging.String("dir", dir), logging.Error(err))
		return summary, err
	}
	entries, err := fileutil.ListEntries(dir)
	if err != nil {
		logger.Error("cannot start batch", logging.String("dir", dir), logging.Error(err))
		return summary, err
	}
	summary.Total = len(entries)

	logger.Info("starting batch",
		logging.String("dir", dir),
		logging.Int("entries", len(entries)),
		logging.String("template", template),
		logging.Bool("use_whitelist", opts.UseWhitelist),
		logging.Bool("dry_run", opts.DryRun),
	)

	var whitelist identification.Whitelist
	var whitelistErr error
	if opts.UseWhitelist {
		whitelist, whitelistErr = r.loadWhitelist(opts.WhitelistPath, r.logger)
		if whitelistErr != nil {
			logger.Error("publisher whitelist unavailable", logging.String("path", opts.WhitelistPath), logging.Error(whitelistErr))
		}
	}

	if len(entries) == 0 {
		report(opts.OnProgress, 100)
	}
	for i, entry := range entries {
		if ctxErr := ctx.Err(); ctxErr != nil {
			summary.Cancelled = true
			logger.Warn("batch cancelled",
				logging.Int("processed", i),
				logging.Int("remaining", len(entries)-i),
			)
			return summary, ctxErr
		}
		entryCtx := services.WithEntry(ctx, entry.Name, i+1)
		var result EntryResult
		if whitelistErr != nil {
			result = r.fail(entryCtx, entry, whitelistErr)
		} else {
			result = r.processEntry(entryCtx, dir, entry, template, whitelist, opts)
		}
		summary.add(result)
		report(opts.OnProgress, float64(i+1)/float64(len(entries))*100)
	}

	logger.Info("batch finished",
		logging.Int("total", summary.Total),
		logging.Int("renamed", summary.Renamed),
		logging.Int("unchanged", summary.Unchanged),
		logging.Int("unresolved", summary.Unresolved),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (r *Renamer) processEntry(ctx context.Context, dir string, entry fileutil.Entry, template string, whitelist identification.Whitelist, opts Options) EntryResult {
	logger := logging.WithContext(ctx, r.logger)
	result := EntryResult{Name: entry.Name, Path: entry.Path, State: StatePending}

	fields, found, err := r.identifier.Identify(ctx, entry.Name, whitelist, opts.UseWhitelist)
	if err != nil {
		return r.fail(ctx, entry, err)
	}
	if !found {
		result.State = StateSkipped
		result.Cause = StateUnresolved
		result.Err = services.Wrap(services.ErrNotFound, "renamer", "search", "no catalog match", nil)
		logger.Warn("entry not renamed", logging.String(logging.FieldReason, services.Kind(result.Err)))
		return result
	}
	result.Fields = fields

	newName, ok := Format(template, fields)
	if !ok || strings.TrimSpace(newName) == "" {
		missing := MissingFields(template, fields)
		result.State = StateSkipped
		result.Cause = StateUnresolved
		result.Err = services.Wrap(services.ErrUnresolvedField, "renamer", "format", fmt.Sprintf("missing %s", joinFields(missing)), nil)
		logger.Warn("entry not renamed",
			logging.String(logging.FieldReason, services.Kind(result.Err)),
			logging.String("missing", joinFields(missing)),
		)
		return result
	}
	result.State = StateResolved
	result.Cause = StateResolved
	result.NewName = newName
	plan := Plan{Source: entry.Path, Target: filepath.Join(dir, newName)}
	result.NewPath = plan.Target

	if plan.Unchanged() {
		result.State = StateRenamed
		result.Unchanged = true
		logger.Debug("entry already named", logging.String("name", newName))
		return result
	}
	if opts.DryRun {
		result.State = StateRenamed
		result.Planned = true
		logger.Info("would rename", logging.String("new_name", newName))
		return result
	}
	if err := fileutil.MoveEntry(plan.Source, plan.Target); err != nil {
		failed := r.fail(ctx, entry, err)
		failed.NewName = newName
		failed.NewPath = plan.Target
		failed.Fields = fields
		return failed
	}
	result.State = StateRenamed
	logger.Debug("renamed entry", logging.String("new_name", newName))
	return result
}

func (r *Renamer) fail(ctx context.Context, entry fileutil.Entry, err error) EntryResult {
	logging.WithContext(ctx, r.logger).Error("entry failed",
		logging.String(logging.FieldReason, services.Kind(err)),
		logging.Error(err),
	)
	return EntryResult{
		Name:  entry.Name,
		Path:  entry.Path,
		State: StateSkipped,
		Cause: StateError,
		Err:   err,
	}
}

// Plan is a pending move of one entry.
type Plan struct {
	Source string
	Target string
}

// Unchanged reports whether the plan would leave the entry where it is.
func (p Plan) Unchanged() bool {
	return filepath.Clean(p.Source) == filepath.Clean(p.Target)
}

func report(fn func(float64), percent float64) {
	if fn != nil {
		fn(percent)
	}
}

func joinFields(fields []identification.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}
