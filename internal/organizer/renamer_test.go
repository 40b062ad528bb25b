package organizer_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"comicrenamer/internal/identification"
	"comicrenamer/internal/logging"
	"comicrenamer/internal/organizer"
	"comicrenamer/internal/services"
	"comicrenamer/internal/services/bangumi"
	"comicrenamer/internal/testsupport"
)

type fakeIdentifier struct {
	mu      sync.Mutex
	results map[string]identification.ResolvedFields
	errs    map[string]error
	calls   []string
	lists   []bool
}

func (f *fakeIdentifier) Identify(_ context.Context, term string, whitelist identification.Whitelist, useWhitelist bool) (identification.ResolvedFields, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, term)
	f.lists = append(f.lists, useWhitelist && whitelist.Len() > 0)
	if err := f.errs[term]; err != nil {
		return nil, false, err
	}
	fields, ok := f.results[term]
	return fields, ok, nil
}

type progressRecorder struct {
	mu     sync.Mutex
	values []float64
	done   int
	last   organizer.Summary
	err    error
}

func (p *progressRecorder) options(template string) organizer.Options {
	return organizer.Options{
		Template: template,
		OnProgress: func(v float64) {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.values = append(p.values, v)
		},
		OnDone: func(s organizer.Summary, err error) {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.done++
			p.last = s
			p.err = err
		},
	}
}

func (p *progressRecorder) final() float64 {
	if len(p.values) == 0 {
		return -1
	}
	return p.values[len(p.values)-1]
}

func newHubLogger() (*slog.Logger, *logging.StreamHub) {
	hub := logging.NewStreamHub(64)
	return slog.New(logging.NewHubHandler(hub, slog.LevelDebug)), hub
}

func countLevel(events []logging.LogEvent, level string) int {
	n := 0
	for _, evt := range events {
		if evt.Level == level {
			n++
		}
	}
	return n
}

func TestRunRenamesResolvedEntry(t *testing.T) {
	dir := testsupport.WriteEntries(t, "Foo")
	ident := &fakeIdentifier{results: map[string]identification.ResolvedFields{
		"Foo": {identification.FieldNameCN: "Bar", identification.FieldAuthor: "Baz"},
	}}
	rec := &progressRecorder{}

	summary, err := organizer.NewRenamer(ident, logging.NewNop()).Run(context.Background(), dir, rec.options("{namecn} {author}"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !testsupport.Exists(filepath.Join(dir, "Bar Baz")) || testsupport.Exists(filepath.Join(dir, "Foo")) {
		t.Fatal("expected Foo to be renamed to Bar Baz")
	}
	if summary.Renamed != 1 || summary.Total != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	entry := summary.Entries[0]
	if entry.State != organizer.StateRenamed || entry.Cause != organizer.StateResolved || entry.NewName != "Bar Baz" {
		t.Fatalf("unexpected entry result: %+v", entry)
	}
	if rec.done != 1 || rec.final() != 100 {
		t.Fatalf("expected one done and progress 100, got done=%d progress=%v", rec.done, rec.values)
	}
}

func TestRunCatalogMissWarnsOnce(t *testing.T) {
	dir := testsupport.WriteEntries(t, "Unknown")
	ident := &fakeIdentifier{}
	logger, hub := newHubLogger()
	rec := &progressRecorder{}

	summary, err := organizer.NewRenamer(ident, logger).Run(context.Background(), dir, rec.options("{namecn} {author}"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !testsupport.Exists(filepath.Join(dir, "Unknown")) {
		t.Fatal("entry should be left unrenamed")
	}
	events := hub.Tail(0)
	if got := countLevel(events, "WARN"); got != 1 {
		t.Fatalf("expected exactly one warning, got %d: %#v", got, events)
	}
	for _, evt := range events {
		if evt.Level == "WARN" && (evt.Entry != "Unknown" || evt.Fields[logging.FieldReason] != "not_found") {
			t.Fatalf("warning missing entry context: %#v", evt)
		}
	}
	if summary.Unresolved != 1 || summary.Skipped() != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !errors.Is(summary.Entries[0].Err, services.ErrNotFound) {
		t.Fatalf("expected not found marker, got %v", summary.Entries[0].Err)
	}
	if rec.final() != 100 || rec.done != 1 {
		t.Fatalf("progress=%v done=%d", rec.values, rec.done)
	}
}

func TestRunSkipsUnresolvedPlaceholder(t *testing.T) {
	dir := testsupport.WriteEntries(t, "Foo")
	ident := &fakeIdentifier{results: map[string]identification.ResolvedFields{
		"Foo": {identification.FieldNameCN: "Bar"},
	}}
	logger, hub := newHubLogger()

	summary, err := organizer.NewRenamer(ident, logger).Run(context.Background(), dir, organizer.Options{Template: "{namecn} {press}"})
	if err != nil {
		t.Fatal(err)
	}
	if !testsupport.Exists(filepath.Join(dir, "Foo")) {
		t.Fatal("entry should not be renamed")
	}
	if summary.Unresolved != 1 || !errors.Is(summary.Entries[0].Err, services.ErrUnresolvedField) {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	var warned bool
	for _, evt := range hub.Tail(0) {
		if evt.Level == "WARN" && evt.Fields["missing"] == "press" {
			warned = true
		}
	}
	if !warned {
		t.Fatal("expected warning naming the missing field")
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	dir := testsupport.WriteEntries(t, "a", "b", "c", "d")
	// "c" formats to the name of an existing entry, so its move collides.
	if err := os.WriteFile(filepath.Join(dir, "taken"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ident := &fakeIdentifier{
		results: map[string]identification.ResolvedFields{
			"a":     {identification.FieldName: "A"},
			"c":     {identification.FieldName: "taken"},
			"d":     {identification.FieldName: "D"},
			"taken": {identification.FieldName: "taken"},
		},
		errs: map[string]error{
			"b": services.Wrap(services.ErrRateLimited, "bangumi", "search", "rate limited", nil),
		},
	}
	logger, hub := newHubLogger()
	rec := &progressRecorder{}

	summary, err := organizer.NewRenamer(ident, logger).Run(context.Background(), dir, rec.options("{name}"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(ident.calls) != 5 {
		t.Fatalf("expected every entry to be attempted, got %v", ident.calls)
	}
	if !testsupport.Exists(filepath.Join(dir, "A")) || !testsupport.Exists(filepath.Join(dir, "D")) {
		t.Fatal("entries after a failure should still be renamed")
	}
	if !testsupport.Exists(filepath.Join(dir, "c")) || !testsupport.Exists(filepath.Join(dir, "b")) {
		t.Fatal("failed entries must keep their names")
	}
	if summary.Failed != 2 || summary.Renamed != 2 || summary.Unchanged != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := countLevel(hub.Tail(0), "ERROR"); got != 2 {
		t.Fatalf("expected two error events, got %d", got)
	}
	if rec.done != 1 {
		t.Fatalf("OnDone called %d times", rec.done)
	}
	if len(rec.values) != 5 || rec.final() != 100 {
		t.Fatalf("unexpected progress: %v", rec.values)
	}
	for i := 1; i < len(rec.values); i++ {
		if rec.values[i] < rec.values[i-1] {
			t.Fatalf("progress not monotonic: %v", rec.values)
		}
	}
	for _, entry := range summary.Entries {
		if entry.Name == "c" && !errors.Is(entry.Err, services.ErrFilesystem) {
			t.Fatalf("expected filesystem error for collision, got %v", entry.Err)
		}
	}
}

func TestRunInvalidDirectoryStillSignalsDone(t *testing.T) {
	rec := &progressRecorder{}
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := organizer.NewRenamer(&fakeIdentifier{}, logging.NewNop()).Run(context.Background(), missing, rec.options(""))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if rec.done != 1 || !errors.Is(rec.err, services.ErrValidation) {
		t.Fatalf("expected OnDone with the error, done=%d err=%v", rec.done, rec.err)
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	rec := &progressRecorder{}
	summary, err := organizer.NewRenamer(&fakeIdentifier{}, logging.NewNop()).Run(context.Background(), t.TempDir(), rec.options(""))
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 0 || rec.done != 1 || rec.final() != 100 {
		t.Fatalf("summary=%+v done=%d progress=%v", summary, rec.done, rec.values)
	}
}

func TestRunDryRunLeavesEntries(t *testing.T) {
	dir := testsupport.WriteEntries(t, "Foo")
	ident := &fakeIdentifier{results: map[string]identification.ResolvedFields{
		"Foo": {identification.FieldNameCN: "Bar", identification.FieldAuthor: "Baz"},
	}}
	opts := organizer.Options{DryRun: true}

	summary, err := organizer.NewRenamer(ident, logging.NewNop()).Run(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !testsupport.Exists(filepath.Join(dir, "Foo")) || testsupport.Exists(filepath.Join(dir, "Bar Baz")) {
		t.Fatal("dry run must not touch the filesystem")
	}
	if summary.Planned != 1 || summary.Entries[0].NewPath != filepath.Join(dir, "Bar Baz") {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRunCreatesParentDirectories(t *testing.T) {
	dir := testsupport.WriteEntries(t, "Foo")
	ident := &fakeIdentifier{results: map[string]identification.ResolvedFields{
		"Foo": {identification.FieldAuthor: "Baz", identification.FieldNameCN: "Bar"},
	}}
	if _, err := organizer.NewRenamer(ident, logging.NewNop()).Run(context.Background(), dir, organizer.Options{Template: "{author}/{namecn}"}); err != nil {
		t.Fatal(err)
	}
	if !testsupport.Exists(filepath.Join(dir, "Baz", "Bar")) {
		t.Fatal("expected nested target to be created")
	}
}

func TestRunWhitelistLoadedOnce(t *testing.T) {
	dir := testsupport.WriteEntries(t, "a", "b")
	ident := &fakeIdentifier{results: map[string]identification.ResolvedFields{
		"a": {identification.FieldName: "A"},
		"b": {identification.FieldName: "B"},
	}}
	loads := 0
	loader := func(path string, _ *slog.Logger) (identification.Whitelist, error) {
		loads++
		if path != "publishers.json" {
			t.Fatalf("unexpected whitelist path %q", path)
		}
		return identification.NewWhitelist("X"), nil
	}
	renamer := organizer.NewRenamer(ident, logging.NewNop(), organizer.WithWhitelistLoader(loader))
	opts := organizer.Options{Template: "{name}", UseWhitelist: true, WhitelistPath: "publishers.json"}

	if _, err := renamer.Run(context.Background(), dir, opts); err != nil {
		t.Fatal(err)
	}
	if loads != 1 {
		t.Fatalf("whitelist loaded %d times", loads)
	}
	for i, used := range ident.lists {
		if !used {
			t.Fatalf("call %d did not receive the whitelist", i)
		}
	}
}

func TestRunWhitelistFailureSkipsEntries(t *testing.T) {
	dir := testsupport.WriteEntries(t, "a", "b")
	ident := &fakeIdentifier{results: map[string]identification.ResolvedFields{
		"a": {identification.FieldName: "A"},
	}}
	loader := func(string, *slog.Logger) (identification.Whitelist, error) {
		return identification.Whitelist{}, services.Wrap(services.ErrConfiguration, "whitelist", "load", "missing", nil)
	}
	rec := &progressRecorder{}
	opts := rec.options("{name}")
	opts.UseWhitelist = true

	summary, err := organizer.NewRenamer(ident, logging.NewNop(), organizer.WithWhitelistLoader(loader)).Run(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("whitelist failure must not be fatal: %v", err)
	}
	if summary.Failed != 2 || len(ident.calls) != 0 {
		t.Fatalf("unexpected summary %+v calls=%v", summary, ident.calls)
	}
	if rec.final() != 100 || rec.done != 1 {
		t.Fatalf("progress=%v done=%d", rec.values, rec.done)
	}
}

type cancellingIdentifier struct {
	fakeIdentifier
	cancel context.CancelFunc
}

func (c *cancellingIdentifier) Identify(ctx context.Context, term string, whitelist identification.Whitelist, useWhitelist bool) (identification.ResolvedFields, bool, error) {
	c.cancel()
	return c.fakeIdentifier.Identify(ctx, term, whitelist, useWhitelist)
}

func TestRunStopsBetweenEntriesWhenCancelled(t *testing.T) {
	dir := testsupport.WriteEntries(t, "a", "b", "c")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ident := &cancellingIdentifier{
		fakeIdentifier: fakeIdentifier{results: map[string]identification.ResolvedFields{
			"a": {identification.FieldName: "A"},
		}},
		cancel: cancel,
	}
	logger, hub := newHubLogger()
	rec := &progressRecorder{}

	summary, err := organizer.NewRenamer(ident, logger).Run(ctx, dir, rec.options("{name}"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(ident.calls) != 1 {
		t.Fatalf("expected only the first entry to be attempted, got %v", ident.calls)
	}
	if !summary.Cancelled || summary.Processed != 1 || summary.Renamed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !testsupport.Exists(filepath.Join(dir, "A")) || !testsupport.Exists(filepath.Join(dir, "b")) {
		t.Fatal("in-flight entry should finish and later entries stay untouched")
	}
	if got := countLevel(hub.Tail(0), "ERROR"); got != 0 {
		t.Fatalf("cancellation must not log per-entry errors, got %d", got)
	}
	if rec.done != 1 || !errors.Is(rec.err, context.Canceled) {
		t.Fatalf("expected one OnDone with the cancellation, done=%d err=%v", rec.done, rec.err)
	}
	if len(rec.values) != 1 {
		t.Fatalf("expected progress for the finished entry only, got %v", rec.values)
	}
}

func TestStartDeliversResult(t *testing.T) {
	dir := testsupport.WriteEntries(t, "Foo")
	ident := &fakeIdentifier{results: map[string]identification.ResolvedFields{
		"Foo": {identification.FieldName: "Bar"},
	}}
	ctx := services.WithRunID(context.Background(), "run-1")
	res := <-organizer.NewRenamer(ident, logging.NewNop()).Start(ctx, dir, organizer.Options{Template: "{name}"})
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.Summary.RunID != "run-1" || res.Summary.Renamed != 1 {
		t.Fatalf("unexpected summary: %+v", res.Summary)
	}
}

func TestRunEndToEndAgainstCatalog(t *testing.T) {
	server := testsupport.NewBangumiServer(t, testsupport.FakeSubject{
		Term:   "Foo",
		ID:     42,
		Name:   "Foo",
		NameCN: "Bar",
		Persons: []bangumi.Contributor{
			testsupport.Person(bangumi.RelationIllustrator, "Qux"),
			testsupport.Person(bangumi.RelationAuthor, "Baz"),
		},
	})
	client, err := bangumi.New(server.URL, "comicrenamer/test")
	if err != nil {
		t.Fatal(err)
	}
	dir := testsupport.WriteEntries(t, "Foo", "Unknown")
	renamer := organizer.NewRenamer(identification.NewIdentifier(client, logging.NewNop()), logging.NewNop())

	summary, err := renamer.Run(context.Background(), dir, organizer.Options{Template: "{namecn} {author}"})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Renamed != 1 || !testsupport.Exists(filepath.Join(dir, "Bar Baz")) {
		t.Fatalf("expected Foo renamed to Bar Baz, summary=%+v", summary)
	}
	if summary.Unresolved != 1 || !testsupport.Exists(filepath.Join(dir, "Unknown")) {
		t.Fatalf("expected Unknown to stay, summary=%+v", summary)
	}
	// search, subject and persons for Foo; search only for Unknown
	if got := server.Requests(); got != 4 {
		t.Fatalf("expected 4 catalog requests, got %d", got)
	}
}
