package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"comicrenamer/internal/config"
	"comicrenamer/internal/services/bangumi"
	"comicrenamer/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	cfg        *config.Config
	configPath string
	server     *testsupport.BangumiServer
}

// setupCLITestEnv writes a config pointing at a fake Bangumi server that knows
// a single subject, "Foo".
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("BANGUMI_ACCESS_TOKEN", "")

	server := testsupport.NewBangumiServer(t, testsupport.FakeSubject{
		Term:   "Foo",
		ID:     7,
		Name:   "Foo",
		NameCN: "Bar",
		Persons: []bangumi.Contributor{
			testsupport.Person(bangumi.RelationAuthor, "Baz"),
			testsupport.Person(bangumi.RelationPublisher, "Press"),
			testsupport.Person(bangumi.RelationPublisher, "Listed Press"),
		},
	})

	opts = append([]testsupport.ConfigOption{testsupport.WithCatalogURL(server.URL)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	return &cliTestEnv{
		baseDir:    base,
		cfg:        cfg,
		configPath: testsupport.WriteConfigFile(t, cfg),
		server:     server,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
