package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"comicrenamer/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfgVal.Catalog.UserAgent = "comicrenamer/test"
	cfgVal.Rename.WhitelistPath = filepath.Join(base, "publishers.json")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCatalogURL points the catalog client at a test server.
func WithCatalogURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.BaseURL = url
	}
}

// WithUserAgent overrides the catalog user agent. An empty value leaves the
// versioned default to config loading.
func WithUserAgent(userAgent string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.UserAgent = userAgent
	}
}

// WithTemplate overrides the rename template.
func WithTemplate(template string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Rename.Template = template
	}
}

// WithWhitelist writes names as the publisher whitelist file and enables it.
func WithWhitelist(names ...string) ConfigOption {
	return func(b *configBuilder) {
		data, err := jsonArray(names)
		if err != nil {
			b.t.Fatalf("encode whitelist: %v", err)
		}
		if err := os.WriteFile(b.cfg.Rename.WhitelistPath, data, 0o644); err != nil {
			b.t.Fatalf("write whitelist: %v", err)
		}
		b.cfg.Rename.UseWhitelist = true
	}
}

// WriteConfigFile encodes cfg as TOML into a temp file and returns its path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
