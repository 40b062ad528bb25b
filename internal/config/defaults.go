package config

const (
	defaultConfigPath        = "~/.config/comicrenamer/config.toml"
	defaultStateDir          = "~/.local/state/comicrenamer"
	defaultLogDir            = "~/.local/state/comicrenamer/logs"
	defaultCatalogBaseURL    = "https://api.bgm.tv"
	defaultTemplate          = "{namecn} {author}"
	defaultWhitelistPath     = "~/.config/comicrenamer/publishers.json"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultRequestsPerSecond = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Catalog: Catalog{
			BaseURL:           defaultCatalogBaseURL,
			UserAgent:         DefaultUserAgent(),
			RequestsPerSecond: defaultRequestsPerSecond,
		},
		Rename: Rename{
			Template:      defaultTemplate,
			WhitelistPath: defaultWhitelistPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
