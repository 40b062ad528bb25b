package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	if err := c.normalizeRename(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.AccessToken = strings.TrimSpace(c.Catalog.AccessToken)
	if c.Catalog.AccessToken == "" {
		if value, ok := os.LookupEnv("BANGUMI_ACCESS_TOKEN"); ok {
			c.Catalog.AccessToken = strings.TrimSpace(value)
		}
	}
	c.Catalog.BaseURL = strings.TrimSpace(c.Catalog.BaseURL)
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
	c.Catalog.UserAgent = strings.TrimSpace(c.Catalog.UserAgent)
	if c.Catalog.UserAgent == "" {
		c.Catalog.UserAgent = DefaultUserAgent()
	}
}

func (c *Config) normalizeRename() error {
	if strings.TrimSpace(c.Rename.Template) == "" {
		c.Rename.Template = defaultTemplate
	}
	if strings.TrimSpace(c.Rename.WhitelistPath) == "" {
		c.Rename.WhitelistPath = defaultWhitelistPath
	}
	var err error
	if c.Rename.WhitelistPath, err = expandPath(strings.TrimSpace(c.Rename.WhitelistPath)); err != nil {
		return fmt.Errorf("rename.whitelist_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
