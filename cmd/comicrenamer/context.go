package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"comicrenamer/internal/config"
	"comicrenamer/internal/logging"
	"comicrenamer/internal/services/bangumi"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) verboseEnabled() bool {
	return c.verbose != nil && *c.verbose
}

// newLogger writes to the command's stderr and, when a log directory is
// configured, to comicrenamer.log inside it.
func (c *commandContext) newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewFromConfig(cfg, c.verboseEnabled(), cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, nil
}

func (c *commandContext) newCatalog(cfg *config.Config) (*bangumi.Client, error) {
	client, err := bangumi.New(
		cfg.Catalog.BaseURL,
		cfg.Catalog.UserAgent,
		bangumi.WithAccessToken(cfg.Catalog.AccessToken),
		bangumi.WithRequestsPerSecond(cfg.Catalog.RequestsPerSecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create bangumi client: %w", err)
	}
	return client, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
