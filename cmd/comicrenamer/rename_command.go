package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"comicrenamer/internal/config"
	"comicrenamer/internal/identification"
	"comicrenamer/internal/logging"
	"comicrenamer/internal/organizer"
	"comicrenamer/internal/services"
)

const issueBacklog = 500

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var template string
	var useWhitelist bool
	var whitelistPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rename <dir>",
		Short: "Rename every entry of a directory from Bangumi metadata",
		Long: `Look up each immediate entry of <dir> on Bangumi and rename it using a template.

Placeholders: {name}, {namecn}, {author}, {press}. An entry whose template
references a field Bangumi cannot provide is left untouched.

Examples:
  comicrenamer rename ~/Comics
  comicrenamer rename ~/Comics -f "{namecn} - {author} - {press}" --whitelist
  comicrenamer rename ~/Comics --dry-run -v`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			dir, err := filepath.Abs(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}

			opts, err := renameOptions(cmd, cfg, template, useWhitelist, whitelistPath, dryRun)
			if err != nil {
				return err
			}

			logger, err := ctx.newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			// Warnings scroll past under the progress bar; keep them for the summary.
			issues := logging.NewStreamHub(issueBacklog)
			logger = logging.TeeLogger(logger, logging.NewHubHandler(issues, slog.LevelWarn))

			lock, err := acquireDirLock(cfg.Paths.StateDir, dir)
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warn("failed to release directory lock", logging.Error(err))
				}
			}()

			client, err := ctx.newCatalog(cfg)
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			runCtx := services.WithRunID(cmd.Context(), runID)
			renamer := organizer.NewRenamer(identification.NewIdentifier(client, logger), logger)

			progress := newProgressReporter(cmd.OutOrStdout(), logging.WithContext(runCtx, logger), "renaming")
			opts.OnProgress = progress.Update
			opts.OnDone = func(organizer.Summary, error) { progress.Finish() }

			result := <-renamer.Start(runCtx, dir, opts)
			if result.Err != nil {
				return fmt.Errorf("rename %s: %w", dir, result.Err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary(result.Summary))
			if events := issues.Tail(0); len(events) > 0 {
				fmt.Fprintln(out, renderIssues(events))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "format", "f", "", "Name template (default from config)")
	cmd.Flags().BoolVar(&useWhitelist, "whitelist", false, "Prefer publishers listed in the whitelist file")
	cmd.Flags().StringVar(&whitelistPath, "whitelist-path", "", "Publisher whitelist JSON file (default from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show planned names without renaming")
	return cmd
}

// renameOptions merges flags over configured defaults.
func renameOptions(cmd *cobra.Command, cfg *config.Config, template string, useWhitelist bool, whitelistPath string, dryRun bool) (organizer.Options, error) {
	opts := organizer.Options{
		Template:      cfg.Rename.Template,
		UseWhitelist:  cfg.Rename.UseWhitelist,
		WhitelistPath: cfg.Rename.WhitelistPath,
		DryRun:        dryRun,
	}
	if cmd.Flags().Changed("format") {
		if strings.TrimSpace(template) == "" {
			return opts, fmt.Errorf("--format must not be empty")
		}
		opts.Template = template
	}
	if cmd.Flags().Changed("whitelist") {
		opts.UseWhitelist = useWhitelist
	}
	if strings.TrimSpace(whitelistPath) != "" {
		expanded, err := config.ExpandPath(strings.TrimSpace(whitelistPath))
		if err != nil {
			return opts, fmt.Errorf("resolve whitelist path: %w", err)
		}
		opts.WhitelistPath = expanded
		opts.UseWhitelist = opts.UseWhitelist || !cmd.Flags().Changed("whitelist")
	}
	return opts, nil
}
