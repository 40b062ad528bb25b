package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"comicrenamer/internal/identification"
	"comicrenamer/internal/organizer"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var template string
	var useWhitelist bool

	cmd := &cobra.Command{
		Use:   "lookup <name>",
		Short: "Show the fields Bangumi resolves for a name without renaming",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			client, err := ctx.newCatalog(cfg)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("format") {
				template = cfg.Rename.Template
			}
			if !cmd.Flags().Changed("whitelist") {
				useWhitelist = cfg.Rename.UseWhitelist
			}
			var whitelist identification.Whitelist
			if useWhitelist {
				whitelist, err = identification.LoadWhitelist(cfg.Rename.WhitelistPath, logger)
				if err != nil {
					return err
				}
			}

			name := strings.TrimSpace(args[0])
			fields, found, err := identification.NewIdentifier(client, logger).Identify(cmd.Context(), name, whitelist, useWhitelist)
			if err != nil {
				return fmt.Errorf("lookup %q: %w", name, err)
			}
			out := cmd.OutOrStdout()
			if !found {
				fmt.Fprintf(out, "No Bangumi match for %q\n", name)
				return nil
			}
			fmt.Fprintln(out, renderFields(fields))
			if formatted, ok := organizer.Format(template, fields); ok {
				fmt.Fprintf(out, "Template %q -> %s\n", template, formatted)
			} else {
				fmt.Fprintf(out, "Template %q cannot be applied; missing %s\n", template, fieldList(organizer.MissingFields(template, fields)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "format", "f", "", "Name template to preview (default from config)")
	cmd.Flags().BoolVar(&useWhitelist, "whitelist", false, "Prefer publishers listed in the whitelist file")
	return cmd
}

func fieldList(fields []identification.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Placeholder()
	}
	return strings.Join(names, ", ")
}
