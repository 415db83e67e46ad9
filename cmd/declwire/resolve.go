// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/declwire/declwire/internal/config"
	"github.com/declwire/declwire/internal/report"
)

// newResolveCommand creates the `declwire resolve` command.
func newResolveCommand(app *App) *cobra.Command {
	var (
		flags       resolveFlags
		format      string
		commands    bool
		instantiate bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [paths...]",
		Short: "Resolve catalogs and print the binding plan",
		Long: `Resolve every catalog found in the given files or directories and print
the binding plan: which implementation each contract is bound to, which
bindings share an instance, and the members of every list contract.

Catalogs are processed in discovery order. Within a catalog, types are
processed in declaration order, so a later subtype supersedes an earlier
base type.`,
		Example: `  declwire resolve
  declwire resolve ./catalogs --env Production
  declwire resolve -f json app.catalog.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(cfg, cmd.Flags().Changed("env")); err != nil {
				return err
			}
			if format != "" {
				cfg.Output.Format = config.OutputFormat(format)
			}
			if ok, errs := cfg.Output.Format.IsValid(); !ok {
				return usage(errs[0])
			}
			if instantiate && cfg.Output.Format != config.FormatText {
				return usage(fmt.Errorf("--instantiate requires the %s format", config.FormatText))
			}

			res, err := app.run(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}

			if commands {
				for _, c := range res.recorder.Commands {
					fmt.Fprintln(app.stdout, c.String())
				}
				return nil
			}

			rep, err := report.Build(uuid.New(), res.resolver, res.catalogs)
			if err != nil {
				return failure(err)
			}
			if err := report.Encode(app.stdout, rep, cfg.Output.Format, cfg.UI.Color); err != nil {
				return failure(err)
			}
			if instantiate {
				return instantiateAll(app.stdout, res, rep)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.environments, "env", "e", nil, "active environment tokens (overrides config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, json, yaml or toml (default from config)")
	cmd.Flags().BoolVar(&commands, "commands", false, "print the binding commands in emission order instead of the plan")
	cmd.Flags().BoolVar(&instantiate, "instantiate", false, "construct every binding with the in-memory container and show instance sharing")
	cmd.MarkFlagsMutuallyExclusive("commands", "instantiate")
	return cmd
}
