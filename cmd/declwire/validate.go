// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newValidateCommand creates the `declwire validate` command.
func newValidateCommand(app *App) *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Check catalogs and their registrations",
		Long: `Parse every catalog against the catalog schema and report each file.
When all of them parse, run a resolution to check the registrations for
contract mismatches, conflicts and unsupported lifetimes.

Exits with status 1 when any check fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(cfg, cmd.Flags().Changed("env")); err != nil {
				return err
			}

			logger := app.logger()
			loaded, err := app.loadCatalogs(cmd.Context(), cfg, args, logger)
			if err != nil {
				return err
			}

			failed := 0
			for _, f := range loaded.Files {
				if f.Error != nil {
					failed++
					fmt.Fprintf(app.stdout, "%s %s\n    %s\n", ErrorStyle.Render("✗"), displayPath(f.Path),
						formatErrorForDisplay(f.Error, app.verbose))
					continue
				}
				fmt.Fprintf(app.stdout, "%s %s %s\n", SuccessStyle.Render("✓"), displayPath(f.Path),
					SubtitleStyle.Render(fmt.Sprintf("(%s, %d types)", f.Catalog.Name, len(f.Catalog.Types))))
			}
			if failed > 0 {
				fmt.Fprintf(app.stdout, "\n%s\n", ErrorStyle.Render(fmt.Sprintf("%d of %d catalogs invalid", failed, len(loaded.Files))))
				return &ExitError{Code: ExitFailure}
			}

			res, err := app.resolveAll(cfg, loaded.Catalogs(), logger)
			if err != nil {
				fmt.Fprintf(app.stdout, "%s registrations\n    %s\n", ErrorStyle.Render("✗"), formatErrorForDisplay(err, app.verbose))
				if app.verbose {
					renderIssueHelp(app.stderr, err)
				}
				return &ExitError{Code: ExitFailure}
			}

			bindings := len(res.resolver.Bindings())
			lists := len(res.resolver.Lists().Contracts())
			fmt.Fprintf(app.stdout, "%s registrations %s\n", SuccessStyle.Render("✓"),
				SubtitleStyle.Render(fmt.Sprintf("(%d bindings, %d lists)", bindings, lists)))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.environments, "env", "e", nil, "active environment tokens (overrides config)")
	return cmd
}
