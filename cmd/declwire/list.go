// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/declwire/declwire/internal/issue"
	"github.com/declwire/declwire/pkg/typeinfo"
)

var errNotAList = errors.New("no type joined this list contract")

// newListCommand creates the `declwire list` command.
func newListCommand(app *App) *cobra.Command {
	var (
		flags resolveFlags
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "list <contract> [paths...]",
		Short: "Print the members of a list contract",
		Long: `Resolve the catalogs and print the types registered for a list contract,
one per line, in the order the container enumerates them.

With --all, every list contract is printed with its members and all
arguments are treated as catalog paths.`,
		Example: `  declwire list app.Plugin
  declwire list app.Plugin ./catalogs --env Production
  declwire list --all`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := flags.apply(cfg, cmd.Flags().Changed("env")); err != nil {
				return err
			}

			var (
				contract typeinfo.TypeID
				paths    = args
			)
			if !all {
				contract, paths = typeinfo.TypeID(args[0]), args[1:]
			}

			res, err := app.run(cmd.Context(), cfg, paths)
			if err != nil {
				return err
			}
			lists := res.resolver.Lists()

			if all {
				for _, c := range lists.Contracts() {
					members := lists.Query(c)
					names := make([]string, len(members))
					for i, m := range members {
						names[i] = m.String()
					}
					fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render(c.String()), strings.Join(names, ", "))
				}
				return nil
			}

			members := lists.Query(contract)
			if members == nil {
				return failure(issue.NewErrorContext().
					WithOperation("list members").
					WithResource(contract.String()).
					WithSuggestion("Run 'declwire list --all' to see every list contract").
					WithSuggestion("Check the contract id in the types' 'list' intents").
					Wrap(errNotAList).
					BuildError())
			}
			for _, m := range members {
				fmt.Fprintln(app.stdout, m.String())
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.environments, "env", "e", nil, "active environment tokens (overrides config)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "print every list contract")
	return cmd
}
