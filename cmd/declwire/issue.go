// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/declwire/declwire/internal/issue"
)

// newIssueCommand creates the `declwire issue` command.
func newIssueCommand(app *App) *cobra.Command {
	var (
		raw   bool
		style string
	)

	cmd := &cobra.Command{
		Use:   "issue [slug]",
		Short: "Show help pages for common problems",
		Long: `Without arguments, list the available help pages. With a slug, render
that page. Errors printed with --verbose include the matching page.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, page := range issue.Values() {
					fmt.Fprintf(app.stdout, "%-28s %s\n", page.Slug(), page.Title())
				}
				return nil
			}

			page, ok := issue.Lookup(args[0])
			if !ok {
				return usage(fmt.Errorf("unknown issue %q (run 'declwire issue' for the list)", args[0]))
			}
			if raw {
				fmt.Fprint(app.stdout, page.MarkdownMsg())
				return nil
			}
			rendered, err := page.Render(style)
			if err != nil {
				return failure(err)
			}
			fmt.Fprint(app.stdout, rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the Markdown source")
	cmd.Flags().StringVar(&style, "style", "dark", "glamour style: dark, light, notty or a JSON style path")
	return cmd
}
