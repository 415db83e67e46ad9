// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/declwire/declwire/internal/config"
	"github.com/declwire/declwire/internal/issue"
	"github.com/declwire/declwire/internal/report"
	"github.com/declwire/declwire/internal/watch"
)

// newWatchCommand creates the `declwire watch` command.
func newWatchCommand(app *App) *cobra.Command {
	var (
		flags    resolveFlags
		format   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-resolve whenever a catalog changes",
		Long: `Resolve the catalogs once, then watch them and run a fresh resolution
after every change. Bursts of changes are debounced into one run. A failing
run is reported and watching continues.

Without paths, the current directory and the configured search paths are
watched. Press Ctrl+C to stop.`,
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

			ctx := cmd.Context()
			app.runOnce(ctx, cfg, args)

			w, err := watch.New(watch.Config{
				Roots:    watchRoots(cfg, args),
				Patterns: cfg.Patterns(),
				Debounce: debounce,
				Logger:   app.logger(),
				OnChange: func(ctx context.Context, changed []string) error {
					fmt.Fprintf(app.stderr, "%s %d file(s) changed\n", SubtitleStyle.Render(time.Now().Format(time.TimeOnly)), len(changed))
					app.runOnce(ctx, cfg, args)
					return nil
				},
			})
			if err != nil {
				return failure(issue.NewErrorContext().
					WithOperation("watch catalogs").
					WithIssue(issue.WatchFailedId).
					WithSuggestion("Check that every watched path exists").
					WithSuggestion("On Linux, raise fs.inotify.max_user_watches for large trees").
					Wrap(err).
					BuildError())
			}

			fmt.Fprintln(app.stderr, SubtitleStyle.Render("watching for catalog changes, press Ctrl+C to stop"))
			if err := w.Run(ctx); err != nil {
				return failure(issue.NewErrorContext().
					WithOperation("watch catalogs").
					WithIssue(issue.WatchFailedId).
					Wrap(err).
					BuildError())
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.environments, "env", "e", nil, "active environment tokens (overrides config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, json, yaml or toml (default from config)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a change triggers a run")
	return cmd
}

// runOnce resolves and prints the plan, reporting failures without
// returning them.
func (a *App) runOnce(ctx context.Context, cfg *config.Config, paths []string) {
	res, err := a.run(ctx, cfg, paths)
	if err == nil {
		var rep *report.Report
		rep, err = report.Build(uuid.New(), res.resolver, res.catalogs)
		if err == nil {
			err = report.Encode(a.stdout, rep, cfg.Output.Format, cfg.UI.Color)
		}
	}
	if err != nil {
		fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))
	}
}

// watchRoots returns the explicit paths, or the working directory plus every
// configured search path that exists.
func watchRoots(cfg *config.Config, paths []string) []string {
	if len(paths) > 0 {
		return paths
	}
	roots := []string{"."}
	for _, p := range cfg.SearchPaths {
		if _, err := os.Stat(p); err == nil {
			roots = append(roots, p)
		}
	}
	return roots
}
