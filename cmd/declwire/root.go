// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/declwire/declwire/internal/config"
	"github.com/declwire/declwire/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. All command handlers
	// receive an App and write through its writers.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		// Persistent flag values.
		verbose    bool
		configPath string
		color      string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// NewRootCommand builds the declwire command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "declwire",
		Short: "Resolve declarative service registrations",
		Long: TitleStyle.Render("declwire") + SubtitleStyle.Render(" - Resolve declarative service registrations") + `

declwire reads type catalogs that declare which implementations register
for which contracts, resolves conflicts along the class hierarchy and
explicit overrides, and prints the resulting binding plan together with
the list contracts and their members.

Catalogs are CUE or YAML files matching *.catalog.cue, *.catalog.yaml or
*.catalog.yml, found in the given paths, the current directory or the
configured search paths.

` + SubtitleStyle.Render("Examples:") + `
  declwire resolve                     Resolve catalogs below the current directory
  declwire resolve ./catalogs -e Prod  Resolve with the Prod environment active
  declwire list app.Plugin             Show the members of a list contract
  declwire validate                    Check every catalog
  declwire watch                       Re-resolve whenever a catalog changes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.color == "" {
				return nil
			}
			mode := config.ColorMode(app.color)
			if ok, errs := mode.IsValid(); !ok {
				return usage(errs[0])
			}
			applyColorMode(mode)
			return nil
		},
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/declwire/config.cue)")
	root.PersistentFlags().StringVar(&app.color, "color", "", "color output: auto, always or never (default from config)")

	root.AddCommand(
		newResolveCommand(app),
		newListCommand(app),
		newValidateCommand(app),
		newWatchCommand(app),
		newConfigCommand(app),
		newIssueCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code carried by the returned
// ExitError. Errors without one are usage errors from flag or argument
// parsing.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.renderError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitUsage)
	}
}

// loadConfig loads the configuration honoring --config. The verbose and
// color settings of the file apply unless the flags were given.
func (a *App) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := a.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		return nil, usage(err)
	}
	if !cmd.Flags().Changed("verbose") && cfg.UI.Verbose {
		a.verbose = true
	}
	if a.color == "" {
		applyColorMode(cfg.UI.Color)
	} else {
		cfg.UI.Color = config.ColorMode(a.color)
	}
	return cfg, nil
}

// logger returns the stderr logger; debug lines only show with --verbose.
func (a *App) logger() *log.Logger {
	level := log.WarnLevel
	if a.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: "declwire",
		Level:  level,
	})
}

// renderError is the fang error handler. ExitErrors without a cause were
// already reported by the command.
func (a *App) renderError(w io.Writer, _ fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))
	if a.verbose {
		renderIssueHelp(w, err)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderIssueHelp prints the help page linked from an ActionableError.
func renderIssueHelp(w io.Writer, err error) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue == 0 {
		return
	}
	page := issue.Get(ae.Issue)
	if page == nil {
		return
	}
	style := "dark"
	if lipgloss.ColorProfile() == termenv.Ascii {
		style = "notty"
	}
	rendered, renderErr := page.Render(style)
	if renderErr != nil {
		fmt.Fprintln(w, WarningStyle.Render("Warning: ")+"failed to render help page: "+renderErr.Error())
		return
	}
	fmt.Fprint(w, rendered)
}
