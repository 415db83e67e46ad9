// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/declwire/declwire/internal/config"
)

// newConfigCommand creates the `declwire config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage declwire configuration",
		Long: `Manage declwire configuration.

Configuration is stored in:
  - Linux: ~/.config/declwire/config.cue
  - macOS: ~/Library/Application Support/declwire/config.cue
  - Windows: %APPDATA%\declwire\config.cue

A config.cue in the current directory is used when the platform directory
has none. Environment variables prefixed with DECLWIRE_ override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var schema bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			if schema {
				fmt.Fprint(app.stdout, config.Schema())
				return nil
			}
			cfg, err := app.loadConfig(cmd)
			if err != nil {
				return err
			}
			source := "(using defaults)"
			if cfg.Source != "" {
				source = cfg.Source
			}
			fmt.Fprintf(app.stdout, "// source: %s\n", source)
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	}
	showCmd.Flags().BoolVar(&schema, "schema", false, "print the #Config schema instead")

	var (
		force bool
		dir   string
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig(dir, force)
			if err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return usage(fmt.Errorf("%w (use --force to overwrite)", err))
				}
				return failure(err)
			}
			fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	initCmd.Flags().StringVar(&dir, "dir", "", "directory to write config.cue into (default is the platform config directory)")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.configPath != "" {
				abs, err := filepath.Abs(app.configPath)
				if err != nil {
					return usage(err)
				}
				fmt.Fprintln(app.stdout, abs)
				return nil
			}
			dir, err := config.ConfigDir()
			if err != nil {
				return failure(err)
			}
			fmt.Fprintln(app.stdout, filepath.Join(dir, config.FileName()))
			return nil
		},
	}

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "List the environment variables that override configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range []string{"environments", "search_paths", "catalog_patterns", "output.format", "ui.verbose", "ui.color"} {
				name := config.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
				fmt.Fprintf(app.stdout, "%s %s\n", CmdStyle.Render(name), SubtitleStyle.Render(key))
			}
			return nil
		},
	}

	cfgCmd.AddCommand(showCmd, initCmd, pathCmd, envCmd)
	return cfgCmd
}
