// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trmxvibs/EnvSanityCheck/internal/config"
	"github.com/trmxvibs/EnvSanityCheck/internal/issue"
)

// newConfigCommand creates the `envcheck config` command tree.
func newConfigCommand(app *App, gf *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage envcheck configuration",
		Long: `Manage envcheck configuration.

envcheck reads envcheck.cue from the current directory, or else from:
  - Linux: ~/.config/envcheck/envcheck.cue
  - macOS: ~/Library/Application Support/envcheck/envcheck.cue
  - Windows: %APPDATA%\envcheck\envcheck.cue

ENVCHECK_* environment variables (ENVCHECK_FORMAT, ENVCHECK_UI_COLOR, ...)
override file values; command-line flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show the effective configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, app, gf)
			if err != nil {
				return err
			}
			showConfig(app, s)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:           "dump",
		Short:         "Output the effective configuration as CUE",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, app, gf)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:           "path",
		Short:         "Show where configuration is read from",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath(app, gf)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:           "init",
		Short:         "Create a default configuration file in the user config directory",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			path, created, err := config.CreateDefaultConfig("", force)
			if err != nil {
				return reportConfigurationError(app.stderr, issue.WrapWithContext(err, "create configuration", ""), gf.verbose)
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s (use --force to overwrite)\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(app *App, s *settings) {
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if s.cfgPath != "" {
		fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Config file"), s.cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("blueprint"), SuccessStyle.Render(s.cfg.Blueprint))
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("env_file"), SuccessStyle.Render(s.cfg.EnvFile))
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("format"), SuccessStyle.Render(s.cfg.Format.String()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", CmdStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", s.cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color: %s\n", SuccessStyle.Render(s.cfg.UI.Color.String()))
}

func showConfigPath(app *App, gf *globalFlags) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return reportConfigurationError(app.stderr, issue.WrapWithContext(err, "locate config directory", ""), gf.verbose)
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "User config file: %s\n", filepath.Join(cfgDir, config.FileName()))
	fmt.Fprintf(app.stdout, "Project config file: %s\n", config.FileName())

	active, err := config.Locate(config.LoadOptions{ConfigFilePath: gf.configFile})
	switch {
	case err != nil:
		fmt.Fprintf(app.stdout, "Active: %s\n", WarningStyle.Render(err.Error()))
	case active == "":
		fmt.Fprintf(app.stdout, "Active: %s\n", SubtitleStyle.Render("(none, using defaults)"))
	default:
		fmt.Fprintf(app.stdout, "Active: %s\n", active)
	}
	return nil
}
