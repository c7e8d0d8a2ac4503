// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trmxvibs/EnvSanityCheck/internal/app/check"
	"github.com/trmxvibs/EnvSanityCheck/internal/config"
	"github.com/trmxvibs/EnvSanityCheck/internal/issue"
	"github.com/trmxvibs/EnvSanityCheck/internal/logging"
	"github.com/trmxvibs/EnvSanityCheck/internal/report"
	"github.com/trmxvibs/EnvSanityCheck/internal/watch"
	"github.com/trmxvibs/EnvSanityCheck/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// errValidationFailed marks a run whose report was printed but did not pass.
var errValidationFailed = errors.New("validation failed")

type (
	// globalFlags are the persistent flags shared by every command.
	globalFlags struct {
		spec       string
		envFile    string
		configFile string
		verbose    bool
	}

	// checkFlags are the flags of the root check command.
	checkFlags struct {
		format    string
		noEnvFile bool
		watch     bool
	}

	// settings is the effective configuration after flags are applied.
	settings struct {
		cfg     *config.Config
		cfgPath string
		verbose bool
	}
)

// NewRootCommand builds the envcheck command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	gf := &globalFlags{}
	cf := &checkFlags{}

	rootCmd := &cobra.Command{
		Use:   "envcheck",
		Short: "Validate required configuration keys before a program starts",
		Long: TitleStyle.Render("envcheck") + SubtitleStyle.Render(" - validate required configuration keys") + `

envcheck reads a blueprint (env.spec) that declares the keys a project needs,
resolves each key from the local .env file and the process environment (the
process environment wins), and checks that every key is present, non-blank
and of its declared type.

` + SubtitleStyle.Render("Examples:") + `
  envcheck                       Check env.spec against .env and the environment
  envcheck --format json         Print a machine-readable report
  envcheck --no-env-file         Check the process environment only
  envcheck --watch               Re-check whenever env.spec or .env changes
  envcheck init --from .env      Derive a blueprint from an existing env file`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, app, gf, cf)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&gf.spec, "spec", "", "blueprint file (default \"env.spec\")")
	pf.StringVar(&gf.envFile, "env-file", "", "local configuration file (default \".env\")")
	pf.StringVar(&gf.configFile, "config", "", "config file (default is ./envcheck.cue, then the user config directory)")
	pf.BoolVarP(&gf.verbose, "verbose", "v", false, "enable debug logging and detailed error guidance")

	rootCmd.Flags().StringVarP(&cf.format, "format", "f", "", "report format: text, json, yaml or toml (default \"text\")")
	rootCmd.Flags().BoolVar(&cf.noEnvFile, "no-env-file", false, "ignore the local configuration file")
	rootCmd.Flags().BoolVarP(&cf.watch, "watch", "w", false, "re-run the check whenever the blueprint or env file changes")

	rootCmd.AddCommand(newInitCommand(app, gf))
	rootCmd.AddCommand(newConfigCommand(app, gf))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Main runs envcheck with the process arguments and returns the exit status.
func Main() int {
	app := NewApp(Dependencies{})

	err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			var exitErr *ExitError
			if errors.As(err, &exitErr) && exitErr.Silent {
				return
			}
			fang.DefaultErrorHandler(w, styles, err)
		}),
	)
	if err == nil {
		return int(types.ExitOK)
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code)
	}
	return int(types.ExitFailure)
}

// Execute runs the root command and exits the process with its status.
// This is called by main.main().
func Execute() {
	os.Exit(Main())
}

// loadSettings loads the configuration, applies the persistent flags and
// installs the logger. Errors are already rendered to stderr.
func loadSettings(cmd *cobra.Command, app *App, gf *globalFlags) (*settings, error) {
	logging.Setup(app.stderr, logging.Options{Verbose: gf.verbose})

	cfg, cfgPath, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: gf.configFile})
	if err != nil {
		return nil, reportConfigurationError(app.stderr, err, gf.verbose)
	}

	flags := cmd.Flags()
	if flags.Changed("spec") {
		cfg.Blueprint = gf.spec
	}
	if flags.Changed("env-file") {
		cfg.EnvFile = gf.envFile
	}

	s := &settings{cfg: cfg, cfgPath: cfgPath, verbose: gf.verbose || cfg.UI.Verbose}
	if s.verbose && !gf.verbose {
		logging.Setup(app.stderr, logging.Options{Verbose: true})
	}
	return s, nil
}

func runCheck(cmd *cobra.Command, app *App, gf *globalFlags, cf *checkFlags) error {
	s, err := loadSettings(cmd, app, gf)
	if err != nil {
		return err
	}

	format := s.cfg.Format
	if cmd.Flags().Changed("format") {
		parsed, parseErr := report.ParseFormat(cf.format)
		if parseErr != nil {
			return reportConfigurationError(app.stderr, issue.NewErrorContext().
				WithOperation("select report format").
				WithSuggestion("Use --format text, json, yaml or toml").
				WithIssue(issue.InvalidFormatId).
				Wrap(parseErr).
				BuildError(), s.verbose)
		}
		format = parsed
	}

	req := check.Request{
		BlueprintPath: s.cfg.Blueprint,
		EnvFilePath:   s.cfg.EnvFile,
		SkipEnvFile:   cf.noEnvFile,
	}

	if cf.watch {
		return watchCheck(cmd.Context(), app, s, req, format)
	}
	return checkOnce(cmd.Context(), app, s, req, format)
}

// checkOnce runs one validation pass and renders its report to stdout.
func checkOnce(ctx context.Context, app *App, s *settings, req check.Request, format report.Format) error {
	req.Environ = app.Environ()

	rep, err := app.Checker.Run(ctx, req)
	if err != nil {
		return reportConfigurationError(app.stderr, err, s.verbose)
	}

	opts := report.Options{
		Styled:    !format.IsStructured() && configureColor(s.cfg.UI.Color, app.stdout),
		Blueprint: req.BlueprintPath,
	}
	if !req.SkipEnvFile {
		opts.EnvFile = req.EnvFilePath
		if rep.EnvFile != nil && !rep.EnvFile.Exists {
			opts.EnvFile += " (not found)"
		}
	}

	if err := report.Render(app.stdout, rep.Result, format, opts); err != nil {
		return &ExitError{Code: types.ExitFailure, Err: err}
	}

	if code := types.ExitCodeFor(rep.Result.AllChecksPassed); !code.IsSuccess() {
		return &ExitError{Code: code, Err: errValidationFailed, Silent: true}
	}
	return nil
}

// watchCheck runs checkOnce, then again whenever the blueprint or the env
// file changes, until ctx is cancelled. The exit status is that of the last run.
func watchCheck(ctx context.Context, app *App, s *settings, req check.Request, format report.Format) error {
	files := []string{req.BlueprintPath}
	if !req.SkipEnvFile {
		files = append(files, req.EnvFilePath)
	}

	var mu sync.Mutex
	last := checkOnce(ctx, app, s, req, format)

	w, err := watch.New(watch.Config{
		Files:       files,
		ClearScreen: !format.IsStructured() && isTerminal(app.stdout),
		Stdout:      app.stdout,
		OnChange: func(ctx context.Context, changed []string) error {
			slog.Info("re-running check", "changed", changed)
			result := checkOnce(ctx, app, s, req, format)
			mu.Lock()
			last = result
			mu.Unlock()
			return nil
		},
	})
	if err != nil {
		return reportConfigurationError(app.stderr, issue.NewErrorContext().
			WithOperation("watch files").
			WithSuggestion("Make sure the directories of the blueprint and env file exist").
			Wrap(err).
			BuildError(), s.verbose)
	}

	fmt.Fprintln(app.stderr, SubtitleStyle.Render("watching "+strings.Join(files, ", ")+" (press Ctrl+C to stop)"))
	if err := w.Run(ctx); err != nil {
		return &ExitError{Code: types.ExitFailure, Err: err}
	}

	mu.Lock()
	defer mu.Unlock()
	return last
}

// reportConfigurationError prints err as a configuration error block on w
// and returns the silent exit error that carries it.
func reportConfigurationError(w io.Writer, err error, verbose bool) error {
	fmt.Fprintln(w, ErrorStyle.Render("✗ configuration error"))
	fmt.Fprintln(w, formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if verbose && errors.As(err, &ae) {
		if entry := ae.CatalogEntry(); entry != nil {
			style := "notty"
			if isTerminal(w) {
				style = "dark"
			}
			if rendered, renderErr := entry.Render(style); renderErr == nil {
				fmt.Fprint(w, rendered)
			}
		}
	}

	return &ExitError{Code: types.ExitFailure, Err: err, Silent: true}
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

// configureColor reports whether output to w should be colored. Forcing
// color also lifts the lipgloss profile, which otherwise drops to plain ASCII
// when w is not a terminal.
func configureColor(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		lipgloss.SetColorProfile(termenv.ANSI256)
		return true
	case config.ColorNever:
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && isTerminal(w)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
