// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/trmxvibs/EnvSanityCheck/internal/coerce"
	"github.com/trmxvibs/EnvSanityCheck/internal/dotenv"
	"github.com/trmxvibs/EnvSanityCheck/internal/issue"
	"github.com/trmxvibs/EnvSanityCheck/pkg/blueprint"
)

// errBlueprintExists is returned by init when the target exists and --force is not set.
var errBlueprintExists = errors.New("blueprint already exists")

type initFlags struct {
	from  string
	force bool
}

// newInitCommand creates the `envcheck init` command.
func newInitCommand(app *App, gf *globalFlags) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter blueprint",
		Long: `Create a starter blueprint (env.spec, or the path given by --spec).

With --from, every key assigned in the given env file is declared, with its
type inferred from the current value: true/false become boolean, then
integer, float, and string for everything else.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, app, gf)
			if err != nil {
				return err
			}
			return runInit(app, s, flags)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", "", "derive declarations from this env file")
	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing blueprint")

	return cmd
}

func runInit(app *App, s *settings, flags *initFlags) error {
	path := s.cfg.Blueprint

	if _, err := os.Stat(path); err == nil && !flags.force {
		return reportConfigurationError(app.stderr, issue.NewErrorContext().
			WithOperation("create blueprint").
			WithResource(path).
			WithSuggestion("Use --force to overwrite it").
			WithIssue(issue.BlueprintExistsId).
			Wrap(errBlueprintExists).
			BuildError(), s.verbose)
	}

	var decls []blueprint.KeyDeclaration
	if flags.from != "" {
		var err error
		decls, err = declarationsFromEnvFile(flags.from)
		if err != nil {
			return reportConfigurationError(app.stderr, issue.NewErrorContext().
				WithOperation("read env file").
				WithResource(flags.from).
				WithSuggestion("Check the path passed to --from").
				WithIssue(issue.EnvFileUnreadableId).
				Wrap(err).
				BuildError(), s.verbose)
		}
	}

	if err := os.WriteFile(path, blueprint.Generate(decls), 0o644); err != nil {
		return reportConfigurationError(app.stderr, issue.WrapWithContext(err, "write blueprint", path), s.verbose)
	}

	fmt.Fprintf(app.stdout, "%s Created blueprint at %s (%d key(s))\n", SuccessStyle.Render("✓"), path, len(decls))
	return nil
}

// declarationsFromEnvFile declares each key of the env file once, in order of
// first assignment, typed by its last assigned value.
func declarationsFromEnvFile(path string) ([]blueprint.KeyDeclaration, error) {
	f, err := dotenv.Load(path)
	if err != nil {
		return nil, err
	}
	if !f.Exists {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	for _, d := range f.Diagnostics {
		slog.Warn("skipped malformed env file line", "file", d.Filename, "line", d.Line, "error", d.Err)
	}

	values := f.Map()
	seen := make(map[string]bool, len(values))
	decls := make([]blueprint.KeyDeclaration, 0, len(values))
	for _, e := range f.Entries {
		if seen[e.Key] {
			continue
		}
		seen[e.Key] = true

		name := blueprint.KeyName(e.Key)
		if err := name.Validate(); err != nil {
			slog.Warn("skipped key that is not a valid blueprint name", "key", e.Key, "line", e.Line)
			continue
		}
		decls = append(decls, blueprint.KeyDeclaration{Name: name, Type: coerce.Infer(values[e.Key])})
	}
	return decls, nil
}
