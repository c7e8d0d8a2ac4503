// SPDX-License-Identifier: MPL-2.0

package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trmxvibs/EnvSanityCheck/internal/dotenv"
	"github.com/trmxvibs/EnvSanityCheck/internal/issue"
	"github.com/trmxvibs/EnvSanityCheck/internal/resolve"
	"github.com/trmxvibs/EnvSanityCheck/internal/validate"
	"github.com/trmxvibs/EnvSanityCheck/pkg/blueprint"
)

type (
	// Request describes the inputs of a run.
	Request struct {
		// BlueprintPath is the blueprint file; defaults to env.spec.
		BlueprintPath string
		// EnvFilePath is the local configuration file; defaults to .env.
		EnvFilePath string
		// SkipEnvFile checks the process environment only.
		SkipEnvFile bool
		// Environ is the process environment in "KEY=value" form, usually os.Environ().
		Environ []string
	}

	// Report is the outcome of a successful run.
	Report struct {
		Blueprint *blueprint.Blueprint
		// EnvFile is nil when the local file was skipped.
		EnvFile *dotenv.File
		Result  validate.Result
	}
)

// Run executes one validation pass. It returns an error only when the inputs
// could not be read; failing keys are reported through Report.Result.
func Run(ctx context.Context, req Request) (*Report, error) {
	if req.BlueprintPath == "" {
		req.BlueprintPath = blueprint.DefaultFileName
	}
	if req.EnvFilePath == "" {
		req.EnvFilePath = dotenv.DefaultFileName
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check canceled: %w", err)
	}

	bp, err := blueprint.Load(req.BlueprintPath)
	if err != nil {
		return nil, blueprintError(req.BlueprintPath, err)
	}
	slog.Debug("loaded blueprint", "path", req.BlueprintPath, "keys", bp.Len())

	var (
		envFile *dotenv.File
		local   map[string]string
	)
	if !req.SkipEnvFile {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("check canceled: %w", err)
		}

		envFile, err = dotenv.Load(req.EnvFilePath)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("read env file").
				WithResource(req.EnvFilePath).
				WithSuggestion("Check that the file is readable").
				WithSuggestion("Use --no-env-file to check the process environment only").
				WithIssue(issue.EnvFileUnreadableId).
				Wrap(err).
				BuildError()
		}

		if !envFile.Exists {
			slog.Debug("env file not found, using process environment only", "path", req.EnvFilePath)
		}
		for _, d := range envFile.Diagnostics {
			slog.Warn("skipped malformed env file line", "file", d.Filename, "line", d.Line, "error", d.Err)
		}
		local = envFile.Map()
	}

	res := resolve.Merge(local, resolve.Snapshot(req.Environ))
	result := validate.Run(bp.Declarations(), res)
	slog.Debug("validation finished",
		"required", result.RequiredCount,
		"found", result.FoundCount,
		"errors", result.ErrorCount())

	return &Report{Blueprint: bp, EnvFile: envFile, Result: result}, nil
}

func blueprintError(path string, err error) error {
	if errors.Is(err, blueprint.ErrBlueprintNotFound) {
		return issue.NewErrorContext().
			WithOperation("load blueprint").
			WithResource(path).
			WithSuggestion("Run 'envcheck init' to create a starter blueprint").
			WithSuggestion("Use --spec to point to a blueprint elsewhere").
			WithIssue(issue.BlueprintNotFoundId).
			Wrap(err).
			BuildError()
	}

	ctx := issue.NewErrorContext().
		WithOperation("parse blueprint").
		WithResource(path).
		WithIssue(issue.BlueprintParseErrorId).
		Wrap(err)

	switch {
	case errors.Is(err, blueprint.ErrUnknownType):
		ctx.WithSuggestion("Use one of the supported types: string, integer, float, boolean")
	case errors.Is(err, blueprint.ErrDuplicateKey):
		ctx.WithSuggestion("Remove the repeated declaration; each key may be declared once")
	case errors.Is(err, blueprint.ErrInvalidKeyName):
		ctx.WithSuggestion("Key names must match [A-Za-z_][A-Za-z0-9_]*")
	default:
		ctx.WithSuggestion("Each line must be 'KEY' or 'KEY: type', optionally followed by '# comment'")
	}
	return ctx.BuildError()
}
