// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/trmxvibs/EnvSanityCheck/internal/app/check"
	"github.com/trmxvibs/EnvSanityCheck/internal/config"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and delegates
	// through its service interfaces.
	App struct {
		Config  ConfigProvider
		Checker CheckService
		// Environ returns the process environment snapshot in "KEY=value" form.
		Environ func() []string
		stdout  io.Writer
		stderr  io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  ConfigProvider
		Checker CheckService
		Environ func() []string
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// CheckService runs one validation pass. Implementations must not write
	// to stdout/stderr; the CLI layer renders the report.
	CheckService interface {
		Run(ctx context.Context, req check.Request) (*check.Report, error)
	}

	checkService struct{}
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
	if deps.Checker == nil {
		deps.Checker = checkService{}
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}

	return &App{
		Config:  deps.Config,
		Checker: deps.Checker,
		Environ: deps.Environ,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}
}

func (checkService) Run(ctx context.Context, req check.Request) (*check.Report, error) {
	return check.Run(ctx, req)
}
