// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/trmxvibs/EnvSanityCheck/internal/app/check"
	"github.com/trmxvibs/EnvSanityCheck/internal/config"
	"github.com/trmxvibs/EnvSanityCheck/internal/issue"
	"github.com/trmxvibs/EnvSanityCheck/internal/report"
	"github.com/trmxvibs/EnvSanityCheck/internal/testutil"
	"github.com/trmxvibs/EnvSanityCheck/pkg/types"
)

// Tests in this file install the global slog logger through the commands
// they run, so they do not call t.Parallel.

type staticConfig struct {
	cfg  *config.Config
	path string
	err  error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	cfg := *s.cfg
	return &cfg, s.path, nil
}

type recordingChecker struct {
	req check.Request
	rep *check.Report
	err error
}

func (r *recordingChecker) Run(_ context.Context, req check.Request) (*check.Report, error) {
	r.req = req
	return r.rep, r.err
}

type harness struct {
	dir    string
	stdout bytes.Buffer
	stderr bytes.Buffer
	deps   Dependencies
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()

	h := &harness{dir: t.TempDir()}
	testutil.WriteFiles(t, h.dir, files)

	cfg := config.DefaultConfig()
	cfg.Blueprint = filepath.Join(h.dir, "env.spec")
	cfg.EnvFile = filepath.Join(h.dir, ".env")
	cfg.UI.Color = config.ColorNever

	h.deps = Dependencies{
		Config:  staticConfig{cfg: cfg},
		Environ: func() []string { return nil },
		Stdout:  &h.stdout,
		Stderr:  &h.stderr,
	}
	return h
}

func (h *harness) run(args ...string) error {
	root := NewRootCommand(NewApp(h.deps))
	root.SetArgs(args)
	root.SetOut(&h.stdout)
	root.SetErr(&h.stderr)
	return root.ExecuteContext(context.Background())
}

func exitCode(t *testing.T, err error) types.ExitCode {
	t.Helper()

	if err == nil {
		return types.ExitOK
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error is %T (%v), want *ExitError", err, err)
	}
	return exitErr.Code
}

func TestRoot_Success(t *testing.T) {
	h := newHarness(t, map[string]string{
		"env.spec": "DATABASE_URL: string\nSERVICE_PORT: integer\n",
		".env":     "SERVICE_PORT=5432\n",
	})
	h.deps.Environ = func() []string { return []string{"DATABASE_URL=postgres://x"} }

	if code := exitCode(t, h.run()); code != types.ExitOK {
		t.Fatalf("exit code = %d, stderr:\n%s", code, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "SUCCESS: all 2 required key(s)") {
		t.Errorf("stdout:\n%s", h.stdout.String())
	}
}

func TestRoot_FailureIsSilentExitOne(t *testing.T) {
	h := newHarness(t, map[string]string{"env.spec": "A\n"})

	err := h.run("--format", "json")
	if code := exitCode(t, err); code != types.ExitFailure {
		t.Fatalf("exit code = %d, want 1", code)
	}
	var exitErr *ExitError
	errors.As(err, &exitErr)
	if !exitErr.Silent || !errors.Is(err, errValidationFailed) {
		t.Errorf("ExitError = %+v, want silent validation failure", exitErr)
	}

	doc, parseErr := report.Parse(h.stdout.Bytes(), report.FormatJSON)
	if parseErr != nil {
		t.Fatalf("stdout is not a valid JSON report: %v\n%s", parseErr, h.stdout.String())
	}
	if doc.Status != report.StatusFailure || len(doc.Missing) != 1 || doc.Missing[0].Key != "A" {
		t.Errorf("document = %+v", doc)
	}
	if strings.Contains(h.stderr.String(), "configuration error") {
		t.Errorf("validation failure rendered as configuration error:\n%s", h.stderr.String())
	}
}

func TestRoot_FlagsOverrideConfig(t *testing.T) {
	h := newHarness(t, nil)
	checker := &recordingChecker{rep: &check.Report{}}
	checker.rep.Result.AllChecksPassed = true
	h.deps.Checker = checker
	h.deps.Environ = func() []string { return []string{"X=1"} }

	if err := h.run("--spec", "custom.spec", "--env-file", "custom.env", "--no-env-file", "--format", "yaml"); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	want := check.Request{
		BlueprintPath: "custom.spec",
		EnvFilePath:   "custom.env",
		SkipEnvFile:   true,
		Environ:       []string{"X=1"},
	}
	if checker.req.BlueprintPath != want.BlueprintPath || checker.req.EnvFilePath != want.EnvFilePath ||
		checker.req.SkipEnvFile != want.SkipEnvFile || len(checker.req.Environ) != 1 {
		t.Errorf("request = %+v, want %+v", checker.req, want)
	}
	if !strings.Contains(h.stdout.String(), "status: SUCCESS") {
		t.Errorf("expected YAML output, got:\n%s", h.stdout.String())
	}
}

func TestRoot_ConfigurationErrorBlock(t *testing.T) {
	h := newHarness(t, nil)
	h.deps.Checker = &recordingChecker{err: issue.NewErrorContext().
		WithOperation("load blueprint").
		WithResource("env.spec").
		WithSuggestion("Run 'envcheck init' to create a starter blueprint").
		WithIssue(issue.BlueprintNotFoundId).
		BuildError()}

	err := h.run()
	if code := exitCode(t, err); code != types.ExitFailure {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("configuration errors must not print a report, got:\n%s", h.stdout.String())
	}
	stderr := h.stderr.String()
	for _, want := range []string{"configuration error", "failed to load blueprint: env.spec", "• Run 'envcheck init'"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	if strings.Contains(stderr, "No blueprint found") {
		t.Error("catalog entry should only be rendered in verbose mode")
	}
}

func TestRoot_ConfigLoadError(t *testing.T) {
	h := newHarness(t, nil)
	h.deps.Config = staticConfig{err: issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(errors.New("format: 3 errors in empty disjunction")).
		BuildError()}

	if code := exitCode(t, h.run()); code != types.ExitFailure {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "failed to load configuration") {
		t.Errorf("stderr:\n%s", h.stderr.String())
	}
}

func TestRoot_InvalidFormatFlag(t *testing.T) {
	h := newHarness(t, map[string]string{"env.spec": "A\n"})

	if code := exitCode(t, h.run("--format", "xml")); code != types.ExitFailure {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), `invalid report format "xml"`) {
		t.Errorf("stderr:\n%s", h.stderr.String())
	}
}

func TestInit_FromEnvFile(t *testing.T) {
	h := newHarness(t, map[string]string{
		"source.env": "export NAME=demo\nPORT=8080\nPORT=9090\nRATIO=.5\nFLAG=FALSE\nBAD-KEY=1\nCOUNT=1.5e3\n",
	})

	if err := h.run("init", "--from", filepath.Join(h.dir, "source.env")); err != nil {
		t.Fatalf("init error: %v\n%s", err, h.stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(h.dir, "env.spec"))
	if err != nil {
		t.Fatalf("blueprint not written: %v", err)
	}
	got := string(data)
	for _, want := range []string{"NAME: string\n", "PORT: integer\n", "RATIO: float\n", "FLAG: boolean\n", "COUNT: float\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("blueprint missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "BAD-KEY") {
		t.Errorf("invalid key names must be skipped:\n%s", got)
	}
	if strings.Count(got, "PORT:") != 1 {
		t.Errorf("repeated keys must be declared once:\n%s", got)
	}
	if !strings.Contains(h.stdout.String(), "(5 key(s))") {
		t.Errorf("stdout:\n%s", h.stdout.String())
	}
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	h := newHarness(t, map[string]string{"env.spec": "KEEP\n"})

	err := h.run("init")
	if code := exitCode(t, err); code != types.ExitFailure {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !errors.Is(err, errBlueprintExists) {
		t.Errorf("error = %v, want errBlueprintExists", err)
	}
	data, _ := os.ReadFile(filepath.Join(h.dir, "env.spec"))
	if string(data) != "KEEP\n" {
		t.Error("existing blueprint was modified")
	}
}

func TestConfigShowAndDump(t *testing.T) {
	h := newHarness(t, nil)
	h.deps.Config = staticConfig{cfg: &config.Config{
		Blueprint: "app.spec",
		EnvFile:   ".env.local",
		Format:    report.FormatTOML,
		UI:        config.UIConfig{Color: config.ColorNever},
	}, path: "/etc/envcheck.cue"}

	if err := h.run("config", "show"); err != nil {
		t.Fatalf("config show error: %v", err)
	}
	out := h.stdout.String()
	for _, want := range []string{"Config file: /etc/envcheck.cue", "blueprint: app.spec", "env_file: .env.local", "format: toml", "color: never"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}

	h.stdout.Reset()
	if err := h.run("config", "dump"); err != nil {
		t.Fatalf("config dump error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), `blueprint: "app.spec"`) {
		t.Errorf("config dump:\n%s", h.stdout.String())
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	plain := errors.New("plain failure")
	if got := formatErrorForDisplay(plain, true); got != "plain failure" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}

	ae := issue.NewErrorContext().WithOperation("read env file").WithSuggestion("check it").Wrap(plain).BuildError()
	got := formatErrorForDisplay(ae, true)
	if !strings.Contains(got, "• check it") || !strings.Contains(got, "Error chain:") {
		t.Errorf("formatErrorForDisplay(actionable) = %q", got)
	}
}

type countingChecker struct {
	runs chan struct{}
}

func (c countingChecker) Run(ctx context.Context, req check.Request) (*check.Report, error) {
	defer func() { c.runs <- struct{}{} }()
	return check.Run(ctx, req)
}

func TestRoot_WatchRerunsOnChange(t *testing.T) {
	h := newHarness(t, map[string]string{
		"env.spec": "A: integer\n",
		".env":     "A=one\n",
	})
	checker := countingChecker{runs: make(chan struct{}, 64)}
	h.deps.Checker = checker

	root := NewRootCommand(NewApp(h.deps))
	root.SetArgs([]string{"--watch"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- root.ExecuteContext(ctx) }()

	select {
	case <-checker.runs:
	case <-time.After(5 * time.Second):
		t.Fatal("initial check did not run")
	}

	// The watcher registers after the first run; keep touching the file
	// until a re-run is observed.
	envPath := filepath.Join(h.dir, ".env")
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
rerun:
	for {
		select {
		case <-checker.runs:
			break rerun
		case <-ticker.C:
			if err := os.WriteFile(envPath, []byte("A=1\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("check was not re-run after the env file changed")
		}
	}

	// Let any debounced run triggered by the last write settle.
	time.Sleep(500 * time.Millisecond)
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("watch exited with %v, want success of the last run", err)
	}

	out := h.stdout.String()
	if !strings.Contains(out, "TYPE MISMATCHES (1)") || !strings.Contains(out, "SUCCESS") {
		t.Errorf("expected a failing then a passing report, got:\n%s", out)
	}
	if !strings.Contains(h.stderr.String(), "watching") {
		t.Errorf("stderr:\n%s", h.stderr.String())
	}
}
