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

	"github.com/declwire/declwire/internal/config"
	"github.com/declwire/declwire/internal/issue"
	"github.com/declwire/declwire/internal/resolver"
	"github.com/declwire/declwire/pkg/catalog"
)

type stubConfig struct {
	cfg *config.Config
	err error
}

func (s stubConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

func TestRegistrationError_Issues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind resolver.ErrorKind
		want issue.Id
	}{
		{resolver.KindContractMismatch, issue.ContractMismatchId},
		{resolver.KindDuplicateClaim, issue.DuplicateClaimId},
		{resolver.KindConflictingRegistration, issue.ConflictingRegistrationId},
		{resolver.KindInvalidLifetimeIntent, issue.InvalidLifetimeId},
		{resolver.KindMultipleSingleValuedAnnotations, issue.MultipleListMembershipsId},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()

			regErr := &resolver.RegistrationError{Kind: tt.kind, Implementation: "Impl", Contract: "C"}
			err := registrationError(regErr, &catalog.Catalog{Name: "c", FilePath: "c.catalog.cue"})

			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("registrationError() = %T, want *issue.ActionableError", err)
			}
			if ae.Issue != tt.want {
				t.Errorf("Issue = %d, want %d", ae.Issue, tt.want)
			}
			if len(ae.Suggestions) == 0 {
				t.Error("expected at least one suggestion")
			}
			if !errors.As(err, &regErr) {
				t.Error("registration error lost from the chain")
			}
			if ae.Resource != "c.catalog.cue" {
				t.Errorf("Resource = %q, want %q", ae.Resource, "c.catalog.cue")
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := failure(cause)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != ExitFailure {
		t.Fatalf("failure() = %v, want ExitError with code %d", err, ExitFailure)
	}
	if !errors.Is(err, cause) {
		t.Error("ExitError should unwrap to its cause")
	}
	if got := (&ExitError{Code: ExitUsage}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	ae := issue.NewErrorContext().
		WithOperation("load catalogs").
		WithSuggestion("try again").
		Wrap(errors.New("bad")).
		BuildError()

	got := formatErrorForDisplay(usage(ae), false)
	if !strings.Contains(got, "failed to load catalogs: bad") || !strings.Contains(got, "• try again") {
		t.Errorf("formatErrorForDisplay() = %q", got)
	}
	if strings.Contains(got, "Error chain") {
		t.Error("non-verbose output should not include the error chain")
	}
	if got := formatErrorForDisplay(errors.New("plain"), true); got != "plain" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}
}

func TestResolveFlags_Apply(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Environments = []string{"Production"}

	f := resolveFlags{environments: []string{"Test"}}
	if err := f.apply(cfg, false); err != nil {
		t.Fatalf("apply(unchanged) error = %v", err)
	}
	if cfg.Environments[0] != "Production" {
		t.Errorf("unchanged flag overrode config: %v", cfg.Environments)
	}

	if err := f.apply(cfg, true); err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if len(cfg.Environments) != 1 || cfg.Environments[0] != "Test" {
		t.Errorf("Environments = %v, want [Test]", cfg.Environments)
	}

	bad := resolveFlags{environments: []string{"two words"}}
	err := bad.apply(cfg, true)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != ExitUsage {
		t.Fatalf("apply(bad) = %v, want usage ExitError", err)
	}
	if !errors.Is(err, config.ErrInvalidEnvironment) {
		t.Errorf("apply(bad) should wrap ErrInvalidEnvironment, got %v", err)
	}
}

func TestWatchRoots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.SearchPaths = []string{dir, filepath.Join(dir, "missing")}

	if got := watchRoots(cfg, []string{"a", "b"}); len(got) != 2 || got[0] != "a" {
		t.Errorf("watchRoots(explicit) = %v", got)
	}
	got := watchRoots(cfg, nil)
	if len(got) != 2 || got[0] != "." || got[1] != dir {
		t.Errorf("watchRoots() = %v, want [. %s]", got, dir)
	}
}

func TestRootCommand_Resolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cat := `name: "one"
types: [
	{id: "Store", kind: "contract"},
	{id: "PGStore", contracts: ["Store"], register: [{lifetime: "singleton", contracts: ["Store"]}]},
]
`
	path := filepath.Join(dir, "one.catalog.cue")
	if err := os.WriteFile(path, []byte(cat), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Output.Format = config.FormatJSON

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Config: stubConfig{cfg: cfg}, Stdout: &stdout, Stderr: &stderr})
	root := NewRootCommand(app)
	root.SetArgs([]string{"resolve", path})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v\nstderr: %s", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"implementation": "PGStore"`) {
		t.Errorf("stdout = %s", stdout.String())
	}
}

func TestRootCommand_ConfigError(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config: stubConfig{err: errors.New("unreadable")},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	root := NewRootCommand(app)
	root.SetArgs([]string{"resolve"})

	err := root.ExecuteContext(context.Background())
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != ExitUsage {
		t.Fatalf("Execute() = %v, want usage ExitError", err)
	}
}

func TestRunOnce_ReportsFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := `name: "bad"
types: [{id: "X", register: [{lifetime: "forever"}]}]
`
	path := filepath.Join(dir, "bad.catalog.cue")
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Stdout: &stdout, Stderr: &stderr})
	app.runOnce(context.Background(), config.DefaultConfig(), []string{path})

	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
	if !strings.Contains(stderr.String(), `X declares unsupported lifetime "forever"`) {
		t.Errorf("stderr = %q", stderr.String())
	}
}
