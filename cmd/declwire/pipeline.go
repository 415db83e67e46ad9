// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/declwire/declwire/internal/config"
	"github.com/declwire/declwire/internal/container"
	"github.com/declwire/declwire/internal/discovery"
	"github.com/declwire/declwire/internal/issue"
	"github.com/declwire/declwire/internal/resolver"
	"github.com/declwire/declwire/pkg/catalog"
	"github.com/declwire/declwire/pkg/typeinfo"
)

type (
	// resolution is the outcome of one full pass: the sealed resolver with
	// the binders it fed, and the catalogs it processed.
	resolution struct {
		resolver *resolver.Resolver
		universe *typeinfo.Universe
		recorder *container.Recorder
		memory   *container.Memory
		catalogs []*catalog.Catalog
	}

	// resolveFlags are the flags shared by the commands that run a resolution.
	resolveFlags struct {
		environments []string
	}
)

// apply copies flag overrides into cfg and revalidates it.
func (f *resolveFlags) apply(cfg *config.Config, changed bool) error {
	if !changed {
		return nil
	}
	cfg.Environments = f.environments
	if ok, errs := cfg.IsValid(); !ok {
		return usage(errs[0])
	}
	return nil
}

// loadCatalogs discovers and parses catalogs. Warnings are printed to
// stderr; parse failures are returned.
func (a *App) loadCatalogs(ctx context.Context, cfg *config.Config, paths []string, logger *log.Logger) (*discovery.Result, error) {
	opts := []discovery.Option{discovery.WithLogger(logger)}
	if len(paths) > 0 {
		opts = append(opts, discovery.WithPaths(paths...))
	}
	res, err := discovery.New(cfg, opts...).LoadAll(ctx)
	if err != nil {
		return nil, failure(err)
	}
	a.printWarnings(res.Diagnostics)
	return res, nil
}

// resolveAll runs a fresh resolver over the catalogs in discovery order and
// seals it.
func (a *App) resolveAll(cfg *config.Config, catalogs []*catalog.Catalog, logger *log.Logger) (*resolution, error) {
	u, batches, err := discovery.BuildUniverse(catalogs)
	if err != nil {
		return nil, failure(err)
	}

	out := &resolution{
		universe: u,
		recorder: container.NewRecorder(),
		memory:   container.NewMemory(),
		catalogs: catalogs,
	}
	out.resolver = resolver.New(u, container.Tee{out.recorder, out.memory},
		resolver.WithEnvironments(cfg.Environments...),
		resolver.WithLogger(logger),
	)
	for _, b := range batches {
		logger.Debug("resolving catalog", "name", b.Catalog.Name, "candidates", len(b.Candidates))
		if err := out.resolver.Resolve(b.Candidates); err != nil {
			return nil, failure(registrationError(err, b.Catalog))
		}
	}
	out.resolver.Seal()
	return out, nil
}

// run loads, parses and resolves in one go.
func (a *App) run(ctx context.Context, cfg *config.Config, paths []string) (*resolution, error) {
	logger := a.logger()
	res, err := a.loadCatalogs(ctx, cfg, paths, logger)
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, failure(err)
	}
	return a.resolveAll(cfg, res.Catalogs(), logger)
}

func (a *App) printWarnings(diags []discovery.Diagnostic) {
	for _, d := range diags {
		if d.Severity != discovery.SeverityWarning {
			continue
		}
		fmt.Fprintf(a.stderr, "%s%s\n", WarningStyle.Render("Warning: "), d.Message)
	}
}

// registrationError attaches the help page and suggestions matching the
// kind of a resolver error.
func registrationError(err error, c *catalog.Catalog) error {
	ec := issue.NewErrorContext().
		WithOperation("resolve registrations").
		WithResource(displayPath(c.FilePath))

	switch {
	case errors.Is(err, resolver.ErrContractMismatch):
		ec.WithIssue(issue.ContractMismatchId).
			WithSuggestion("Add the contract to the type's contracts or to one of its bases").
			WithSuggestion("Or remove it from the register or list intent")
	case errors.Is(err, resolver.ErrDuplicateClaim):
		ec.WithIssue(issue.DuplicateClaimId).
			WithSuggestion("Name each contract in only one register intent of the type")
	case errors.Is(err, resolver.ErrConflictingRegistration):
		ec.WithIssue(issue.ConflictingRegistrationId).
			WithSuggestion("Derive the new implementation from the one it replaces").
			WithSuggestion("Or declare the replaced type in 'overrides'").
			WithSuggestion("Or restrict one of them with 'environments'")
	case errors.Is(err, resolver.ErrInvalidLifetimeIntent):
		ec.WithIssue(issue.InvalidLifetimeId).
			WithSuggestion("Use one of: singleton, scoped, transient")
	case errors.Is(err, resolver.ErrMultipleSingleValuedAnnotations):
		ec.WithIssue(issue.MultipleListMembershipsId).
			WithSuggestion("Merge the list intents into one entry with several contracts")
	}
	return ec.Wrap(err).BuildError()
}

// displayPath shortens path relative to the working directory when it lies
// below it.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return rel
}
