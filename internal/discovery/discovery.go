// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/declwire/declwire/internal/config"
	"github.com/declwire/declwire/internal/issue"
	"github.com/declwire/declwire/pkg/catalog"
)

const (
	// SourceArgument indicates a path given on the command line.
	SourceArgument Source = iota
	// SourceCurrentDir indicates the file was found below the base directory.
	SourceCurrentDir
	// SourceConfigPath indicates the file was found in a configured search path.
	SourceConfigPath
)

// ErrNoCatalogs is returned by LoadAll when no catalog file was found.
var ErrNoCatalogs = errors.New("no catalogs found")

type (
	// Source represents where a catalog was found.
	Source int

	// DiscoveredFile represents a found catalog with its source.
	DiscoveredFile struct {
		// Path is the absolute path to the catalog.
		Path   string
		Source Source
		// Catalog is the parsed content, nil until loaded or when Error is set.
		Catalog *catalog.Catalog
		Error   error
	}

	// Result bundles discovered files with the diagnostics produced while
	// finding and parsing them.
	Result struct {
		Files       []*DiscoveredFile
		Diagnostics []Diagnostic
	}

	// Option configures a Discovery.
	Option func(*Discovery)

	// Discovery finds and loads catalogs.
	Discovery struct {
		cfg      *config.Config
		baseDir  string
		paths    []string
		logger   *log.Logger
		parallel int
	}
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceArgument:
		return "argument"
	case SourceCurrentDir:
		return "current directory"
	case SourceConfigPath:
		return "configured search path"
	default:
		return "unknown"
	}
}

// WithBaseDir sets the directory searched when no explicit path is given.
func WithBaseDir(dir string) Option {
	return func(d *Discovery) { d.baseDir = dir }
}

// WithPaths sets explicit catalog files or directories. When set, neither the
// base directory nor the configured search paths are consulted.
func WithPaths(paths ...string) Option {
	return func(d *Discovery) { d.paths = paths }
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Discovery) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Discovery. A nil cfg uses config.DefaultConfig.
func New(cfg *config.Config, opts ...Option) *Discovery {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	d := &Discovery{
		cfg:      cfg,
		baseDir:  ".",
		logger:   log.New(io.Discard),
		parallel: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscoverAll finds catalog files without parsing them. A missing explicit
// path is an error; a missing search path is only a diagnostic.
func (d *Discovery) DiscoverAll() (*Result, error) {
	res := &Result{}
	seen := make(map[string]bool)

	add := func(path string, src Source) {
		if seen[path] {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeDuplicatePath,
				Message:  fmt.Sprintf("catalog reached again via %s; keeping the first occurrence", src),
				Path:     path,
			})
			return
		}
		seen[path] = true
		res.Files = append(res.Files, &DiscoveredFile{Path: path, Source: src})
	}

	if len(d.paths) > 0 {
		for _, p := range d.paths {
			files, err := d.expand(p)
			if err != nil {
				return nil, issue.NewErrorContext().
					WithOperation("discover catalogs").
					WithResource(p).
					WithIssue(issue.CatalogNotFoundId).
					WithSuggestion("Check the path exists and is readable").
					Wrap(err).
					BuildError()
			}
			for _, f := range files {
				add(f, SourceArgument)
			}
		}
		return res, nil
	}

	if files, err := d.expand(d.baseDir); err == nil {
		for _, f := range files {
			add(f, SourceCurrentDir)
		}
	} else {
		d.logger.Debug("skipping base directory", "dir", d.baseDir, "error", err)
	}

	for _, sp := range d.cfg.SearchPaths {
		files, err := d.expand(sp)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeSearchPathMissing,
				Message:  "configured search path could not be read",
				Path:     sp,
				Cause:    err,
			})
			continue
		}
		for _, f := range files {
			add(f, SourceConfigPath)
		}
	}
	return res, nil
}

// LoadAll discovers and parses every catalog. Parsing runs concurrently;
// the order of Files is the discovery order. Files that fail to parse keep
// their error and produce an error diagnostic. ErrNoCatalogs is returned
// when nothing was found.
func (d *Discovery) LoadAll(ctx context.Context) (*Result, error) {
	res, err := d.DiscoverAll()
	if err != nil {
		return nil, err
	}
	if len(res.Files) == 0 {
		return res, issue.NewErrorContext().
			WithOperation("discover catalogs").
			WithIssue(issue.CatalogNotFoundId).
			WithSuggestion("Pass a catalog file or directory: 'declwire resolve ./catalogs'").
			WithSuggestion("Add search_paths to your config file").
			Wrap(ErrNoCatalogs).
			BuildError()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.parallel)
	for _, f := range res.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f.Catalog, f.Error = catalog.Parse(f.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}

	for _, f := range res.Files {
		if f.Error != nil {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityError,
				Code:     CodeCatalogInvalid,
				Message:  f.Error.Error(),
				Path:     f.Path,
				Cause:    f.Error,
			})
			continue
		}
		d.logger.Debug("loaded catalog", "name", f.Catalog.Name, "path", f.Path, "types", len(f.Catalog.Types))
	}
	return res, nil
}

// Catalogs returns the parsed catalogs in discovery order, skipping failures.
func (r *Result) Catalogs() []*catalog.Catalog {
	out := make([]*catalog.Catalog, 0, len(r.Files))
	for _, f := range r.Files {
		if f.Catalog != nil {
			out = append(out, f.Catalog)
		}
	}
	return out
}

// Err joins the parse errors of all files, nil when every file loaded.
func (r *Result) Err() error {
	var errs []error
	for _, f := range r.Files {
		if f.Error != nil {
			errs = append(errs, f.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return issue.NewErrorContext().
		WithOperation("load catalogs").
		WithIssue(issue.CatalogParseErrorId).
		WithSuggestion("Run 'declwire validate' to check every catalog").
		Wrap(errors.Join(errs...)).
		BuildError()
}

// expand turns a file or directory into absolute catalog paths. Files are
// returned as given regardless of their name; directories are matched
// against the configured patterns.
func (d *Discovery) expand(path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{abs}, nil
	}
	return d.glob(abs)
}

func (d *Discovery) glob(dir string) ([]string, error) {
	fsys := os.DirFS(dir)
	seen := make(map[string]bool)
	var matches []string
	for _, pattern := range d.cfg.Patterns() {
		found, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("match %q in %s: %w", pattern, dir, err)
		}
		for _, m := range found {
			if !seen[m] {
				seen[m] = true
				matches = append(matches, m)
			}
		}
	}
	slices.Sort(matches)

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	return out, nil
}
