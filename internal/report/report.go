// SPDX-License-Identifier: MPL-2.0

package report

import (
	"errors"

	"github.com/google/uuid"

	"github.com/declwire/declwire/internal/resolver"
	"github.com/declwire/declwire/pkg/catalog"
)

// ErrNotSealed is returned when building a report from a resolver that is
// still accepting registrations.
var ErrNotSealed = errors.New("resolver is not sealed")

type (
	// Report is the outcome of one resolution run.
	Report struct {
		// RunID distinguishes runs, e.g. successive re-runs in watch mode.
		RunID        string       `json:"run_id" yaml:"run_id" toml:"run_id"`
		Environments []string     `json:"environments" yaml:"environments" toml:"environments"`
		Catalogs     []CatalogRef `json:"catalogs" yaml:"catalogs" toml:"catalogs"`
		// Bindings are ordered so that a binding precedes every alias of it.
		Bindings []Binding `json:"bindings" yaml:"bindings" toml:"bindings"`
		Lists    []List    `json:"lists" yaml:"lists" toml:"lists"`
	}

	// CatalogRef names one processed catalog.
	CatalogRef struct {
		Name  string `json:"name" yaml:"name" toml:"name"`
		Path  string `json:"path" yaml:"path" toml:"path"`
		Types int    `json:"types" yaml:"types" toml:"types"`
	}

	// Binding is one live contract binding.
	Binding struct {
		Contract       string `json:"contract" yaml:"contract" toml:"contract"`
		Implementation string `json:"implementation" yaml:"implementation" toml:"implementation"`
		Lifetime       string `json:"lifetime" yaml:"lifetime" toml:"lifetime"`
		// Uses is the contract whose instance this binding shares.
		Uses string `json:"uses,omitempty" yaml:"uses,omitempty" toml:"uses,omitempty"`
	}

	// List is the ordered membership of one list contract.
	List struct {
		Contract string   `json:"contract" yaml:"contract" toml:"contract"`
		Members  []string `json:"members" yaml:"members" toml:"members"`
	}
)

// Build snapshots a sealed resolver. catalogs are the processed catalogs in
// processing order.
func Build(runID uuid.UUID, r *resolver.Resolver, catalogs []*catalog.Catalog) (*Report, error) {
	if !r.Sealed() {
		return nil, ErrNotSealed
	}

	plan, err := r.Plan()
	if err != nil {
		return nil, err
	}

	rep := &Report{
		RunID:        runID.String(),
		Environments: r.Environments(),
		Catalogs:     make([]CatalogRef, 0, len(catalogs)),
		Bindings:     make([]Binding, 0, len(plan)),
	}
	for _, c := range catalogs {
		rep.Catalogs = append(rep.Catalogs, CatalogRef{Name: c.Name, Path: c.FilePath, Types: len(c.Types)})
	}
	for _, b := range plan {
		rb := Binding{
			Contract:       b.Contract.String(),
			Implementation: b.Implementation.String(),
			Lifetime:       b.Lifetime.String(),
		}
		if b.Uses != nil {
			rb.Uses = b.Uses.Contract.String()
		}
		rep.Bindings = append(rep.Bindings, rb)
	}

	tracker := r.Lists()
	for _, contract := range tracker.Contracts() {
		members := tracker.Query(contract)
		l := List{Contract: contract.String(), Members: make([]string, len(members))}
		for i, m := range members {
			l.Members[i] = m.String()
		}
		rep.Lists = append(rep.Lists, l)
	}
	return rep, nil
}

// Aliases returns how many bindings share another binding's instance.
func (r *Report) Aliases() int {
	n := 0
	for _, b := range r.Bindings {
		if b.Uses != "" {
			n++
		}
	}
	return n
}
