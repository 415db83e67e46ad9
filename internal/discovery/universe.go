// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"github.com/declwire/declwire/internal/issue"
	"github.com/declwire/declwire/pkg/catalog"
	"github.com/declwire/declwire/pkg/typeinfo"
)

// Batch is the candidate list of one catalog, in declaration order.
type Batch struct {
	Catalog    *catalog.Catalog
	Candidates []*typeinfo.CandidateType
}

// BuildUniverse merges the catalogs into one Universe so that types may
// reference ids from other catalogs. It also returns one Batch per catalog
// for the resolver to process in order. A type id declared in two catalogs
// fails with *typeinfo.TypeCollisionError wrapped in an actionable error.
func BuildUniverse(catalogs []*catalog.Catalog) (*typeinfo.Universe, []Batch, error) {
	u, err := typeinfo.NewUniverse()
	if err != nil {
		return nil, nil, err
	}

	batches := make([]Batch, 0, len(catalogs))
	for _, c := range catalogs {
		cands := c.Candidates()
		if err := u.Add(cands...); err != nil {
			return nil, nil, issue.NewErrorContext().
				WithOperation("build type universe").
				WithResource(c.FilePath).
				WithIssue(issue.TypeCollisionId).
				WithSuggestion("Declare each type id in exactly one catalog").
				Wrap(err).
				BuildError()
		}
		batches = append(batches, Batch{Catalog: c, Candidates: cands})
	}
	return u, batches, nil
}
