// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/declwire/declwire/pkg/cueutil"
	"github.com/declwire/declwire/pkg/typeinfo"
)

//go:embed catalog_schema.cue
var catalogSchema []byte

// ErrDuplicateType is returned when one catalog declares a type id twice.
var ErrDuplicateType = errors.New("type declared more than once in catalog")

type (
	// Catalog is a decoded catalog file.
	Catalog struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Types       []Type `json:"types,omitempty"`

		// FilePath is where the catalog was read from.
		FilePath string `json:"-"`
	}

	// Type is one type declaration.
	Type struct {
		ID           string           `json:"id"`
		Kind         string           `json:"kind"`
		Base         string           `json:"base,omitempty"`
		Contracts    []string         `json:"contracts,omitempty"`
		Open         bool             `json:"open,omitempty"`
		Register     []Registration   `json:"register,omitempty"`
		List         []ListMembership `json:"list,omitempty"`
		Overrides    []Override       `json:"overrides,omitempty"`
		Environments []string         `json:"environments,omitempty"`
	}

	// Registration mirrors typeinfo.RegistrationIntent.
	Registration struct {
		Lifetime  string   `json:"lifetime"`
		Contracts []string `json:"contracts,omitempty"`
	}

	// ListMembership mirrors typeinfo.ListMembershipIntent.
	ListMembership struct {
		Contracts      []string `json:"contracts"`
		RemoveSubtypes bool     `json:"remove_subtypes"`
	}

	// Override mirrors typeinfo.ExplicitOverride.
	Override struct {
		Types []string `json:"types"`
	}

	// DuplicateTypeError names a type id declared twice in one catalog.
	DuplicateTypeError struct {
		FilePath string
		ID       string
		First    int
		Second   int
	}
)

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("%s: type %q declared at types[%d] and types[%d]", e.FilePath, e.ID, e.First, e.Second)
}

// Unwrap returns ErrDuplicateType.
func (e *DuplicateTypeError) Unwrap() error { return ErrDuplicateType }

// Parse reads and parses the catalog at path.
func Parse(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses catalog content. The encoding follows the extension of
// path.
func ParseBytes(data []byte, path string) (*Catalog, error) {
	res, err := cueutil.ParseAndDecode[Catalog](
		catalogSchema,
		data,
		"#Catalog",
		cueutil.WithFilename(path),
		cueutil.WithEncoding(cueutil.EncodingFor(path)),
	)
	if err != nil {
		return nil, err
	}

	c := res.Value
	c.FilePath = path
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks what the schema cannot: ids are unique within the catalog
// and no type names itself as its base.
func (c *Catalog) Validate() error {
	var errs []error
	seen := make(map[string]int, len(c.Types))
	for i, t := range c.Types {
		if first, dup := seen[t.ID]; dup {
			errs = append(errs, &DuplicateTypeError{FilePath: c.FilePath, ID: t.ID, First: first, Second: i})
			continue
		}
		seen[t.ID] = i
		if t.Base == t.ID {
			errs = append(errs, fmt.Errorf("%s: types[%d].base: type %q cannot derive from itself", c.FilePath, i, t.ID))
		}
	}
	return errors.Join(errs...)
}

// Candidates converts the declarations into candidate types, in order. The
// origin of each names the catalog and its file.
func (c *Catalog) Candidates() []*typeinfo.CandidateType {
	origin := c.Name
	if c.FilePath != "" {
		origin = fmt.Sprintf("%s (%s)", c.Name, c.FilePath)
	}

	out := make([]*typeinfo.CandidateType, 0, len(c.Types))
	for _, t := range c.Types {
		ct := &typeinfo.CandidateType{
			ID:           typeinfo.TypeID(t.ID),
			Kind:         typeinfo.Kind(t.Kind),
			Base:         typeinfo.TypeID(t.Base),
			Contracts:    typeIDs(t.Contracts),
			Open:         t.Open,
			Environments: t.Environments,
			Origin:       origin,
		}
		for _, r := range t.Register {
			ct.Registrations = append(ct.Registrations, typeinfo.RegistrationIntent{
				Contracts: typeIDs(r.Contracts),
				Lifetime:  typeinfo.Lifetime(r.Lifetime),
			})
		}
		for _, l := range t.List {
			ct.ListMemberships = append(ct.ListMemberships, typeinfo.ListMembershipIntent{
				Contracts:      typeIDs(l.Contracts),
				RemoveSubtypes: l.RemoveSubtypes,
			})
		}
		for _, o := range t.Overrides {
			ct.Overrides = append(ct.Overrides, typeinfo.ExplicitOverride{Types: typeIDs(o.Types)})
		}
		out = append(out, ct)
	}
	return out
}

func typeIDs(names []string) []typeinfo.TypeID {
	if len(names) == 0 {
		return nil
	}
	out := make([]typeinfo.TypeID, len(names))
	for i, n := range names {
		out[i] = typeinfo.TypeID(n)
	}
	return out
}
