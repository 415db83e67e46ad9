// SPDX-License-Identifier: MPL-2.0

package typeinfo

import (
	"fmt"
	"slices"
)

type (
	// Hierarchy answers the class-hierarchy question the list tracker needs.
	Hierarchy interface {
		// IsSubtypeOf reports whether t derives from base, directly or
		// transitively. A type is not a strict subtype of itself.
		IsSubtypeOf(t, base TypeID) bool
	}

	// TypeSystem is the type metadata collaborator consumed by the resolver.
	// All methods are pure lookups.
	TypeSystem interface {
		Hierarchy

		// Lookup returns the descriptor for id, if known.
		Lookup(id TypeID) (*CandidateType, bool)
		// Contracts returns every contract t implements: declared on t, on
		// its base types, and inherited through other contracts. The order
		// is deterministic.
		Contracts(t TypeID) []TypeID
		// Implements reports whether t structurally satisfies contract:
		// t is the contract, derives from it, or implements it.
		Implements(t, contract TypeID) bool
		// IsOpen reports whether the contract has unbound type parameters.
		IsOpen(contract TypeID) bool
	}

	// TypeCollisionError is returned when two descriptors share a TypeID.
	TypeCollisionError struct {
		ID           TypeID
		FirstOrigin  string
		SecondOrigin string
	}

	// Universe is the reference TypeSystem built from materialized
	// descriptors. It is not safe for concurrent mutation; once populated it
	// may be read concurrently.
	Universe struct {
		types map[TypeID]*CandidateType
		// order keeps insertion order for deterministic iteration.
		order []TypeID
	}
)

// Error implements the error interface.
func (e *TypeCollisionError) Error() string {
	return fmt.Sprintf(
		"type %q is defined more than once:\n"+
			"  - %s\n"+
			"  - %s",
		e.ID, originOrUnknown(e.FirstOrigin), originOrUnknown(e.SecondOrigin))
}

// NewUniverse creates a Universe holding the given descriptors.
func NewUniverse(types ...*CandidateType) (*Universe, error) {
	u := &Universe{types: make(map[TypeID]*CandidateType)}
	if err := u.Add(types...); err != nil {
		return nil, err
	}
	return u, nil
}

// Add inserts descriptors in order. It fails on an invalid kind or when a
// TypeID is already present; descriptors before the failing one stay added.
func (u *Universe) Add(types ...*CandidateType) error {
	for _, t := range types {
		if t == nil {
			continue
		}
		if t.ID == "" {
			return fmt.Errorf("type descriptor from %s has an empty id", originOrUnknown(t.Origin))
		}
		if ok, errs := t.Kind.IsValid(); !ok {
			return fmt.Errorf("type %q: %w", t.ID, errs[0])
		}
		if existing, ok := u.types[t.ID]; ok {
			return &TypeCollisionError{ID: t.ID, FirstOrigin: existing.Origin, SecondOrigin: t.Origin}
		}
		u.types[t.ID] = t
		u.order = append(u.order, t.ID)
	}
	return nil
}

// Len returns the number of known types.
func (u *Universe) Len() int { return len(u.order) }

// Candidates returns all descriptors in insertion order.
func (u *Universe) Candidates() []*CandidateType {
	out := make([]*CandidateType, 0, len(u.order))
	for _, id := range u.order {
		out = append(out, u.types[id])
	}
	return out
}

// Lookup returns the descriptor for id.
func (u *Universe) Lookup(id TypeID) (*CandidateType, bool) {
	t, ok := u.types[id]
	return t, ok
}

// IsSubtypeOf walks the declared base chain of t looking for base.
func (u *Universe) IsSubtypeOf(t, base TypeID) bool {
	if t == base {
		return false
	}
	seen := map[TypeID]bool{t: true}
	for cur := u.baseOf(t); cur != ""; cur = u.baseOf(cur) {
		if cur == base {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
	}
	return false
}

// Base returns the declared base type of t, empty when unknown or root.
func (u *Universe) Base(t TypeID) TypeID { return u.baseOf(t) }

// Contracts collects the contracts of t depth-first: the type's own
// declarations first, then those inherited from its base chain.
func (u *Universe) Contracts(t TypeID) []TypeID {
	var (
		out  []TypeID
		seen = make(map[TypeID]bool)
	)
	var visitContract func(c TypeID)
	visitContract = func(c TypeID) {
		if seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
		if desc, ok := u.types[c]; ok {
			for _, parent := range desc.Contracts {
				visitContract(parent)
			}
		}
	}

	visitedTypes := make(map[TypeID]bool)
	for cur := t; cur != "" && !visitedTypes[cur]; cur = u.baseOf(cur) {
		visitedTypes[cur] = true
		desc, ok := u.types[cur]
		if !ok {
			break
		}
		for _, c := range desc.Contracts {
			visitContract(c)
		}
	}
	return out
}

// Implements reports whether t is, derives from, or implements contract.
func (u *Universe) Implements(t, contract TypeID) bool {
	if t == contract || u.IsSubtypeOf(t, contract) {
		return true
	}
	return slices.Contains(u.Contracts(t), contract)
}

// IsOpen reports whether contract is a known open (generic) type.
func (u *Universe) IsOpen(contract TypeID) bool {
	desc, ok := u.types[contract]
	return ok && desc.Open
}

func (u *Universe) baseOf(t TypeID) TypeID {
	if desc, ok := u.types[t]; ok {
		return desc.Base
	}
	return ""
}

func originOrUnknown(origin string) string {
	if origin == "" {
		return "<unknown origin>"
	}
	return origin
}
