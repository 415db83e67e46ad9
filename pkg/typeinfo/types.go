// SPDX-License-Identifier: MPL-2.0

package typeinfo

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// KindClass is a concrete, instantiable type. Only classes are registered.
	KindClass Kind = "class"
	// KindAbstract is a type that can be a base or a contract but is never registered.
	KindAbstract Kind = "abstract"
	// KindContract is an abstract capability (interface) other code depends on.
	KindContract Kind = "contract"
)

// ErrInvalidKind is returned when a Kind value is not one of the defined kinds.
var ErrInvalidKind = errors.New("invalid type kind")

type (
	// TypeID identifies a type: a concrete class, an abstract class or a
	// contract. Contracts are identified by TypeID as well, because a concrete
	// class can itself be the contract it is registered for.
	TypeID string

	// Kind classifies a type.
	Kind string

	// InvalidKindError is returned when a Kind value is not recognized.
	InvalidKindError struct {
		Value Kind
	}

	// RegistrationIntent is one "register me" declaration on a candidate type.
	RegistrationIntent struct {
		// Contracts are the explicitly named target contracts. Empty means the
		// targets are inferred from every contract the type implements.
		Contracts []TypeID
		// Lifetime is how long a constructed instance is shared.
		Lifetime Lifetime
	}

	// ListMembershipIntent declares that a type is one of the implementations
	// returned when all implementations of a list contract are requested.
	ListMembershipIntent struct {
		Contracts []TypeID
		// RemoveSubtypes makes the type displace its strict supertypes from the
		// lists it joins (the supertypes are removed from those lists).
		RemoveSubtypes bool
	}

	// ExplicitOverride names concrete types the declaring type may replace
	// even though it is not a subtype of them.
	ExplicitOverride struct {
		Types []TypeID
	}

	// CandidateType is a discovered type offered to the resolver. It is
	// immutable once supplied; the resolver only reads it.
	CandidateType struct {
		ID   TypeID
		Kind Kind
		// Base is the declared base class, empty for root types.
		Base TypeID
		// Contracts are the directly declared contracts. Contracts inherited
		// from the base type or from other contracts are answered by the
		// TypeSystem, not listed here.
		Contracts []TypeID
		// Open reports whether the type has unbound type parameters. Open
		// contracts are exempt from structural implementation checks.
		Open bool

		Registrations   []RegistrationIntent
		ListMemberships []ListMembershipIntent
		Overrides       []ExplicitOverride
		// Environments restricts registration to the listed environment
		// tokens. Empty means the type is eligible in every environment.
		Environments []string

		// Origin names where the descriptor came from (catalog file, binary).
		Origin string
	}
)

// String returns the string representation of the TypeID.
func (t TypeID) String() string { return string(t) }

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// IsValid returns whether the Kind is one of the defined kinds.
func (k Kind) IsValid() (bool, []error) {
	switch k {
	case KindClass, KindAbstract, KindContract:
		return true, nil
	default:
		return false, []error{&InvalidKindError{Value: k}}
	}
}

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid type kind %q (valid: class, abstract, contract)", e.Value)
}

// Unwrap returns ErrInvalidKind for errors.Is() compatibility.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// IsConcrete reports whether the type can be instantiated and registered.
func (c *CandidateType) IsConcrete() bool {
	return c != nil && c.Kind == KindClass
}

// OverrideSet returns the union of all explicit override declarations.
func (c *CandidateType) OverrideSet() map[TypeID]bool {
	set := make(map[TypeID]bool)
	for _, o := range c.Overrides {
		for _, t := range o.Types {
			set[t] = true
		}
	}
	return set
}

// DeclaresOverride reports whether c explicitly declares that it may replace other.
func (c *CandidateType) DeclaresOverride(other TypeID) bool {
	for _, o := range c.Overrides {
		if slices.Contains(o.Types, other) {
			return true
		}
	}
	return false
}

// EligibleIn reports whether the type may be registered when the given
// environment tokens are active. Unrestricted types are always eligible.
func (c *CandidateType) EligibleIn(active map[string]bool) bool {
	if len(c.Environments) == 0 {
		return true
	}
	for _, token := range c.Environments {
		if active[token] {
			return true
		}
	}
	return false
}
