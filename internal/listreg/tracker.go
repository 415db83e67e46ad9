// SPDX-License-Identifier: MPL-2.0

package listreg

import (
	"errors"
	"slices"
	"sync/atomic"

	"github.com/declwire/declwire/pkg/typeinfo"
)

// ErrSealed is returned when registering into a sealed tracker.
var ErrSealed = errors.New("listreg: tracker is sealed")

type (
	// member is one type registered under a list contract, with the
	// RemoveSubtypes flag it registered with.
	member struct {
		typ            typeinfo.TypeID
		removeSubtypes bool
	}

	// Tracker maps list contracts to the ordered set of types satisfying
	// them. Registration is single-threaded; once sealed, Query and
	// Contracts may be called concurrently without locking.
	Tracker struct {
		types   typeinfo.Hierarchy
		members map[typeinfo.TypeID][]member
		sealed  atomic.Bool
	}
)

// New creates an empty Tracker using types for subtype checks.
func New(types typeinfo.Hierarchy) *Tracker {
	return &Tracker{
		types:   types,
		members: make(map[typeinfo.TypeID][]member),
	}
}

// Register adds t to the list for contract.
//
// Insertion is skipped when t is already present, or when a strict subtype of
// t is present that registered for this contract with removeSubtypes set.
// When removeSubtypes is true, every present strict supertype of t is removed
// afterwards, whether or not t itself was inserted.
func (tr *Tracker) Register(t, contract typeinfo.TypeID, removeSubtypes bool) error {
	if tr.sealed.Load() {
		return ErrSealed
	}
	if contract == "" || t == "" {
		return nil
	}

	list := tr.members[contract]
	if !tr.contains(list, t) && !tr.displaced(list, t) {
		list = append(list, member{typ: t, removeSubtypes: removeSubtypes})
	}
	if removeSubtypes {
		list = slices.DeleteFunc(list, func(m member) bool {
			return tr.types.IsSubtypeOf(t, m.typ)
		})
	}
	tr.members[contract] = list
	return nil
}

// Query returns a copy of the types registered for contract, in
// registration order. It returns nil for an unknown contract.
func (tr *Tracker) Query(contract typeinfo.TypeID) []typeinfo.TypeID {
	list, ok := tr.members[contract]
	if !ok {
		return nil
	}
	out := make([]typeinfo.TypeID, len(list))
	for i, m := range list {
		out[i] = m.typ
	}
	return out
}

// Contracts returns every list contract that has been registered, sorted.
func (tr *Tracker) Contracts() []typeinfo.TypeID {
	out := make([]typeinfo.TypeID, 0, len(tr.members))
	for c := range tr.members {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Seal makes the tracker read-only. It returns true if this call sealed it.
func (tr *Tracker) Seal() bool { return !tr.sealed.Swap(true) }

// Sealed reports whether the tracker is read-only.
func (tr *Tracker) Sealed() bool { return tr.sealed.Load() }

func (tr *Tracker) contains(list []member, t typeinfo.TypeID) bool {
	return slices.ContainsFunc(list, func(m member) bool { return m.typ == t })
}

// displaced reports whether a present strict subtype of t asked to remove
// its supertypes from this list.
func (tr *Tracker) displaced(list []member, t typeinfo.TypeID) bool {
	return slices.ContainsFunc(list, func(m member) bool {
		return m.removeSubtypes && tr.types.IsSubtypeOf(m.typ, t)
	})
}
