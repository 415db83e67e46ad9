// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/declwire/declwire/internal/container"
	"github.com/declwire/declwire/internal/dag"
	"github.com/declwire/declwire/internal/listreg"
	"github.com/declwire/declwire/pkg/typeinfo"
)

type (
	// Option configures a Resolver.
	Option func(*Resolver)

	// Resolver owns the binding table and the list tracker for one
	// application start. It is not safe for concurrent use until sealed.
	Resolver struct {
		types  typeinfo.TypeSystem
		binder container.Binder
		lists  *listreg.Tracker
		logger *log.Logger

		environments map[string]bool
		bindings     map[typeinfo.TypeID]*Binding
		// enumerated records list contracts whose enumeration binding is installed.
		enumerated map[typeinfo.TypeID]bool
		sealed     bool
	}
)

// WithEnvironments sets the active environment tokens.
func WithEnvironments(tokens ...string) Option {
	return func(r *Resolver) {
		for _, tok := range tokens {
			r.environments[tok] = true
		}
	}
}

// WithLogger sets the logger used for debug tracing. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver that queries types and emits commands to binder.
func New(types typeinfo.TypeSystem, binder container.Binder, opts ...Option) *Resolver {
	r := &Resolver{
		types:        types,
		binder:       binder,
		lists:        listreg.New(types),
		logger:       log.New(io.Discard),
		environments: make(map[string]bool),
		bindings:     make(map[typeinfo.TypeID]*Binding),
		enumerated:   make(map[typeinfo.TypeID]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve registers candidates in order, stopping at the first error. It may
// be called once per catalog; state accumulates until Seal.
func (r *Resolver) Resolve(candidates []*typeinfo.CandidateType) error {
	if r.sealed {
		return ErrSealed
	}
	r.logger.Debug("resolving candidates", "count", len(candidates))
	for _, c := range candidates {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Register processes a single candidate type.
func (r *Resolver) Register(t *typeinfo.CandidateType) error {
	if r.sealed {
		return ErrSealed
	}
	if t == nil || !r.eligible(t) {
		return nil
	}
	if len(t.ListMemberships) > 1 {
		return &RegistrationError{Kind: KindMultipleSingleValuedAnnotations, Implementation: t.ID, Origin: t.Origin}
	}

	intents := slices.Clone(t.Registrations)
	slices.SortStableFunc(intents, func(a, b typeinfo.RegistrationIntent) int {
		return cmp.Compare(len(b.Contracts), len(a.Contracts))
	})

	overrides := t.OverrideSet()
	claimed := make(map[typeinfo.TypeID]bool)
	for _, intent := range intents {
		if err := r.registerIntent(t, intent, overrides, claimed); err != nil {
			return err
		}
		if len(t.ListMemberships) == 1 {
			if err := r.registerLists(t, t.ListMemberships[0]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) eligible(t *typeinfo.CandidateType) bool {
	switch {
	case !t.IsConcrete():
		r.logger.Debug("skipping non-concrete type", "type", t.ID, "kind", t.Kind)
		return false
	case len(t.Registrations) == 0:
		return false
	case !t.EligibleIn(r.environments):
		r.logger.Debug("skipping type outside active environments", "type", t.ID, "environments", t.Environments)
		return false
	}
	return true
}

func (r *Resolver) registerIntent(t *typeinfo.CandidateType, intent typeinfo.RegistrationIntent, overrides, claimed map[typeinfo.TypeID]bool) error {
	if ok, _ := intent.Lifetime.IsValid(); !ok {
		return &RegistrationError{Kind: KindInvalidLifetimeIntent, Implementation: t.ID, Lifetime: intent.Lifetime, Origin: t.Origin}
	}

	targets, err := r.targets(t, intent, claimed)
	if err != nil {
		return err
	}

	var first *Binding
	for _, contract := range targets {
		if err := r.checkContract(t, contract); err != nil {
			return err
		}

		existing, found := r.bindings[contract]
		switch {
		case !found || r.supersedes(t, existing.Implementation, overrides):
			b := &Binding{Contract: contract, Implementation: t.ID, Lifetime: intent.Lifetime}
			if first != nil && first.Implementation != t.ID {
				// first is a kept binding to another type; the alias shares
				// that type's instance, which must serve this contract too.
				if !r.types.IsOpen(contract) && !r.types.Implements(first.Implementation, contract) {
					return &RegistrationError{
						Kind:           KindContractMismatch,
						Contract:       contract,
						Implementation: t.ID,
						Existing:       first.Implementation,
						Origin:         t.Origin,
					}
				}
				b.Implementation = first.Implementation
			}
			if found {
				if err := r.supersede(existing, b, t); err != nil {
					return err
				}
			}
			if first == nil {
				r.binder.BindDirect(contract, t.ID, intent.Lifetime)
				first = b
			} else {
				first.adopt(b)
				r.binder.BindAliased(contract, first.Contract, intent.Lifetime)
			}
			r.bindings[contract] = b

		case r.keeps(t, existing.Implementation):
			r.logger.Debug("keeping existing binding", "contract", contract, "type", t.ID, "existing", existing.Implementation)
			if first == nil {
				first = existing
			}

		default:
			return &RegistrationError{
				Kind:           KindConflictingRegistration,
				Contract:       contract,
				Implementation: t.ID,
				Existing:       existing.Implementation,
				Origin:         t.Origin,
			}
		}
	}
	return nil
}

// targets returns the contracts an intent binds and records them as claimed.
func (r *Resolver) targets(t *typeinfo.CandidateType, intent typeinfo.RegistrationIntent, claimed map[typeinfo.TypeID]bool) ([]typeinfo.TypeID, error) {
	if len(intent.Contracts) > 0 {
		for _, c := range intent.Contracts {
			if claimed[c] {
				return nil, &RegistrationError{Kind: KindDuplicateClaim, Contract: c, Implementation: t.ID, Origin: t.Origin}
			}
			claimed[c] = true
		}
		return slices.Clone(intent.Contracts), nil
	}

	inferred := append([]typeinfo.TypeID{t.ID}, r.types.Contracts(t.ID)...)
	out := make([]typeinfo.TypeID, 0, len(inferred))
	for _, c := range inferred {
		if claimed[c] {
			continue
		}
		claimed[c] = true
		out = append(out, c)
	}
	return out, nil
}

func (r *Resolver) checkContract(t *typeinfo.CandidateType, contract typeinfo.TypeID) error {
	if r.types.IsOpen(contract) || r.types.Implements(t.ID, contract) {
		return nil
	}
	return &RegistrationError{Kind: KindContractMismatch, Contract: contract, Implementation: t.ID, Origin: t.Origin}
}

// supersedes reports whether t may replace a binding to existing.
func (r *Resolver) supersedes(t *typeinfo.CandidateType, existing typeinfo.TypeID, overrides map[typeinfo.TypeID]bool) bool {
	return existing != t.ID && (r.types.IsSubtypeOf(t.ID, existing) || overrides[existing])
}

// keeps reports whether a binding to existing already satisfies t: it is t,
// derives from t, or explicitly overrides t.
func (r *Resolver) keeps(t *typeinfo.CandidateType, existing typeinfo.TypeID) bool {
	if existing == t.ID || r.types.IsSubtypeOf(existing, t.ID) {
		return true
	}
	desc, ok := r.types.Lookup(existing)
	return ok && desc.DeclaresOverride(t.ID)
}

// supersede moves the aliases of old onto replacement, taking over its
// implementation and lifetime. Every alias, and every alias of an alias,
// must still be implemented by the new implementation; nothing is changed
// when one is not.
func (r *Resolver) supersede(old, replacement *Binding, t *typeinfo.CandidateType) error {
	impl := replacement.Implementation
	for _, d := range old.descendants() {
		if r.types.IsOpen(d.Contract) || r.types.Implements(impl, d.Contract) {
			continue
		}
		return &RegistrationError{
			Kind:           KindContractMismatch,
			Contract:       d.Contract,
			Implementation: t.ID,
			Existing:       old.Implementation,
			Origin:         t.Origin,
		}
	}

	r.logger.Debug("superseding binding", "contract", old.Contract, "type", t.ID, "existing", old.Implementation, "aliases", len(old.UsedBy))

	// Aliases resolve through the root binding, so they share its lifetime.
	for _, d := range old.descendants() {
		d.Implementation = impl
		d.Lifetime = replacement.Lifetime
	}
	old.detach()
	children := old.UsedBy
	old.UsedBy = nil
	for _, child := range children {
		replacement.adopt(child)
	}
	return nil
}

func (r *Resolver) registerLists(t *typeinfo.CandidateType, lm typeinfo.ListMembershipIntent) error {
	for _, contract := range lm.Contracts {
		if err := r.checkContract(t, contract); err != nil {
			return err
		}
		if err := r.lists.Register(t.ID, contract, lm.RemoveSubtypes); err != nil {
			return fmt.Errorf("list %s: %w", contract, err)
		}
		if !r.enumerated[contract] {
			r.enumerated[contract] = true
			r.binder.BindEnumeration(contract, r.lists)
		}
		r.logger.Debug("registered list member", "contract", contract, "type", t.ID, "remove_subtypes", lm.RemoveSubtypes)
	}
	return nil
}

// Binding returns the live binding for contract.
func (r *Resolver) Binding(contract typeinfo.TypeID) (*Binding, bool) {
	b, ok := r.bindings[contract]
	return b, ok
}

// Bindings returns every live binding sorted by contract.
func (r *Resolver) Bindings() []*Binding {
	out := make([]*Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b *Binding) int { return cmp.Compare(a.Contract, b.Contract) })
	return out
}

// Plan returns the live bindings ordered so that every aliased binding comes
// after the binding it uses. Unrelated bindings keep contract order.
func (r *Resolver) Plan() ([]*Binding, error) {
	bindings := r.Bindings()
	g := dag.New[typeinfo.TypeID]()
	for _, b := range bindings {
		g.AddNode(b.Contract)
	}
	for _, b := range bindings {
		if b.Uses != nil {
			g.AddEdge(b.Uses.Contract, b.Contract)
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBindingCycle, err)
	}
	plan := make([]*Binding, 0, len(order))
	for _, contract := range order {
		plan = append(plan, r.bindings[contract])
	}
	return plan, nil
}

// Lists returns the list tracker.
func (r *Resolver) Lists() *listreg.Tracker { return r.lists }

// Environments returns the active environment tokens, sorted.
func (r *Resolver) Environments() []string {
	out := make([]string, 0, len(r.environments))
	for tok := range r.environments {
		out = append(out, tok)
	}
	slices.Sort(out)
	return out
}

// Seal ends registration. Afterwards the binding table and list tracker are
// read-only and may be shared between goroutines.
func (r *Resolver) Seal() {
	r.sealed = true
	r.lists.Seal()
}

// Sealed reports whether Seal has been called.
func (r *Resolver) Sealed() bool { return r.sealed }
