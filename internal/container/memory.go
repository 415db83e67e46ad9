// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"fmt"
	"sync"

	"github.com/declwire/declwire/pkg/typeinfo"
)

var (
	// ErrNotBound is returned when a contract has no binding.
	ErrNotBound = errors.New("contract not bound")
	// ErrNoFactory is returned when a bound implementation has no factory.
	ErrNoFactory = errors.New("no factory for implementation")
	// ErrNotEnumerable is returned by ResolveAll for a non-enumeration binding.
	ErrNotEnumerable = errors.New("contract is not bound as an enumeration")
)

type (
	// Factory constructs an instance of one implementation type. It may
	// resolve its own dependencies through the scope it receives.
	Factory func(s *Scope) (any, error)

	// ResolveError reports which contract failed to resolve.
	ResolveError struct {
		Contract typeinfo.TypeID
		Err      error
	}

	binding struct {
		kind     CommandKind
		target   typeinfo.TypeID
		lifetime typeinfo.Lifetime
	}

	// Memory is an in-memory reference container. Binding commands must
	// all arrive before the first resolution; resolution is safe for
	// concurrent use.
	Memory struct {
		mu        sync.RWMutex
		factories map[typeinfo.TypeID]Factory
		bindings  map[typeinfo.TypeID]binding
		// lists holds enumeration bindings, kept apart so a contract can
		// have both a single implementation and a member list.
		lists map[typeinfo.TypeID]ListSource
		root  *Scope
	}

	// Scope is a lifetime scope. The root scope holds singletons; child
	// scopes hold scoped instances for one logical request.
	Scope struct {
		container *Memory
		root      *Scope
		mu        sync.Mutex
		instances map[typeinfo.TypeID]any
	}
)

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Contract, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ResolveError) Unwrap() error { return e.Err }

// NewMemory creates an empty container.
func NewMemory() *Memory {
	m := &Memory{
		factories: make(map[typeinfo.TypeID]Factory),
		bindings:  make(map[typeinfo.TypeID]binding),
		lists:     make(map[typeinfo.TypeID]ListSource),
	}
	m.root = &Scope{container: m, instances: make(map[typeinfo.TypeID]any)}
	m.root.root = m.root
	return m
}

// Provide registers the factory used to construct impl.
func (m *Memory) Provide(impl typeinfo.TypeID, f Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[impl] = f
}

// BindDirect implements Binder.
func (m *Memory) BindDirect(contract, impl typeinfo.TypeID, lifetime typeinfo.Lifetime) {
	m.bind(contract, binding{kind: CommandDirect, target: impl, lifetime: lifetime})
}

// BindAliased implements Binder.
func (m *Memory) BindAliased(contract, source typeinfo.TypeID, lifetime typeinfo.Lifetime) {
	m.bind(contract, binding{kind: CommandAliased, target: source, lifetime: lifetime})
}

// BindEnumeration implements Binder.
func (m *Memory) BindEnumeration(contract typeinfo.TypeID, lists ListSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[contract] = lists
}

func (m *Memory) bind(contract typeinfo.TypeID, b binding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings[contract] = b
}

// Root returns the process-wide scope.
func (m *Memory) Root() *Scope { return m.root }

// NewScope opens a request scope. Singletons still come from the root.
func (m *Memory) NewScope() *Scope {
	return &Scope{container: m, root: m.root, instances: make(map[typeinfo.TypeID]any)}
}

func (m *Memory) lookup(contract typeinfo.TypeID) (binding, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bindings[contract]
	return b, ok
}

func (m *Memory) enumeration(contract typeinfo.TypeID) (ListSource, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lists, ok := m.lists[contract]
	return lists, ok
}

func (m *Memory) factory(impl typeinfo.TypeID) (Factory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.factories[impl]
	return f, ok
}

// Resolve returns the single instance bound to contract in this scope.
// Enumeration bindings are answered by ResolveAll.
func (s *Scope) Resolve(contract typeinfo.TypeID) (any, error) {
	b, ok := s.container.lookup(contract)
	if !ok {
		return nil, &ResolveError{Contract: contract, Err: ErrNotBound}
	}

	if b.kind == CommandAliased {
		return s.Resolve(b.target)
	}

	f, ok := s.container.factory(b.target)
	if !ok {
		return nil, &ResolveError{Contract: contract, Err: fmt.Errorf("%w %s", ErrNoFactory, b.target)}
	}

	var cache *Scope
	switch b.lifetime {
	case typeinfo.LifetimeSingleton:
		cache = s.root
	case typeinfo.LifetimeScoped:
		cache = s
	default:
		return s.construct(contract, f)
	}

	cache.mu.Lock()
	if inst, ok := cache.instances[contract]; ok {
		cache.mu.Unlock()
		return inst, nil
	}
	cache.mu.Unlock()

	// Construct without holding the lock so factories can resolve their
	// own dependencies; the first stored instance wins.
	inst, err := s.construct(contract, f)
	if err != nil {
		return nil, err
	}
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if existing, ok := cache.instances[contract]; ok {
		return existing, nil
	}
	cache.instances[contract] = inst
	return inst, nil
}

// ResolveAll resolves every current member of an enumeration binding, in
// list order.
func (s *Scope) ResolveAll(contract typeinfo.TypeID) ([]any, error) {
	lists, ok := s.container.enumeration(contract)
	if !ok {
		return nil, &ResolveError{Contract: contract, Err: ErrNotEnumerable}
	}

	members := lists.Query(contract)
	out := make([]any, 0, len(members))
	for _, member := range members {
		inst, err := s.resolveMember(member)
		if err != nil {
			return nil, &ResolveError{Contract: contract, Err: err}
		}
		out = append(out, inst)
	}
	return out, nil
}

// resolveMember uses the member's own binding when it has one and falls
// back to a transient instance from its factory otherwise.
func (s *Scope) resolveMember(member typeinfo.TypeID) (any, error) {
	if _, ok := s.container.lookup(member); ok {
		return s.Resolve(member)
	}
	f, ok := s.container.factory(member)
	if !ok {
		return nil, &ResolveError{Contract: member, Err: fmt.Errorf("%w %s", ErrNoFactory, member)}
	}
	return s.construct(member, f)
}

func (s *Scope) construct(contract typeinfo.TypeID, f Factory) (any, error) {
	inst, err := f(s)
	if err != nil {
		return nil, &ResolveError{Contract: contract, Err: err}
	}
	return inst, nil
}
