// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/declwire/declwire/internal/container"
	"github.com/declwire/declwire/internal/listreg"
	"github.com/declwire/declwire/pkg/typeinfo"
)

func ids(names ...string) []typeinfo.TypeID {
	out := make([]typeinfo.TypeID, len(names))
	for i, n := range names {
		out[i] = typeinfo.TypeID(n)
	}
	return out
}

func contract(id string, parents ...string) *typeinfo.CandidateType {
	return &typeinfo.CandidateType{ID: typeinfo.TypeID(id), Kind: typeinfo.KindContract, Contracts: ids(parents...)}
}

func class(id, base string, contracts ...string) *typeinfo.CandidateType {
	return &typeinfo.CandidateType{
		ID:        typeinfo.TypeID(id),
		Kind:      typeinfo.KindClass,
		Base:      typeinfo.TypeID(base),
		Contracts: ids(contracts...),
		Origin:    id + ".catalog.cue",
	}
}

func register(t *typeinfo.CandidateType, lifetime typeinfo.Lifetime, contracts ...string) *typeinfo.CandidateType {
	c := *t
	c.Registrations = append(slices.Clone(t.Registrations), typeinfo.RegistrationIntent{Contracts: ids(contracts...), Lifetime: lifetime})
	return &c
}

func listIn(t *typeinfo.CandidateType, removeSubtypes bool, contracts ...string) *typeinfo.CandidateType {
	c := *t
	c.ListMemberships = append(slices.Clone(t.ListMemberships), typeinfo.ListMembershipIntent{Contracts: ids(contracts...), RemoveSubtypes: removeSubtypes})
	return &c
}

func overriding(t *typeinfo.CandidateType, types ...string) *typeinfo.CandidateType {
	c := *t
	c.Overrides = append(slices.Clone(t.Overrides), typeinfo.ExplicitOverride{Types: ids(types...)})
	return &c
}

// fixture builds a universe from the given candidates plus the shared
// contracts and a resolver recording its commands.
func fixture(t *testing.T, candidates []*typeinfo.CandidateType, opts ...Option) (*Resolver, *container.Recorder) {
	t.Helper()

	all := []*typeinfo.CandidateType{
		contract("Store", "Closer"),
		contract("Closer"),
		contract("Pinger"),
		contract("Plugin"),
		{ID: "Repo", Kind: typeinfo.KindContract, Open: true},
	}
	all = append(all, candidates...)
	u, err := typeinfo.NewUniverse(all...)
	if err != nil {
		t.Fatalf("NewUniverse() error = %v", err)
	}
	rec := container.NewRecorder()
	return New(u, rec, opts...), rec
}

func commandStrings(rec *container.Recorder) []string {
	out := make([]string, len(rec.Commands))
	for i, c := range rec.Commands {
		out[i] = c.String()
	}
	return out
}

func mustBinding(t *testing.T, r *Resolver, contract typeinfo.TypeID) *Binding {
	t.Helper()
	b, ok := r.Binding(contract)
	if !ok {
		t.Fatalf("no binding for %s", contract)
	}
	return b
}

func TestResolve_AliasesContractsOfOneIntent(t *testing.T) {
	t.Parallel()

	store := register(class("BaseStore", "", "Store", "Pinger"), typeinfo.LifetimeSingleton, "Store", "Pinger")
	r, rec := fixture(t, []*typeinfo.CandidateType{store})

	if err := r.Resolve([]*typeinfo.CandidateType{store}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{"Store -> BaseStore (singleton)", "Pinger => Store (singleton)"}
	if got := commandStrings(rec); !slices.Equal(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}

	pinger := mustBinding(t, r, "Pinger")
	if pinger.Uses == nil || pinger.Uses.Contract != "Store" {
		t.Errorf("Pinger.Uses = %v, want Store binding", pinger.Uses)
	}
	if pinger.Root() != mustBinding(t, r, "Store") {
		t.Error("Pinger root is not the Store binding")
	}
}

func TestResolve_InferredTargets(t *testing.T) {
	t.Parallel()

	store := class("BaseStore", "", "Store")
	store = register(store, typeinfo.LifetimeSingleton, "Store")
	store = register(store, typeinfo.LifetimeTransient)
	r, rec := fixture(t, []*typeinfo.CandidateType{store})

	if err := r.Resolve([]*typeinfo.CandidateType{store}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// The explicit intent runs first; the inferred one skips the claimed
	// Store and binds the type itself plus Closer, inherited through Store.
	want := []string{
		"Store -> BaseStore (singleton)",
		"BaseStore -> BaseStore (transient)",
		"Closer => BaseStore (transient)",
	}
	if got := commandStrings(rec); !slices.Equal(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
}

func TestResolve_SupersededAliasTakesNewLifetime(t *testing.T) {
	t.Parallel()

	base := register(class("BaseStore", "", "Store"), typeinfo.LifetimeSingleton, "Store", "Closer")
	pg := register(class("PGStore", "BaseStore"), typeinfo.LifetimeScoped, "Store")

	r, _ := fixture(t, []*typeinfo.CandidateType{base, pg})
	if err := r.Resolve([]*typeinfo.CandidateType{base, pg}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	store := mustBinding(t, r, "Store")
	closer := mustBinding(t, r, "Closer")
	if store.Lifetime != typeinfo.LifetimeScoped {
		t.Errorf("Store lifetime = %s, want scoped", store.Lifetime)
	}
	if closer.Uses != store || closer.Lifetime != typeinfo.LifetimeScoped {
		t.Errorf("Closer = {uses %v, lifetime %s}, want scoped alias of Store", closer.Uses, closer.Lifetime)
	}

	r.Seal()
	plan, err := r.Plan()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	for _, b := range plan {
		if b.Contract == "Closer" && b.Lifetime != typeinfo.LifetimeScoped {
			t.Errorf("planned Closer lifetime = %s, want scoped", b.Lifetime)
		}
	}
}

func TestResolve_SubtypeSupersedes(t *testing.T) {
	t.Parallel()

	base := register(class("BaseStore", "", "Store"), typeinfo.LifetimeSingleton, "Store", "Closer")
	pg := register(class("PGStore", "BaseStore"), typeinfo.LifetimeSingleton, "Store")

	t.Run("base first", func(t *testing.T) {
		t.Parallel()

		r, rec := fixture(t, []*typeinfo.CandidateType{base, pg})
		if err := r.Resolve([]*typeinfo.CandidateType{base, pg}); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}

		store := mustBinding(t, r, "Store")
		if store.Implementation != "PGStore" {
			t.Errorf("Store implementation = %s, want PGStore", store.Implementation)
		}
		closer := mustBinding(t, r, "Closer")
		if closer.Uses != store || closer.Implementation != "PGStore" {
			t.Errorf("Closer = {uses %v, impl %s}, want alias of PGStore's Store binding", closer.Uses, closer.Implementation)
		}
		if len(store.UsedBy) != 1 || store.UsedBy[0] != closer {
			t.Errorf("Store.UsedBy = %v, want [Closer]", store.UsedBy)
		}

		want := []string{
			"Store -> BaseStore (singleton)",
			"Closer => Store (singleton)",
			"Store -> PGStore (singleton)",
		}
		if got := commandStrings(rec); !slices.Equal(got, want) {
			t.Errorf("commands = %v, want %v", got, want)
		}
	})

	t.Run("subtype first", func(t *testing.T) {
		t.Parallel()

		r, rec := fixture(t, []*typeinfo.CandidateType{base, pg})
		if err := r.Resolve([]*typeinfo.CandidateType{pg, base}); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}

		store := mustBinding(t, r, "Store")
		if store.Implementation != "PGStore" {
			t.Errorf("Store implementation = %s, want PGStore", store.Implementation)
		}
		// BaseStore keeps PGStore's Store binding and aliases Closer onto it.
		closer := mustBinding(t, r, "Closer")
		if closer.Uses != store || closer.Implementation != "PGStore" {
			t.Errorf("Closer = {uses %v, impl %s}, want alias of PGStore's Store binding", closer.Uses, closer.Implementation)
		}
		want := []string{"Store -> PGStore (singleton)", "Closer => Store (singleton)"}
		if got := commandStrings(rec); !slices.Equal(got, want) {
			t.Errorf("commands = %v, want %v", got, want)
		}
	})
}

func TestResolve_SupersessionReachesNestedAliases(t *testing.T) {
	t.Parallel()

	root := register(class("Root", "", "Closer", "Pinger"), typeinfo.LifetimeSingleton, "Closer", "Pinger")
	base := register(class("BaseStore", "Root", "Store"), typeinfo.LifetimeSingleton, "Store", "Closer")
	pg := register(class("PGStore", "BaseStore"), typeinfo.LifetimeSingleton, "Store")
	candidates := []*typeinfo.CandidateType{base, root, pg}
	r, rec := fixture(t, candidates)

	if err := r.Resolve(candidates); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{
		"Store -> BaseStore (singleton)",
		"Closer => Store (singleton)",
		"Pinger => Closer (singleton)",
		"Store -> PGStore (singleton)",
	}
	if got := commandStrings(rec); !slices.Equal(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}

	store := mustBinding(t, r, "Store")
	pinger := mustBinding(t, r, "Pinger")
	if pinger.Implementation != "PGStore" || pinger.Root() != store {
		t.Errorf("Pinger = {impl %s, root %v}, want PGStore through Store", pinger.Implementation, pinger.Root().Contract)
	}
	if _, err := r.Plan(); err != nil {
		t.Errorf("Plan() error = %v", err)
	}
}

func TestResolve_SupersededAliasIsDetached(t *testing.T) {
	t.Parallel()

	base := register(class("BaseStore", "", "Store"), typeinfo.LifetimeSingleton, "Store", "Closer")
	pg := register(class("PGStore", "BaseStore"), typeinfo.LifetimeScoped, "Closer")
	r, _ := fixture(t, []*typeinfo.CandidateType{base, pg})

	if err := r.Resolve([]*typeinfo.CandidateType{base, pg}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	store := mustBinding(t, r, "Store")
	closer := mustBinding(t, r, "Closer")
	if len(store.UsedBy) != 0 {
		t.Errorf("Store.UsedBy = %v, want empty after its alias was superseded", store.UsedBy)
	}
	if closer.Uses != nil || closer.Implementation != "PGStore" || closer.Lifetime != typeinfo.LifetimeScoped {
		t.Errorf("Closer = %+v, want direct scoped PGStore binding", closer)
	}
}

func TestResolve_Conflicts(t *testing.T) {
	t.Parallel()

	base := register(class("BaseStore", "", "Store"), typeinfo.LifetimeSingleton, "Store")
	mem := register(class("MemStore", "", "Store"), typeinfo.LifetimeSingleton, "Store")
	memOverride := overriding(mem, "BaseStore")
	baseOverride := overriding(base, "MemStore")

	tests := []struct {
		name    string
		order   []*typeinfo.CandidateType
		wantErr bool
		want    typeinfo.TypeID
	}{
		{name: "unrelated", order: []*typeinfo.CandidateType{base, mem}, wantErr: true},
		{name: "new type overrides existing", order: []*typeinfo.CandidateType{base, memOverride}, want: "MemStore"},
		{name: "existing type overrides new", order: []*typeinfo.CandidateType{memOverride, base}, want: "MemStore"},
		{name: "override declared by first type", order: []*typeinfo.CandidateType{baseOverride, mem}, want: "BaseStore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, _ := fixture(t, tt.order)
			err := r.Resolve(tt.order)
			if tt.wantErr {
				var re *RegistrationError
				if !errors.As(err, &re) || !errors.Is(err, ErrConflictingRegistration) {
					t.Fatalf("Resolve() error = %v, want ConflictingRegistration", err)
				}
				if re.Contract != "Store" || re.Implementation != "MemStore" || re.Existing != "BaseStore" {
					t.Errorf("error = %+v, want Store/MemStore/BaseStore", re)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := mustBinding(t, r, "Store").Implementation; got != tt.want {
				t.Errorf("Store implementation = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolve_ConflictMessage(t *testing.T) {
	t.Parallel()

	base := register(class("BaseStore", "", "Store"), typeinfo.LifetimeSingleton, "Store")
	mem := register(class("MemStore", "", "Store"), typeinfo.LifetimeSingleton, "Store")
	r, _ := fixture(t, []*typeinfo.CandidateType{base, mem})

	err := r.Resolve([]*typeinfo.CandidateType{base, mem})
	want := "MemStore cannot be registered for Store: already bound to BaseStore, which is neither a base type nor explicitly overridden (declared in MemStore.catalog.cue)"
	if err == nil || err.Error() != want {
		t.Errorf("Error() = %v, want %q", err, want)
	}
}

func TestResolve_OverrideRevalidatesAliases(t *testing.T) {
	t.Parallel()

	base := register(class("BaseStore", "", "Store", "Pinger"), typeinfo.LifetimeSingleton, "Store", "Pinger")
	// MemStore replaces BaseStore for Store but cannot serve the aliased Pinger.
	mem := overriding(register(class("MemStore", "", "Store"), typeinfo.LifetimeSingleton, "Store"), "BaseStore")
	r, _ := fixture(t, []*typeinfo.CandidateType{base, mem})

	err := r.Resolve([]*typeinfo.CandidateType{base, mem})
	var re *RegistrationError
	if !errors.As(err, &re) || re.Kind != KindContractMismatch {
		t.Fatalf("Resolve() error = %v, want ContractMismatch", err)
	}
	if re.Contract != "Pinger" || re.Implementation != "MemStore" || re.Existing != "BaseStore" {
		t.Errorf("error = %+v, want Pinger/MemStore/BaseStore", re)
	}
}

func TestResolve_ValidationErrors(t *testing.T) {
	t.Parallel()

	mem := class("MemStore", "", "Store")

	tests := []struct {
		name      string
		candidate *typeinfo.CandidateType
		sentinel  error
		contract  typeinfo.TypeID
	}{
		{
			name:      "contract not implemented",
			candidate: register(mem, typeinfo.LifetimeSingleton, "Pinger"),
			sentinel:  ErrContractMismatch,
			contract:  "Pinger",
		},
		{
			name:      "list contract not implemented",
			candidate: listIn(register(mem, typeinfo.LifetimeSingleton, "Store"), false, "Plugin"),
			sentinel:  ErrContractMismatch,
			contract:  "Plugin",
		},
		{
			name:      "duplicate across intents",
			candidate: register(register(mem, typeinfo.LifetimeSingleton, "Store"), typeinfo.LifetimeTransient, "Store", "Closer"),
			sentinel:  ErrDuplicateClaim,
			contract:  "Store",
		},
		{
			name:      "duplicate within intent",
			candidate: register(mem, typeinfo.LifetimeSingleton, "Store", "Store"),
			sentinel:  ErrDuplicateClaim,
			contract:  "Store",
		},
		{
			name:      "unknown lifetime",
			candidate: register(mem, typeinfo.Lifetime("forever"), "Store"),
			sentinel:  ErrInvalidLifetimeIntent,
		},
		{
			name:      "two list memberships",
			candidate: listIn(listIn(register(mem, typeinfo.LifetimeSingleton, "Store"), false, "Store"), true, "Closer"),
			sentinel:  ErrMultipleSingleValuedAnnotations,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, _ := fixture(t, []*typeinfo.CandidateType{tt.candidate})
			err := r.Resolve([]*typeinfo.CandidateType{tt.candidate})
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.sentinel)
			}
			var re *RegistrationError
			if !errors.As(err, &re) {
				t.Fatalf("error %T is not a *RegistrationError", err)
			}
			if re.Contract != tt.contract || re.Implementation != "MemStore" {
				t.Errorf("error = %+v, want contract %q on MemStore", re, tt.contract)
			}
		})
	}
}

func TestResolve_OpenContractsSkipImplementationCheck(t *testing.T) {
	t.Parallel()

	mem := register(class("MemStore", ""), typeinfo.LifetimeTransient, "Repo")
	r, _ := fixture(t, []*typeinfo.CandidateType{mem})

	if err := r.Resolve([]*typeinfo.CandidateType{mem}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := mustBinding(t, r, "Repo").Implementation; got != "MemStore" {
		t.Errorf("Repo implementation = %s, want MemStore", got)
	}
}

func TestResolve_Eligibility(t *testing.T) {
	t.Parallel()

	testOnly := register(class("FakeStore", "", "Store"), typeinfo.LifetimeSingleton, "Store")
	testOnly.Environments = []string{"Test"}
	abstract := register(&typeinfo.CandidateType{ID: "AbstractStore", Kind: typeinfo.KindAbstract, Contracts: ids("Pinger")}, typeinfo.LifetimeSingleton, "Pinger")
	unregistered := class("Idle", "", "Closer")

	tests := []struct {
		name         string
		environments []string
		wantStore    bool
	}{
		{"production excludes test-only type", []string{"Production"}, false},
		{"test includes it", []string{"Test"}, true},
		{"any matching token", []string{"Production", "Test"}, true},
		{"no active environment", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			candidates := []*typeinfo.CandidateType{testOnly, abstract, unregistered}
			r, rec := fixture(t, candidates, WithEnvironments(tt.environments...))
			if err := r.Resolve(candidates); err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if _, ok := r.Binding("Store"); ok != tt.wantStore {
				t.Errorf("Store bound = %v, want %v", ok, tt.wantStore)
			}
			if _, ok := r.Binding("Pinger"); ok {
				t.Error("abstract type was registered")
			}
			if _, ok := r.Binding("Closer"); ok {
				t.Error("type without registration intents was registered")
			}
			if !tt.wantStore && len(rec.Commands) != 0 {
				t.Errorf("commands = %v, want none", commandStrings(rec))
			}
		})
	}
}

func TestResolve_ListMembership(t *testing.T) {
	t.Parallel()

	basePlugin := listIn(register(class("BasePlugin", "", "Plugin"), typeinfo.LifetimeTransient, "BasePlugin"), false, "Plugin")
	fancyPlugin := listIn(register(class("FancyPlugin", "BasePlugin"), typeinfo.LifetimeTransient, "FancyPlugin"), true, "Plugin")

	for name, order := range map[string][]*typeinfo.CandidateType{
		"supertype first": {basePlugin, fancyPlugin},
		"subtype first":   {fancyPlugin, basePlugin},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r, rec := fixture(t, order)
			if err := r.Resolve(order); err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := r.Lists().Query("Plugin"); !slices.Equal(got, ids("FancyPlugin")) {
				t.Errorf("Query(Plugin) = %v, want [FancyPlugin]", got)
			}
			if got := rec.Of(container.CommandEnumeration); len(got) != 1 || got[0].Contract != "Plugin" {
				t.Errorf("enumeration commands = %v, want exactly one for Plugin", got)
			}
			if rec.Lists != r.Lists() {
				t.Error("enumeration command was not given the resolver's tracker")
			}
		})
	}
}

func TestResolve_ListRegisteredOncePerIntent(t *testing.T) {
	t.Parallel()

	plugin := class("BasePlugin", "", "Plugin")
	plugin = register(plugin, typeinfo.LifetimeSingleton, "BasePlugin")
	plugin = register(plugin, typeinfo.LifetimeTransient, "Plugin")
	plugin = listIn(plugin, false, "Plugin")
	r, rec := fixture(t, []*typeinfo.CandidateType{plugin})

	if err := r.Resolve([]*typeinfo.CandidateType{plugin}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := r.Lists().Query("Plugin"); !slices.Equal(got, ids("BasePlugin")) {
		t.Errorf("Query(Plugin) = %v, want [BasePlugin]", got)
	}
	if got := len(rec.Of(container.CommandEnumeration)); got != 1 {
		t.Errorf("enumeration commands = %d, want 1", got)
	}
}

func TestResolve_AcrossCatalogs(t *testing.T) {
	t.Parallel()

	base := register(class("BaseStore", "", "Store"), typeinfo.LifetimeSingleton, "Store")
	pg := register(class("PGStore", "BaseStore"), typeinfo.LifetimeSingleton, "Store")
	r, _ := fixture(t, []*typeinfo.CandidateType{base, pg})

	if err := r.Resolve([]*typeinfo.CandidateType{base}); err != nil {
		t.Fatalf("Resolve(first catalog) error = %v", err)
	}
	if err := r.Resolve([]*typeinfo.CandidateType{pg}); err != nil {
		t.Fatalf("Resolve(second catalog) error = %v", err)
	}
	if got := mustBinding(t, r, "Store").Implementation; got != "PGStore" {
		t.Errorf("Store implementation = %s, want PGStore", got)
	}
}

func TestResolve_Sealed(t *testing.T) {
	t.Parallel()

	store := register(class("BaseStore", "", "Store"), typeinfo.LifetimeSingleton, "Store")
	r, _ := fixture(t, []*typeinfo.CandidateType{store})
	r.Seal()

	if !r.Sealed() || !r.Lists().Sealed() {
		t.Fatal("Seal() did not seal the resolver and its tracker")
	}
	if err := r.Resolve([]*typeinfo.CandidateType{store}); !errors.Is(err, ErrSealed) {
		t.Errorf("Resolve() error = %v, want ErrSealed", err)
	}
	if err := r.Register(store); !errors.Is(err, ErrSealed) {
		t.Errorf("Register() error = %v, want ErrSealed", err)
	}
	if err := r.Lists().Register("BaseStore", "Store", false); !errors.Is(err, listreg.ErrSealed) {
		t.Errorf("Lists().Register() error = %v, want listreg.ErrSealed", err)
	}
}

func TestResolver_PlanAndBindings(t *testing.T) {
	t.Parallel()

	store := register(class("BaseStore", "", "Store", "Pinger"), typeinfo.LifetimeSingleton, "Store", "Closer", "Pinger")
	plugin := register(class("APlugin", "", "Plugin"), typeinfo.LifetimeTransient, "Plugin")
	candidates := []*typeinfo.CandidateType{store, plugin}
	r, _ := fixture(t, candidates, WithEnvironments("b", "a"))

	if err := r.Resolve(candidates); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	var contracts []string
	for _, b := range r.Bindings() {
		contracts = append(contracts, string(b.Contract))
	}
	if want := []string{"Closer", "Pinger", "Plugin", "Store"}; !slices.Equal(contracts, want) {
		t.Errorf("Bindings() = %v, want %v", contracts, want)
	}

	plan, err := r.Plan()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	var ordered []string
	for _, b := range plan {
		ordered = append(ordered, string(b.Contract))
	}
	if want := []string{"Plugin", "Store", "Closer", "Pinger"}; !slices.Equal(ordered, want) {
		t.Errorf("Plan() = %v, want %v", ordered, want)
	}

	if got := strings.Join(r.Environments(), ","); got != "a,b" {
		t.Errorf("Environments() = %s, want a,b", got)
	}
}

func TestResolve_NilAndEmpty(t *testing.T) {
	t.Parallel()

	r, rec := fixture(t, nil)
	if err := r.Resolve(nil); err != nil {
		t.Fatalf("Resolve(nil) error = %v", err)
	}
	if err := r.Register(nil); err != nil {
		t.Fatalf("Register(nil) error = %v", err)
	}
	if len(rec.Commands) != 0 || len(r.Bindings()) != 0 {
		t.Error("empty input produced bindings")
	}
}
