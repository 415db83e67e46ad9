// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"fmt"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/declwire/declwire/internal/container"
	"github.com/declwire/declwire/pkg/typeinfo"
)

// genCandidates draws a small hierarchy of classes over three contracts. Each
// class may derive from an earlier one and registers either inferred targets
// or a subset of the contracts it implements.
func genCandidates(t *rapid.T) (*typeinfo.Universe, []*typeinfo.CandidateType) {
	contracts := []*typeinfo.CandidateType{contract("C0"), contract("C1"), contract("C2", "C0")}
	u, err := typeinfo.NewUniverse(contracts...)
	if err != nil {
		t.Fatalf("NewUniverse() error = %v", err)
	}

	n := rapid.IntRange(1, 6).Draw(t, "types")
	var candidates []*typeinfo.CandidateType
	for i := range n {
		c := &typeinfo.CandidateType{ID: typeinfo.TypeID(fmt.Sprintf("T%d", i)), Kind: typeinfo.KindClass}
		if i > 0 && rapid.Bool().Draw(t, "derives") {
			c.Base = candidates[rapid.IntRange(0, i-1).Draw(t, "base")].ID
		}
		for _, name := range []typeinfo.TypeID{"C0", "C1", "C2"} {
			if rapid.Bool().Draw(t, "declares "+string(name)) {
				c.Contracts = append(c.Contracts, name)
			}
		}
		if err := u.Add(c); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		lifetime := rapid.SampledFrom(typeinfo.Lifetimes()).Draw(t, "lifetime")
		intent := typeinfo.RegistrationIntent{Lifetime: lifetime}
		if rapid.Bool().Draw(t, "explicit") {
			for _, name := range u.Contracts(c.ID) {
				if rapid.Bool().Draw(t, "claims "+string(name)) {
					intent.Contracts = append(intent.Contracts, name)
				}
			}
		}
		c.Registrations = []typeinfo.RegistrationIntent{intent}
		candidates = append(candidates, c)
	}
	return u, candidates
}

func TestResolve_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		u, candidates := genCandidates(t)

		recA, recB := container.NewRecorder(), container.NewRecorder()
		a, b := New(u, recA), New(u, recB)
		errA, errB := a.Resolve(candidates), b.Resolve(candidates)

		if fmt.Sprint(errA) != fmt.Sprint(errB) {
			t.Fatalf("same input gave different errors: %v vs %v", errA, errB)
		}
		if !slices.Equal(commandStrings(recA), commandStrings(recB)) {
			t.Fatalf("same input gave different commands:\n%v\n%v", commandStrings(recA), commandStrings(recB))
		}
		if errA != nil {
			return
		}

		plan, err := a.Plan()
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		for _, binding := range plan {
			if live, _ := a.Binding(binding.Contract); live != binding {
				t.Fatalf("plan holds a dead binding for %s", binding.Contract)
			}
			if !u.Implements(binding.Implementation, binding.Contract) {
				t.Fatalf("%s bound to %s, which does not implement it", binding.Contract, binding.Implementation)
			}
			if binding.Uses != nil {
				if live, _ := a.Binding(binding.Uses.Contract); live != binding.Uses {
					t.Fatalf("%s aliases a dead binding", binding.Contract)
				}
				if binding.Implementation != binding.Uses.Implementation {
					t.Fatalf("%s implementation %s differs from its parent's %s",
						binding.Contract, binding.Implementation, binding.Uses.Implementation)
				}
				if !slices.Contains(binding.Uses.UsedBy, binding) {
					t.Fatalf("%s missing from its parent's UsedBy", binding.Contract)
				}
			}
		}

		// Every claimed contract of every registered candidate is bound.
		for _, c := range candidates {
			for _, intent := range c.Registrations {
				for _, name := range intent.Contracts {
					if _, ok := a.Binding(name); !ok {
						t.Fatalf("%s claimed by %s is unbound", name, c.ID)
					}
				}
			}
		}
	})
}
