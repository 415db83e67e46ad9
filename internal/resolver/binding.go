// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"slices"

	"github.com/declwire/declwire/pkg/typeinfo"
)

// Binding is the live mapping of one contract. Bindings that share an
// instance form a forest: an aliased binding Uses its parent, and the parent
// lists it in UsedBy.
type Binding struct {
	Contract       typeinfo.TypeID
	Implementation typeinfo.TypeID
	Lifetime       typeinfo.Lifetime
	Uses           *Binding
	UsedBy         []*Binding
}

// Aliased reports whether the binding shares another binding's instance.
func (b *Binding) Aliased() bool { return b.Uses != nil }

// Root follows Uses to the binding that actually constructs the instance.
func (b *Binding) Root() *Binding {
	cur := b
	for cur.Uses != nil {
		cur = cur.Uses
	}
	return cur
}

// descendants returns every binding that shares b's instance through a
// chain of aliases, parents before children.
func (b *Binding) descendants() []*Binding {
	var out []*Binding
	queue := slices.Clone(b.UsedBy)
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		out = append(out, d)
		queue = append(queue, d.UsedBy...)
	}
	return out
}

func (b *Binding) adopt(child *Binding) {
	child.Uses = b
	b.UsedBy = append(b.UsedBy, child)
}

func (b *Binding) detach() {
	if b.Uses == nil {
		return
	}
	parent := b.Uses
	parent.UsedBy = slices.DeleteFunc(parent.UsedBy, func(c *Binding) bool { return c == b })
	b.Uses = nil
}
