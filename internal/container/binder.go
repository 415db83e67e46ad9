// SPDX-License-Identifier: MPL-2.0

package container

import (
	"fmt"

	"github.com/declwire/declwire/pkg/typeinfo"
)

const (
	// CommandDirect binds a contract to an implementation type.
	CommandDirect CommandKind = "direct"
	// CommandAliased binds a contract to whatever another contract resolves to.
	CommandAliased CommandKind = "aliased"
	// CommandEnumeration binds a contract to the list of its registered members.
	CommandEnumeration CommandKind = "enumeration"
)

type (
	// ListSource answers which types currently belong to a list contract.
	ListSource interface {
		Query(contract typeinfo.TypeID) []typeinfo.TypeID
	}

	// Binder receives binding commands. A later direct or aliased bind for a
	// contract replaces the earlier one; enumeration binds are kept apart
	// from them, so a contract may have both.
	Binder interface {
		// BindDirect binds contract to a fresh construction of impl.
		BindDirect(contract, impl typeinfo.TypeID, lifetime typeinfo.Lifetime)
		// BindAliased binds contract to the same instance source resolves to.
		BindAliased(contract, source typeinfo.TypeID, lifetime typeinfo.Lifetime)
		// BindEnumeration installs the "all implementations of contract"
		// binding, answered by querying lists on every request.
		BindEnumeration(contract typeinfo.TypeID, lists ListSource)
	}

	// CommandKind discriminates recorded commands.
	CommandKind string

	// Command is one recorded binding command.
	Command struct {
		Kind     CommandKind
		Contract typeinfo.TypeID
		// Target is the implementation for direct commands and the source
		// contract for aliased commands. Empty for enumerations.
		Target   typeinfo.TypeID
		Lifetime typeinfo.Lifetime
	}

	// Recorder is a Binder that records every command in emission order.
	Recorder struct {
		Commands []Command
		// Lists is the source handed to the first enumeration command.
		Lists ListSource
	}
)

// String renders the command on one line.
func (c Command) String() string {
	switch c.Kind {
	case CommandDirect:
		return fmt.Sprintf("%s -> %s (%s)", c.Contract, c.Target, c.Lifetime)
	case CommandAliased:
		return fmt.Sprintf("%s => %s (%s)", c.Contract, c.Target, c.Lifetime)
	case CommandEnumeration:
		return fmt.Sprintf("%s -> [*]", c.Contract)
	default:
		return fmt.Sprintf("%s ? %s", c.Contract, c.Kind)
	}
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// BindDirect records a direct command.
func (r *Recorder) BindDirect(contract, impl typeinfo.TypeID, lifetime typeinfo.Lifetime) {
	r.Commands = append(r.Commands, Command{Kind: CommandDirect, Contract: contract, Target: impl, Lifetime: lifetime})
}

// BindAliased records an aliased command.
func (r *Recorder) BindAliased(contract, source typeinfo.TypeID, lifetime typeinfo.Lifetime) {
	r.Commands = append(r.Commands, Command{Kind: CommandAliased, Contract: contract, Target: source, Lifetime: lifetime})
}

// BindEnumeration records an enumeration command.
func (r *Recorder) BindEnumeration(contract typeinfo.TypeID, lists ListSource) {
	if r.Lists == nil {
		r.Lists = lists
	}
	r.Commands = append(r.Commands, Command{Kind: CommandEnumeration, Contract: contract})
}

// Of returns the recorded commands of one kind, in order.
func (r *Recorder) Of(kind CommandKind) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Tee fans commands out to several binders in order.
type Tee []Binder

// BindDirect forwards to every binder.
func (t Tee) BindDirect(contract, impl typeinfo.TypeID, lifetime typeinfo.Lifetime) {
	for _, b := range t {
		b.BindDirect(contract, impl, lifetime)
	}
}

// BindAliased forwards to every binder.
func (t Tee) BindAliased(contract, source typeinfo.TypeID, lifetime typeinfo.Lifetime) {
	for _, b := range t {
		b.BindAliased(contract, source, lifetime)
	}
}

// BindEnumeration forwards to every binder.
func (t Tee) BindEnumeration(contract typeinfo.TypeID, lists ListSource) {
	for _, b := range t {
		b.BindEnumeration(contract, lists)
	}
}
