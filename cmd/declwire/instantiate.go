// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/declwire/declwire/internal/container"
	"github.com/declwire/declwire/internal/report"
	"github.com/declwire/declwire/pkg/typeinfo"
)

// placeholder stands in for a constructed object. Serial numbers are
// assigned in construction order, so two contracts sharing an instance
// print the same number.
type placeholder struct {
	typ    typeinfo.TypeID
	serial int
}

func (p *placeholder) String() string { return fmt.Sprintf("#%d %s", p.serial, p.typ) }

// instantiateAll provides a placeholder factory for every concrete type,
// resolves each binding and list of rep in the root scope and prints what
// was constructed.
func instantiateAll(w io.Writer, res *resolution, rep *report.Report) error {
	serial := 0
	for _, c := range res.universe.Candidates() {
		if !c.IsConcrete() {
			continue
		}
		id := c.ID
		res.memory.Provide(id, func(*container.Scope) (any, error) {
			serial++
			return &placeholder{typ: id, serial: serial}, nil
		})
	}

	scope := res.memory.Root()
	width := 0
	for _, b := range rep.Bindings {
		width = max(width, len(b.Contract))
	}
	for _, l := range rep.Lists {
		width = max(width, len(l.Contract))
	}
	pad := func(s string) string { return s + strings.Repeat(" ", width-len(s)) }

	var b strings.Builder
	b.WriteString("\n" + TitleStyle.Render("Instances") + "\n")
	for _, bd := range rep.Bindings {
		inst, err := scope.Resolve(typeinfo.TypeID(bd.Contract))
		if err != nil {
			return failure(err)
		}
		fmt.Fprintf(&b, "  %s %v\n", CmdStyle.Render(pad(bd.Contract)), inst)
	}
	for _, l := range rep.Lists {
		insts, err := scope.ResolveAll(typeinfo.TypeID(l.Contract))
		if err != nil {
			return failure(err)
		}
		parts := make([]string, len(insts))
		for i, inst := range insts {
			parts[i] = fmt.Sprint(inst)
		}
		fmt.Fprintf(&b, "  %s [%s]\n", CmdStyle.Render(pad(l.Contract)), strings.Join(parts, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
