// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/declwire/declwire/internal/config"
)

// Styles holds the lipgloss styles of the text format.
type Styles struct {
	Title    lipgloss.Style
	Section  lipgloss.Style
	Contract lipgloss.Style
	Impl     lipgloss.Style
	Lifetime lipgloss.Style
	Muted    lipgloss.Style
}

// NewRenderer returns a lipgloss renderer for w honoring the color mode.
// ColorAuto leaves color detection to the renderer.
func NewRenderer(w io.Writer, mode config.ColorMode) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		r.SetColorProfile(termenv.TrueColor)
	}
	return r
}

// NewStyles builds the text styles on r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Section:  r.NewStyle().Bold(true).Underline(true),
		Contract: r.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		Impl:     r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		Lifetime: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// Encode writes rep to w in the given format. Text output is styled with
// colors chosen by mode.
func Encode(w io.Writer, rep *Report, format config.OutputFormat, mode config.ColorMode) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case config.FormatTOML:
		if err := toml.NewEncoder(w).Encode(rep); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	case config.FormatText, "":
		_, err := io.WriteString(w, Text(rep, NewStyles(NewRenderer(w, mode))))
		return err
	default:
		_, errs := format.IsValid()
		return errs[0]
	}
}

// Text renders rep for a terminal.
//
//	declwire plan 6f1c...
//	environments: Production
//	catalogs:     stores (2 types)
//
//	Bindings
//	  Store  -> PGStore (singleton)
//	  Closer => Store (singleton)
//
//	Lists
//	  Plugin -> [A, B]
func Text(rep *Report, s Styles) string {
	var b strings.Builder

	b.WriteString(s.Title.Render("declwire plan"))
	b.WriteString(" " + s.Muted.Render(rep.RunID) + "\n")

	envs := "(none)"
	if len(rep.Environments) > 0 {
		envs = strings.Join(rep.Environments, ", ")
	}
	b.WriteString("environments: " + envs + "\n")

	cats := make([]string, len(rep.Catalogs))
	for i, c := range rep.Catalogs {
		cats[i] = fmt.Sprintf("%s (%d types)", c.Name, c.Types)
	}
	b.WriteString("catalogs:     " + strings.Join(cats, ", ") + "\n")

	width := 0
	for _, bd := range rep.Bindings {
		width = max(width, len(bd.Contract))
	}
	for _, l := range rep.Lists {
		width = max(width, len(l.Contract))
	}
	pad := func(c string) string { return c + strings.Repeat(" ", width-len(c)) }

	b.WriteString("\n" + s.Section.Render("Bindings") + "\n")
	if len(rep.Bindings) == 0 {
		b.WriteString("  " + s.Muted.Render("(none)") + "\n")
	}
	for _, bd := range rep.Bindings {
		b.WriteString("  " + s.Contract.Render(pad(bd.Contract)))
		if bd.Uses != "" {
			b.WriteString(" => " + s.Contract.Render(bd.Uses))
		} else {
			b.WriteString(" -> " + s.Impl.Render(bd.Implementation))
		}
		b.WriteString(" " + s.Lifetime.Render("("+bd.Lifetime+")"))
		if bd.Uses != "" {
			b.WriteString(" " + s.Muted.Render("["+bd.Implementation+"]"))
		}
		b.WriteString("\n")
	}

	if len(rep.Lists) > 0 {
		b.WriteString("\n" + s.Section.Render("Lists") + "\n")
		for _, l := range rep.Lists {
			members := make([]string, len(l.Members))
			for i, m := range l.Members {
				members[i] = s.Impl.Render(m)
			}
			b.WriteString("  " + s.Contract.Render(pad(l.Contract)) + " -> [" + strings.Join(members, ", ") + "]\n")
		}
	}

	fmt.Fprintf(&b, "\n%s\n", s.Muted.Render(fmt.Sprintf(
		"%d bindings (%d aliased), %d lists", len(rep.Bindings), rep.Aliases(), len(rep.Lists))))
	return b.String()
}
