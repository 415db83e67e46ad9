// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	ids := []Id{
		CatalogNotFoundId,
		CatalogParseErrorId,
		TypeCollisionId,
		ContractMismatchId,
		DuplicateClaimId,
		ConflictingRegistrationId,
		InvalidLifetimeId,
		MultipleListMembershipsId,
		ConfigLoadFailedId,
		WatchFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}

	if CatalogNotFoundId != 1 {
		t.Errorf("CatalogNotFoundId = %d, want 1", CatalogNotFoundId)
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if got := Get(0); got != nil {
		t.Errorf("Get(0) = %v, want nil", got)
	}
}

func TestValues_SortedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("len(Values()) = %d, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not sorted at %d: %d >= %d", i, values[i-1].Id(), values[i].Id())
		}
	}
}

func TestIssue_SlugsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]Id)
	for _, i := range Values() {
		if i.Slug() == "" {
			t.Errorf("issue %d has an empty slug", i.Id())
			continue
		}
		if prev, dup := seen[i.Slug()]; dup {
			t.Errorf("slug %q used by %d and %d", i.Slug(), prev, i.Id())
		}
		seen[i.Slug()] = i.Id()

		got, ok := Lookup(i.Slug())
		if !ok || got.Id() != i.Id() {
			t.Errorf("Lookup(%q) = %v, %v", i.Slug(), got, ok)
		}
	}

	if _, ok := Lookup("no-such-issue"); ok {
		t.Error("Lookup() found an unknown slug")
	}
}

func TestIssue_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   Id
		want string
	}{
		{CatalogNotFoundId, "No catalogs found!"},
		{ConflictingRegistrationId, "Two implementations claim the same contract!"},
		{InvalidLifetimeId, "Unsupported lifetime!"},
	}

	for _, tt := range tests {
		t.Run(Get(tt.id).Slug(), func(t *testing.T) {
			t.Parallel()

			if got := Get(tt.id).Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}

	untitled := &Issue{slug: "bare", mdMsg: "no heading here"}
	if got := untitled.Title(); got != "bare" {
		t.Errorf("Title() without heading = %q, want slug", got)
	}
}

func TestIssue_MarkdownMsg(t *testing.T) {
	t.Parallel()

	msg := string(Get(MultipleListMembershipsId).MarkdownMsg())
	if !strings.Contains(msg, "remove_subtypes") {
		t.Error("MarkdownMsg() should show the list declaration syntax")
	}
}

func TestIssue_DocLinks(t *testing.T) {
	t.Parallel()

	i := &Issue{docLinks: []HttpLink{"https://example.com/a"}}
	links := i.DocLinks()
	links[0] = "changed"
	if i.docLinks[0] != "https://example.com/a" {
		t.Error("DocLinks() should return a copy")
	}
}

// Not parallel: replaces the package-level renderer.
func TestIssue_Render(t *testing.T) {
	orig := render
	t.Cleanup(func() { render = orig })

	var gotMD, gotStyle string
	render = func(in, stylePath string) (string, error) {
		gotMD, gotStyle = in, stylePath
		return "rendered", nil
	}

	i := &Issue{
		slug:     "demo",
		mdMsg:    "# Demo",
		docLinks: []HttpLink{"https://example.com/docs"},
	}
	out, err := i.Render("dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "rendered" {
		t.Errorf("Render() = %q", out)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.HasPrefix(gotMD, "# Demo") || !strings.Contains(gotMD, "- <https://example.com/docs>") {
		t.Errorf("markdown passed to renderer = %q", gotMD)
	}
}
