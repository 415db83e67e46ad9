// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	CatalogNotFoundId Id = iota + 1
	CatalogParseErrorId
	TypeCollisionId
	ContractMismatchId
	DuplicateClaimId
	ConflictingRegistrationId
	InvalidLifetimeId
	MultipleListMembershipsId
	ConfigLoadFailedId
	WatchFailedId
)

type (
	// Id identifies a help page.
	Id int

	// MarkdownMsg is the Markdown body of a help page.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is one help page.
	Issue struct {
		id       Id
		slug     string
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

var (
	render = glamour.Render

	catalogNotFoundIssue = &Issue{
		id:   CatalogNotFoundId,
		slug: "catalog-not-found",
		mdMsg: `
# No catalogs found!

declwire needs at least one type catalog to resolve.

## Where catalogs are looked up
1. Paths given on the command line (files or directories)
2. ` + "`search_paths`" + ` from your config file
3. The current directory

Directories are searched with the ` + "`catalog_patterns`" + ` globs,
` + "`**/*.catalog.cue`" + ` and ` + "`**/*.catalog.yaml`" + ` by default.

## Things you can try
~~~
$ declwire resolve ./catalogs
$ declwire config show
~~~`,
	}

	catalogParseErrorIssue = &Issue{
		id:   CatalogParseErrorId,
		slug: "catalog-parse-error",
		mdMsg: `
# Failed to parse a catalog!

The catalog does not match the catalog schema.

## Common causes
- A ` + "`kind`" + ` other than class, abstract or contract
- A misspelt field (catalog definitions are closed)
- A ` + "`list`" + ` or ` + "`overrides`" + ` entry with an empty list
- An id declared twice in one file

## Minimal catalog
~~~cue
name: "stores"
types: [
	{id: "Store", kind: "contract"},
	{id: "PGStore", contracts: ["Store"], register: [{lifetime: "singleton"}]},
]
~~~`,
	}

	typeCollisionIssue = &Issue{
		id:   TypeCollisionId,
		slug: "type-collision",
		mdMsg: `
# Type declared in two catalogs!

Every type id must be declared exactly once across all loaded catalogs.
Other catalogs may still reference it by id.

## Things you can try
- Remove one of the declarations
- Rename one of the types if they are really different`,
	}

	contractMismatchIssue = &Issue{
		id:   ContractMismatchId,
		slug: "contract-mismatch",
		mdMsg: `
# Type does not implement the contract!

A registration or list membership names a contract the type does not
implement: it is not the type, not one of its bases, and not among the
contracts declared on it, its bases or the contracts it implements.

This also happens when a type supersedes a binding that other contracts
alias: every aliased contract must be implemented by the new type.

## Things you can try
- Add the contract to the type's ` + "`contracts`" + `
- Remove the contract from the registration
- Mark generic contracts as ` + "`open: true`",
	}

	duplicateClaimIssue = &Issue{
		id:   DuplicateClaimId,
		slug: "duplicate-claim",
		mdMsg: `
# Contract claimed twice by one type!

Each registration intent of a type must claim different contracts.

~~~cue
register: [
	{lifetime: "singleton", contracts: ["Store"]},
	{lifetime: "transient", contracts: ["Store"]}, // claimed again
]
~~~`,
	}

	conflictingRegistrationIssue = &Issue{
		id:   ConflictingRegistrationId,
		slug: "conflicting-registration",
		mdMsg: `
# Two implementations claim the same contract!

A contract may only be re-bound by a type that derives from the bound
implementation, or by a type that explicitly overrides it.

## Things you can try
- Derive the new type from the existing implementation
- Declare the override on either type:
~~~cue
overrides: [{types: ["stores.MemStore"]}]
~~~
- Restrict one of the types to an environment:
~~~cue
environments: ["Test"]
~~~`,
	}

	invalidLifetimeIssue = &Issue{
		id:   InvalidLifetimeId,
		slug: "invalid-lifetime",
		mdMsg: `
# Unsupported lifetime!

Registration lifetimes must be one of:

| lifetime | instance is shared |
|---|---|
| singleton | once per process |
| scoped | once per request scope |
| transient | never, a new instance per resolve |`,
	}

	multipleListMembershipsIssue = &Issue{
		id:   MultipleListMembershipsId,
		slug: "multiple-list-memberships",
		mdMsg: `
# More than one list declaration!

A type may carry at most one ` + "`list`" + ` entry. Put every list contract
into that single entry:

~~~cue
list: [{contracts: ["Plugin", "Exporter"], remove_subtypes: true}]
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		slug: "config-load-failed",
		mdMsg: `
# Failed to load configuration!

## Things you can try
- Print the effective configuration:
~~~
$ declwire config show
~~~
- Write a fresh default file:
~~~
$ declwire config init
~~~
- Check ` + "`output.format`" + ` is one of text, json, yaml or toml`,
	}

	watchFailedIssue = &Issue{
		id:   WatchFailedId,
		slug: "watch-failed",
		mdMsg: `
# File watching stopped!

The watcher hit an error it cannot recover from, usually the OS limit on
watched files or a watched directory being removed.

## Things you can try
- Narrow the watched paths
- On Linux, raise ` + "`fs.inotify.max_user_watches`",
	}

	issues = map[Id]*Issue{
		catalogNotFoundIssue.id:         catalogNotFoundIssue,
		catalogParseErrorIssue.id:       catalogParseErrorIssue,
		typeCollisionIssue.id:           typeCollisionIssue,
		contractMismatchIssue.id:        contractMismatchIssue,
		duplicateClaimIssue.id:          duplicateClaimIssue,
		conflictingRegistrationIssue.id: conflictingRegistrationIssue,
		invalidLifetimeIssue.id:         invalidLifetimeIssue,
		multipleListMembershipsIssue.id: multipleListMembershipsIssue,
		configLoadFailedIssue.id:        configLoadFailedIssue,
		watchFailedIssue.id:             watchFailedIssue,
	}
)

// Id returns the page id.
func (i *Issue) Id() Id { return i.id }

// Slug returns the short name used on the command line.
func (i *Issue) Slug() string { return i.slug }

// MarkdownMsg returns the page body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Title returns the first heading of the page.
func (i *Issue) Title() string {
	for line := range strings.Lines(string(i.mdMsg)) {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return title
		}
	}
	return i.slug
}

// Render renders the page as terminal Markdown with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		var b strings.Builder
		b.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			b.WriteString("- <" + string(link) + ">\n")
		}
		md += b.String()
	}
	return render(md, stylePath)
}

// Values returns every page ordered by id.
func Values() []*Issue {
	ids := maps.Keys(issues)
	slices.Sort(ids)
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the page with the given id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds a page by slug.
func Lookup(slug string) (*Issue, bool) {
	for _, i := range issues {
		if i.slug == slug {
			return i, true
		}
	}
	return nil, false
}
