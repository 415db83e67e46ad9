// SPDX-License-Identifier: MPL-2.0

// Package resolver turns declared registration intents into a consistent
// contract-to-implementation table.
//
// Candidates are processed strictly in the order given. For every eligible
// concrete type each registration intent names (or infers) target contracts;
// each target is then bound fresh, aliased onto the first binding of the same
// intent, kept as it is, or rejected as a conflict. A type supersedes an
// existing binding when it derives from the bound implementation or names it
// in an explicit override; the superseded binding's aliases move to the new
// one. Types that also declare list membership are added to the list tracker
// and an enumeration binding is installed once per list contract.
//
// The first error aborts the pass. Commands already sent to the container are
// not rolled back.
package resolver
