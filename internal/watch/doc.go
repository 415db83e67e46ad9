// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when catalog files change.
//
// Roots may be directories, watched recursively and filtered by doublestar
// patterns, or single files, which always match. Events are coalesced for a
// debounce period and delivered as one sorted batch of absolute paths.
// Callbacks never overlap: changes arriving during a run are delivered in
// the next batch once it returns.
package watch
