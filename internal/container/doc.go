// SPDX-License-Identifier: MPL-2.0

// Package container defines the service-container collaborator the resolver
// emits binding commands to, and two implementations of it:
//
//   - Recorder keeps the emitted commands in order. It backs plan output and
//     tests that assert on the exact command stream.
//   - Memory is a small in-memory reference container. It constructs
//     instances from registered factories, honours singleton, scoped and
//     transient lifetimes, follows aliased bindings so contracts registered
//     together share one instance, and answers enumeration bindings by asking
//     the list tracker for the current members.
//
// The resolver itself never constructs anything; Memory exists so the emitted
// commands can be exercised end to end.
package container
