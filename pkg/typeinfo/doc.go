// SPDX-License-Identifier: MPL-2.0

// Package typeinfo defines the type metadata that the registration resolver
// consumes: candidate type descriptors, their registration, list-membership,
// override and environment intents, and the TypeSystem queries the resolver
// asks about them.
//
// The resolver never inspects a type's raw metadata. It only sees the
// structured facts on CandidateType and answers to the two hierarchy
// questions (is-subtype-of, implements) provided by a TypeSystem.
//
// Universe is the reference TypeSystem. It is built from materialized
// descriptors (usually decoded from catalog files, see pkg/catalog) and
// answers hierarchy queries by walking declared base types and contracts.
//
// This package is a leaf dependency: it imports only the standard library.
package typeinfo
