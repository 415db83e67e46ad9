// SPDX-License-Identifier: MPL-2.0

// Package listreg tracks which concrete types satisfy each list contract.
//
// A list contract resolves to every currently registered implementation
// rather than to one. Membership is built in registration order and supports
// subtype-displaces-supertype semantics: a type that joins a list with
// RemoveSubtypes set removes its strict supertypes from that list, and blocks
// those supertypes from joining later.
//
// The result depends on registration order in corner cases. This is kept on
// purpose; there is no second normalization pass.
package listreg
