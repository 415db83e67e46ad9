// SPDX-License-Identifier: MPL-2.0

// Package discovery finds catalog files, parses them and assembles the type
// universe the resolver runs against.
//
// Catalogs are collected in a fixed order because registration is order
// dependent: explicit paths in argument order, or, when none are given, the
// base directory followed by each configured search path. Inside a directory
// files matching the catalog patterns are taken in lexical order.
package discovery
