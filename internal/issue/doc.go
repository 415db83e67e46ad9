// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown help
// pages for the failures users hit most: unreadable catalogs, registration
// conflicts and configuration problems. The CLI prints the short error and,
// in verbose mode, renders the matching page with glamour.
package issue
