// SPDX-License-Identifier: MPL-2.0

// Package report turns a sealed resolver into a serializable registration
// plan and renders it as styled text, JSON, YAML or TOML.
package report
