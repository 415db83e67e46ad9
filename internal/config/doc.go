// SPDX-License-Identifier: MPL-2.0

// Package config loads declwire settings with Viper, using CUE as the file
// format.
//
// The file is config.cue in the platform config directory
// ($XDG_CONFIG_HOME/declwire on Linux, ~/Library/Application Support/declwire
// on macOS, %APPDATA%\declwire on Windows), or config.cue in the working
// directory when the former is absent. A path passed with --config is used
// exclusively. The file is validated against the embedded #Config schema,
// then DECLWIRE_* environment variables override individual keys.
package config
