// SPDX-License-Identifier: MPL-2.0

// Package config handles envcheck configuration using Viper with CUE as the file format.
//
// The config file envcheck.cue is looked up in the platform config directory
// (~/.config/envcheck on Linux, ~/Library/Application Support/envcheck on
// macOS, %APPDATA%\envcheck on Windows) and then in the current directory.
// It is validated against the embedded #Config schema before its values are
// merged over the defaults. ENVCHECK_* environment variables override file
// values, and command-line flags override both.
package config
