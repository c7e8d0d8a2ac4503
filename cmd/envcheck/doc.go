// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the envcheck command tree.
//
// The root command validates the environment against a blueprint and prints
// a report; init writes a starter blueprint and config manages the optional
// envcheck.cue file. Handlers never call os.Exit: they return *ExitError and
// Execute maps it to the process exit status.
package cmd
