// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Configuration problems (a missing blueprint, an unreadable env file, a broken
// config file) are reported as ActionableError values carrying the failed
// operation, the resource involved and remediation suggestions. Each problem
// class also has a Markdown catalog entry that the CLI renders with glamour in
// verbose mode.
package issue
