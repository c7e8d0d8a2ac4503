// SPDX-License-Identifier: MPL-2.0

// Package dotenv reads local KEY=value configuration files.
//
// Values are tokenized by a small state machine (unquoted, single-quoted,
// double-quoted) so that the interaction between quoting and inline "#"
// comments is explicit: an unquoted "#" ends the value, a "#" inside quotes
// is literal. Lines that cannot be tokenized are skipped and reported as
// diagnostics instead of failing the whole file.
package dotenv
