// SPDX-License-Identifier: MPL-2.0

// Package check runs one validation pass: it loads the blueprint and the local
// configuration file, snapshots the process environment, merges the two
// sources and classifies every declared key. Input problems are returned as
// issue.ActionableError values; key failures are part of the result.
package check
