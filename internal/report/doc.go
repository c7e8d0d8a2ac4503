// SPDX-License-Identifier: MPL-2.0

// Package report renders validation results.
//
// The text format is meant for people: failures are grouped by status with a
// remediation hint per group. The structured formats (JSON, YAML, TOML) share
// one Document shape with stable snake_case field names and parse back into
// an equivalent result.
package report
