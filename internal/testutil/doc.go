// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixture helpers shared by envcheck tests.
package testutil
