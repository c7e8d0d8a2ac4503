// SPDX-License-Identifier: MPL-2.0

// Package validate classifies every declared key against resolved values.
//
// Run is a pure function: it performs no I/O, keeps no state between calls and
// returns the same Result for the same inputs, so it is safe to call
// concurrently for independent inputs.
package validate
