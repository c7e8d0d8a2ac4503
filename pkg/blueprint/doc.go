// SPDX-License-Identifier: MPL-2.0

// Package blueprint parses env.spec blueprint files.
//
// A blueprint lists the configuration keys a project requires, one per line,
// each optionally annotated with the primitive type its value must conform to:
//
//	# Database
//	DATABASE_URL            # connection string, type defaults to string
//	SERVICE_PORT: integer   # port the HTTP listener binds to
//	DEBUG_MODE: boolean
//
// Declaration order is preserved so every report lists keys in the order the
// blueprint author wrote them.
package blueprint
