// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when any file in a fixed set changes.
//
// envcheck uses it for --watch mode: the blueprint and the local env file are
// watched through their parent directories so that files which do not exist
// yet, or which editors replace by rename, are still picked up. Events inside
// the debounce window are coalesced into one callback.
package watch
