// SPDX-License-Identifier: MPL-2.0

// Package resolve merges the local configuration file with a snapshot of the
// process environment into a single read-only view of key values.
package resolve

import "strings"

const (
	// SourceAbsent means the key is defined in neither source.
	SourceAbsent Source = iota
	// SourceLocalFile means the value comes from the local configuration file.
	SourceLocalFile
	// SourceSystemEnv means the value comes from the process environment.
	SourceSystemEnv
)

type (
	// Source identifies where a resolved value came from.
	Source int

	// ResolvedValue is the value of a key after merging both sources.
	ResolvedValue struct {
		Name   string
		Raw    string
		Source Source
	}

	// Resolution is the merged, immutable key view. The zero value resolves
	// every key as absent.
	Resolution struct {
		values map[string]ResolvedValue
	}
)

// String returns the report name of the source.
func (s Source) String() string {
	switch s {
	case SourceLocalFile:
		return "LOCAL_FILE"
	case SourceSystemEnv:
		return "SYSTEM_ENV"
	default:
		return "ABSENT"
	}
}

// Snapshot converts os.Environ-style "KEY=value" pairs into a map.
// Entries without '=' are ignored; later duplicates win.
func Snapshot(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// Merge builds a Resolution from the local file values and the process
// environment. A key defined in both takes the process environment value:
// variables injected by the execution context override checked-in defaults.
// Neither input map is retained or modified.
func Merge(local, system map[string]string) Resolution {
	values := make(map[string]ResolvedValue, len(local)+len(system))
	for k, v := range local {
		values[k] = ResolvedValue{Name: k, Raw: v, Source: SourceLocalFile}
	}
	for k, v := range system {
		values[k] = ResolvedValue{Name: k, Raw: v, Source: SourceSystemEnv}
	}
	return Resolution{values: values}
}

// Lookup returns the resolved value for name. Keys present in neither source
// resolve to SourceAbsent with an empty Raw value.
func (r Resolution) Lookup(name string) ResolvedValue {
	if v, ok := r.values[name]; ok {
		return v
	}
	return ResolvedValue{Name: name, Source: SourceAbsent}
}

// Present reports whether the value was found in either source.
func (v ResolvedValue) Present() bool { return v.Source != SourceAbsent }

