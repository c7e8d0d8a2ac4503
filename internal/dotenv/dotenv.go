// SPDX-License-Identifier: MPL-2.0

package dotenv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const (
	// DefaultFileName is the local configuration file looked up when no path is given.
	DefaultFileName = ".env"

	// MaxFileSize caps the size of a local configuration file.
	MaxFileSize = 4 << 20

	// byteOrderMark is skipped when it starts the file.
	byteOrderMark = "\ufeff"
)

const (
	// QuoteNone marks an unquoted value.
	QuoteNone QuoteStyle = iota
	// QuoteSingle marks a '...' value (literal).
	QuoteSingle
	// QuoteDouble marks a "..." value (escape sequences processed).
	QuoteDouble
)

var (
	// ErrFileTooLarge is returned when a file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("env file too large")
	// ErrMissingSeparator is reported for lines without '='.
	ErrMissingSeparator = errors.New("invalid format (missing '=')")
	// ErrEmptyKey is reported for lines with nothing before '='.
	ErrEmptyKey = errors.New("empty variable name")
	// ErrUnterminatedQuote is reported when a quoted value has no closing quote.
	ErrUnterminatedQuote = errors.New("unterminated quote")
	// ErrTrailingCharacters is reported when text other than a comment follows a closing quote.
	ErrTrailingCharacters = errors.New("unexpected characters after closing quote")
)

type (
	// QuoteStyle records how a value was written in the file.
	QuoteStyle int

	// Entry is a single KEY=value assignment.
	Entry struct {
		Key   string
		Value string
		Quote QuoteStyle
		// Line is the 1-based line number the entry was read from.
		Line int
	}

	// Diagnostic describes a line that was skipped.
	Diagnostic struct {
		Filename string
		Line     int
		Err      error
	}

	// File is the parsed content of a local configuration file.
	File struct {
		// Path is the file the entries were read from.
		Path string
		// Exists is false when the file was absent; absence is not an error.
		Exists bool
		// Entries are the assignments in file order, duplicates included.
		Entries []Entry
		// Diagnostics lists skipped lines.
		Diagnostics []Diagnostic
	}
)

// Load reads and parses the local configuration file at path.
// A missing file is not an error: it yields an empty File with Exists set to
// false. Any other read failure (permission denied, path is a directory, ...)
// is returned.
func Load(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &File{Path: path}, nil
		}
		return nil, fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	f, err := Parse(content, path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Parse parses dotenv content. Supported format:
//   - Lines starting with # are comments
//   - Empty lines are ignored
//   - KEY=value (unquoted; an unquoted # starts a comment)
//   - KEY="value" (double-quoted, escape sequences: \n, \r, \t, \\, \", \$)
//   - KEY='value' (single-quoted, literal - no escape processing)
//   - export KEY=value (export prefix is optional and ignored)
//   - KEY= (empty value)
//
// The filename parameter is used for diagnostics.
func Parse(content []byte, filename string) (*File, error) {
	if len(content) > MaxFileSize {
		return nil, fmt.Errorf("%s: %w (%d bytes, limit %d)", filename, ErrFileTooLarge, len(content), MaxFileSize)
	}

	f := &File{Path: filename, Exists: true}

	for i, line := range strings.Split(strings.TrimPrefix(string(content), byteOrderMark), "\n") {
		lineNum := i + 1

		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, raw, found := strings.Cut(line, "=")
		if !found {
			f.diagnose(lineNum, ErrMissingSeparator)
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			f.diagnose(lineNum, ErrEmptyKey)
			continue
		}

		value, quote, err := scanValue(raw)
		if err != nil {
			f.diagnose(lineNum, fmt.Errorf("%s: %w", key, err))
			continue
		}

		f.Entries = append(f.Entries, Entry{Key: key, Value: value, Quote: quote, Line: lineNum})
	}

	return f, nil
}

func (f *File) diagnose(line int, err error) {
	f.Diagnostics = append(f.Diagnostics, Diagnostic{Filename: f.Path, Line: line, Err: err})
}

// Map returns the assignments as a map. When a key is assigned more than once
// the last assignment wins.
func (f *File) Map() map[string]string {
	m := make(map[string]string, len(f.Entries))
	for _, e := range f.Entries {
		m[e.Key] = e.Value
	}
	return m
}

// String formats the diagnostic as "file:line: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %v", d.Filename, d.Line, d.Err)
}
