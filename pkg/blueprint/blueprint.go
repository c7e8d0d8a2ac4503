// SPDX-License-Identifier: MPL-2.0

package blueprint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultFileName is the blueprint file looked up when no path is given.
	DefaultFileName = "env.spec"

	// MaxFileSize caps the blueprint size; anything larger is almost certainly
	// not a hand-written key list.
	MaxFileSize = 1 << 20

	// byteOrderMark is skipped when it starts the file.
	byteOrderMark = "\ufeff"
)

type (
	// KeyDeclaration is a single required key parsed from one blueprint line.
	KeyDeclaration struct {
		// Name is the declared key.
		Name KeyName
		// Type is the type the key's value must coerce to. Bare declarations default to TypeString.
		Type ValueType
		// Doc is the trailing "# ..." comment of the declaration line, if any.
		Doc string
		// Line is the 1-based line number of the declaration.
		Line int
	}

	// Blueprint is the ordered, duplicate-free set of declarations read from a blueprint file.
	Blueprint struct {
		// Filename is used in error messages and reports.
		Filename string

		decls []KeyDeclaration
		index map[KeyName]int
	}
)

// Load reads and parses the blueprint at path.
// A missing file yields an error wrapping ErrBlueprintNotFound; any other read
// failure wraps ErrBlueprintParse.
func Load(path string) (*Blueprint, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrBlueprintNotFound)
		}
		return nil, fmt.Errorf("%w: %w", ErrBlueprintParse, err)
	}

	return Parse(content, path)
}

// Parse parses blueprint content. The filename is only used for error messages.
//
// Supported line forms:
//   - blank lines and lines starting with # are ignored
//   - KEY (type string)
//   - KEY: type, where type is string, integer, float or boolean (case-insensitive)
//   - either form followed by "# doc comment"
func Parse(content []byte, filename string) (*Blueprint, error) {
	if len(content) > MaxFileSize {
		return nil, fmt.Errorf("%s: %w", filename, &SyntaxError{
			Reason: fmt.Sprintf("file is %d bytes, larger than the %d byte limit", len(content), MaxFileSize),
		})
	}

	bp := &Blueprint{
		Filename: filename,
		index:    make(map[KeyName]int),
	}

	for i, line := range strings.Split(strings.TrimPrefix(string(content), byteOrderMark), "\n") {
		lineNum := i + 1

		if !utf8.ValidString(line) {
			return nil, &LineError{Filename: filename, Line: lineNum, Err: &SyntaxError{Reason: "line is not valid UTF-8"}}
		}

		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		decl, err := parseDeclaration(line)
		if err != nil {
			return nil, &LineError{Filename: filename, Line: lineNum, Err: err}
		}
		decl.Line = lineNum

		if first, exists := bp.index[decl.Name]; exists {
			return nil, &LineError{
				Filename: filename,
				Line:     lineNum,
				Err:      &DuplicateKeyError{Key: decl.Name, FirstLine: bp.decls[first].Line, Line: lineNum},
			}
		}

		bp.index[decl.Name] = len(bp.decls)
		bp.decls = append(bp.decls, decl)
	}

	return bp, nil
}

// parseDeclaration parses a trimmed, non-comment line into a declaration without line info.
func parseDeclaration(line string) (KeyDeclaration, error) {
	var doc string
	if idx := strings.IndexByte(line, '#'); idx != -1 {
		doc = strings.TrimSpace(line[idx+1:])
		line = strings.TrimSpace(line[:idx])
	}

	name, typeToken, annotated := strings.Cut(line, ":")
	name = strings.TrimSpace(name)
	typeToken = strings.TrimSpace(typeToken)

	if annotated {
		if name == "" {
			return KeyDeclaration{}, &SyntaxError{Reason: "missing key name before ':'"}
		}
		if typeToken == "" {
			return KeyDeclaration{}, &SyntaxError{Reason: fmt.Sprintf("missing type after '%s:'", name)}
		}
	}

	key := KeyName(name)
	if err := key.Validate(); err != nil {
		return KeyDeclaration{}, err
	}

	valueType := TypeString
	if annotated {
		parsed, ok := ParseValueType(typeToken)
		if !ok {
			return KeyDeclaration{}, &UnknownTypeError{Key: key, Token: typeToken}
		}
		valueType = parsed
	}

	return KeyDeclaration{Name: key, Type: valueType, Doc: doc}, nil
}

// Declarations returns a copy of the declarations in blueprint order.
func (b *Blueprint) Declarations() []KeyDeclaration {
	out := make([]KeyDeclaration, len(b.decls))
	copy(out, b.decls)
	return out
}

// Len returns the number of declared keys.
func (b *Blueprint) Len() int { return len(b.decls) }

