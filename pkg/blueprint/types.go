// SPDX-License-Identifier: MPL-2.0

package blueprint

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// TypeString accepts any value.
	TypeString ValueType = "string"
	// TypeInteger accepts base-10 integers with an optional sign.
	TypeInteger ValueType = "integer"
	// TypeFloat accepts decimal numbers, integers included.
	TypeFloat ValueType = "float"
	// TypeBoolean accepts true, false, 1 and 0 (case-insensitive).
	TypeBoolean ValueType = "boolean"
)

var (
	// ErrBlueprintNotFound is returned by Load when the blueprint file does not exist.
	ErrBlueprintNotFound = errors.New("blueprint not found")
	// ErrBlueprintParse is the sentinel for malformed blueprint content.
	ErrBlueprintParse = errors.New("blueprint parse error")
	// ErrUnknownType is the sentinel error wrapped by UnknownTypeError.
	ErrUnknownType = errors.New("unknown type")
	// ErrDuplicateKey is the sentinel error wrapped by DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidKeyName is the sentinel error wrapped by InvalidKeyNameError.
	ErrInvalidKeyName = errors.New("invalid key name")

	keyNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	allValueTypes = []ValueType{TypeString, TypeInteger, TypeFloat, TypeBoolean}
)

type (
	// ValueType is the primitive type a declared key's value must coerce to.
	ValueType string

	// KeyName is the name of a declared configuration key.
	// Valid names start with a letter or underscore followed by letters,
	// digits or underscores.
	KeyName string

	// InvalidKeyNameError is returned when a KeyName does not match the identifier pattern.
	// It wraps ErrInvalidKeyName for errors.Is() compatibility.
	InvalidKeyNameError struct {
		Value KeyName
	}

	// UnknownTypeError is returned when a declaration names a type outside the
	// supported set. It wraps ErrUnknownType for errors.Is() compatibility.
	UnknownTypeError struct {
		Key   KeyName
		Token string
	}

	// DuplicateKeyError is returned when a key is declared more than once.
	// It wraps ErrDuplicateKey for errors.Is() compatibility.
	DuplicateKeyError struct {
		Key       KeyName
		FirstLine int
		Line      int
	}

	// SyntaxError describes a declaration line that cannot be tokenized.
	// It wraps ErrBlueprintParse for errors.Is() compatibility.
	SyntaxError struct {
		Reason string
	}

	// LineError attaches a file name and 1-based line number to a parse failure.
	LineError struct {
		Filename string
		Line     int
		Err      error
	}
)

// ValueTypes returns every supported ValueType in declaration order.
func ValueTypes() []ValueType {
	out := make([]ValueType, len(allValueTypes))
	copy(out, allValueTypes)
	return out
}

// ParseValueType maps a case-insensitive type token to a ValueType.
func ParseValueType(token string) (ValueType, bool) {
	t := ValueType(strings.ToLower(strings.TrimSpace(token)))
	if !t.IsValid() {
		return "", false
	}
	return t, true
}

// IsValid reports whether t is one of the supported types.
func (t ValueType) IsValid() bool {
	switch t {
	case TypeString, TypeInteger, TypeFloat, TypeBoolean:
		return true
	default:
		return false
	}
}

// String returns the lowercase type token.
func (t ValueType) String() string { return string(t) }

// Validate returns an error if the KeyName does not match the identifier pattern.
func (n KeyName) Validate() error {
	if !keyNamePattern.MatchString(string(n)) {
		return &InvalidKeyNameError{Value: n}
	}
	return nil
}

// String returns the key name.
func (n KeyName) String() string { return string(n) }

// Error implements the error interface.
func (e *InvalidKeyNameError) Error() string {
	return fmt.Sprintf("invalid key name %q (must start with a letter or underscore and contain only letters, digits and underscores)", e.Value)
}

// Unwrap returns ErrInvalidKeyName for errors.Is() compatibility.
func (e *InvalidKeyNameError) Unwrap() error { return ErrInvalidKeyName }

// Error implements the error interface.
func (e *UnknownTypeError) Error() string {
	types := ValueTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return fmt.Sprintf("key %s declares unknown type %q (valid types: %s)", e.Key, e.Token, strings.Join(names, ", "))
}

// Unwrap returns ErrUnknownType for errors.Is() compatibility.
func (e *UnknownTypeError) Unwrap() error { return ErrUnknownType }

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %s is declared more than once (first declared on line %d)", e.Key, e.FirstLine)
}

// Unwrap returns ErrDuplicateKey for errors.Is() compatibility.
func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// Error implements the error interface.
func (e *SyntaxError) Error() string { return e.Reason }

// Unwrap returns ErrBlueprintParse for errors.Is() compatibility.
func (e *SyntaxError) Unwrap() error { return ErrBlueprintParse }

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Filename, e.Line, e.Err)
}

// Unwrap returns the line-scoped cause.
func (e *LineError) Unwrap() error { return e.Err }
