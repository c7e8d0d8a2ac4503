// SPDX-License-Identifier: MPL-2.0

// Package coerce checks that raw string values can be read as a blueprint type.
package coerce

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/trmxvibs/EnvSanityCheck/pkg/blueprint"
)

// ErrTypeMismatch is the sentinel error wrapped by TypeMismatchError.
var ErrTypeMismatch = errors.New("type mismatch")

type (
	// Value is a successfully coerced value. Only the field matching Type is set.
	// Integers have no width limit.
	Value struct {
		Type  blueprint.ValueType
		Str   string
		Int   *big.Int
		Float float64
		Bool  bool
	}

	// TypeMismatchError is returned when a raw value does not conform to the
	// expected type. It wraps ErrTypeMismatch for errors.Is() compatibility.
	TypeMismatchError struct {
		Value    string
		Expected blueprint.ValueType
		Reason   string
	}
)

// Error implements the error interface.
func (e *TypeMismatchError) Error() string { return e.Reason }

// Unwrap returns ErrTypeMismatch for errors.Is() compatibility.
func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// Coerce converts raw into the expected type. Numeric and boolean values are
// trimmed first; string values are kept verbatim and always succeed.
// Callers classify blank values before calling Coerce.
func Coerce(raw string, expected blueprint.ValueType) (Value, error) {
	switch expected {
	case blueprint.TypeString:
		return Value{Type: expected, Str: raw}, nil
	case blueprint.TypeInteger:
		return coerceInteger(raw)
	case blueprint.TypeFloat:
		return coerceFloat(raw)
	case blueprint.TypeBoolean:
		return coerceBoolean(raw)
	default:
		return Value{}, fmt.Errorf("cannot coerce to unsupported type %q", expected)
	}
}

// Infer returns the narrowest type raw conforms to, trying boolean
// literals (true/false only), integer, float, then falling back to string.
func Infer(raw string) blueprint.ValueType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "false":
		return blueprint.TypeBoolean
	}
	for _, t := range []blueprint.ValueType{blueprint.TypeInteger, blueprint.TypeFloat} {
		if _, err := Coerce(raw, t); err == nil {
			return t
		}
	}
	return blueprint.TypeString
}

func coerceInteger(raw string) (Value, error) {
	s := strings.TrimSpace(raw)

	digits := strings.TrimLeft(s, "+-")
	if len(s)-len(digits) > 1 {
		return Value{}, mismatch(raw, blueprint.TypeInteger, "cannot be converted to type 'integer'")
	}
	if strings.Contains(digits, ".") {
		return Value{}, mismatch(raw, blueprint.TypeInteger, "contains a decimal point, expected a strict integer")
	}
	if digits == "" || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		return Value{}, mismatch(raw, blueprint.TypeInteger, "cannot be converted to type 'integer'")
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Value{}, mismatch(raw, blueprint.TypeInteger, "cannot be converted to type 'integer'")
	}
	return Value{Type: blueprint.TypeInteger, Int: n}, nil
}

func coerceFloat(raw string) (Value, error) {
	s := strings.TrimSpace(raw)

	unsigned := strings.ToLower(strings.TrimLeft(s, "+-"))
	if strings.HasPrefix(unsigned, "0x") || strings.Contains(unsigned, "_") {
		return Value{}, mismatch(raw, blueprint.TypeFloat, "cannot be converted to type 'float'")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Value{}, mismatch(raw, blueprint.TypeFloat, "cannot be converted to type 'float'")
	}
	return Value{Type: blueprint.TypeFloat, Float: f}, nil
}

func coerceBoolean(raw string) (Value, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		return Value{Type: blueprint.TypeBoolean, Bool: true}, nil
	case "false", "0":
		return Value{Type: blueprint.TypeBoolean, Bool: false}, nil
	default:
		return Value{}, mismatch(raw, blueprint.TypeBoolean, "is not a valid boolean (expected true/false/1/0)")
	}
}

func mismatch(raw string, expected blueprint.ValueType, reason string) *TypeMismatchError {
	return &TypeMismatchError{
		Value:    raw,
		Expected: expected,
		Reason:   fmt.Sprintf("value '%s' %s", raw, reason),
	}
}
