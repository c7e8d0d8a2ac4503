// SPDX-License-Identifier: MPL-2.0

package coerce

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/trmxvibs/EnvSanityCheck/pkg/blueprint"
)

func TestCoerce_Accepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		expected blueprint.ValueType
		want     Value
	}{
		{"hello", blueprint.TypeString, Value{Type: blueprint.TypeString, Str: "hello"}},
		{"12345", blueprint.TypeString, Value{Type: blueprint.TypeString, Str: "12345"}},
		{"  padded  ", blueprint.TypeString, Value{Type: blueprint.TypeString, Str: "  padded  "}},
		{"123", blueprint.TypeInteger, Value{Type: blueprint.TypeInteger, Int: big.NewInt(123)}},
		{"-42", blueprint.TypeInteger, Value{Type: blueprint.TypeInteger, Int: big.NewInt(-42)}},
		{"+7", blueprint.TypeInteger, Value{Type: blueprint.TypeInteger, Int: big.NewInt(7)}},
		{" 5432 ", blueprint.TypeInteger, Value{Type: blueprint.TypeInteger, Int: big.NewInt(5432)}},
		{"007", blueprint.TypeInteger, Value{Type: blueprint.TypeInteger, Int: big.NewInt(7)}},
		{"99999999999999999999", blueprint.TypeInteger, Value{Type: blueprint.TypeInteger, Int: mustBigInt("99999999999999999999")}},
		{"-123456789012345678901234567890", blueprint.TypeInteger, Value{Type: blueprint.TypeInteger, Int: mustBigInt("-123456789012345678901234567890")}},
		{"3.14", blueprint.TypeFloat, Value{Type: blueprint.TypeFloat, Float: 3.14}},
		{"10", blueprint.TypeFloat, Value{Type: blueprint.TypeFloat, Float: 10}},
		{"-0.5", blueprint.TypeFloat, Value{Type: blueprint.TypeFloat, Float: -0.5}},
		{"1e3", blueprint.TypeFloat, Value{Type: blueprint.TypeFloat, Float: 1000}},
		{".5", blueprint.TypeFloat, Value{Type: blueprint.TypeFloat, Float: 0.5}},
		{"True", blueprint.TypeBoolean, Value{Type: blueprint.TypeBoolean, Bool: true}},
		{"false", blueprint.TypeBoolean, Value{Type: blueprint.TypeBoolean, Bool: false}},
		{"1", blueprint.TypeBoolean, Value{Type: blueprint.TypeBoolean, Bool: true}},
		{"0", blueprint.TypeBoolean, Value{Type: blueprint.TypeBoolean, Bool: false}},
		{" TRUE ", blueprint.TypeBoolean, Value{Type: blueprint.TypeBoolean, Bool: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected)+"/"+tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := Coerce(tt.raw, tt.expected)
			if err != nil {
				t.Fatalf("Coerce(%q, %s) unexpected error: %v", tt.raw, tt.expected, err)
			}
			if diff := cmp.Diff(tt.want, got, bigIntComparer); diff != "" {
				t.Errorf("Coerce(%q, %s) mismatch (-want +got):\n%s", tt.raw, tt.expected, diff)
			}
		})
	}
}

var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

func mustBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid integer literal " + s)
	}
	return n
}

func TestCoerce_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw        string
		expected   blueprint.ValueType
		wantReason string
	}{
		{"abc", blueprint.TypeInteger, "cannot be converted to type 'integer'"},
		{"eighty", blueprint.TypeInteger, "cannot be converted to type 'integer'"},
		{"1.0", blueprint.TypeInteger, "contains a decimal point"},
		{"12abc", blueprint.TypeInteger, "cannot be converted"},
		{"1e3", blueprint.TypeInteger, "cannot be converted"},
		{"0x1F", blueprint.TypeInteger, "cannot be converted"},
		{"+-1", blueprint.TypeInteger, "cannot be converted"},
		{"-", blueprint.TypeInteger, "cannot be converted"},
		{"1 000", blueprint.TypeInteger, "cannot be converted"},
		{"abc", blueprint.TypeFloat, "cannot be converted to type 'float'"},
		{"1.2.3", blueprint.TypeFloat, "cannot be converted"},
		{"0x1p3", blueprint.TypeFloat, "cannot be converted"},
		{"1_000.5", blueprint.TypeFloat, "cannot be converted"},
		{"yes", blueprint.TypeBoolean, "is not a valid boolean"},
		{"on", blueprint.TypeBoolean, "is not a valid boolean"},
		{"2", blueprint.TypeBoolean, "is not a valid boolean"},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected)+"/"+tt.raw, func(t *testing.T) {
			t.Parallel()

			_, err := Coerce(tt.raw, tt.expected)
			if err == nil {
				t.Fatalf("Coerce(%q, %s) expected error, got nil", tt.raw, tt.expected)
			}
			if !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("error does not wrap ErrTypeMismatch: %v", err)
			}

			var mismatchErr *TypeMismatchError
			if !errors.As(err, &mismatchErr) {
				t.Fatalf("expected *TypeMismatchError, got %T", err)
			}
			if mismatchErr.Value != tt.raw || mismatchErr.Expected != tt.expected {
				t.Errorf("TypeMismatchError = {Value:%q Expected:%s}, want {Value:%q Expected:%s}",
					mismatchErr.Value, mismatchErr.Expected, tt.raw, tt.expected)
			}
			if !strings.Contains(mismatchErr.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to contain %q", mismatchErr.Reason, tt.wantReason)
			}
			if !strings.Contains(mismatchErr.Reason, "'"+tt.raw+"'") {
				t.Errorf("Reason = %q does not quote the raw value", mismatchErr.Reason)
			}
		})
	}
}

func TestCoerce_StringNeverFails(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", " ", "42", "3.14", "true", "#", "\"quoted\"", "ünïcode"} {
		if _, err := Coerce(raw, blueprint.TypeString); err != nil {
			t.Errorf("Coerce(%q, string) returned error: %v", raw, err)
		}
	}
}

func TestCoerce_LargeExponentFloatIsAccepted(t *testing.T) {
	t.Parallel()

	if _, err := Coerce("1e400", blueprint.TypeFloat); err != nil {
		t.Errorf("Coerce(1e400, float) returned error: %v", err)
	}
}

func TestCoerce_UnsupportedType(t *testing.T) {
	t.Parallel()

	_, err := Coerce("x", blueprint.ValueType("date"))
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}
	if errors.Is(err, ErrTypeMismatch) {
		t.Error("unsupported type must not be reported as a type mismatch")
	}
}

func TestInfer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want blueprint.ValueType
	}{
		{"true", blueprint.TypeBoolean},
		{"FALSE", blueprint.TypeBoolean},
		{"1", blueprint.TypeInteger},
		{"8080", blueprint.TypeInteger},
		{"-3", blueprint.TypeInteger},
		{"99999999999999999999", blueprint.TypeInteger},
		{"0.25", blueprint.TypeFloat},
		{"postgres://localhost/db", blueprint.TypeString},
		{"yes", blueprint.TypeString},
		{"", blueprint.TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			if got := Infer(tt.raw); got != tt.want {
				t.Errorf("Infer(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}
