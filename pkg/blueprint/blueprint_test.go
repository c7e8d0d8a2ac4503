// SPDX-License-Identifier: MPL-2.0

package blueprint

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_Declarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []KeyDeclaration
	}{
		{
			name:    "bare key defaults to string",
			content: "DATABASE_URL",
			want:    []KeyDeclaration{{Name: "DATABASE_URL", Type: TypeString, Line: 1}},
		},
		{
			name:    "typed keys keep order",
			content: "DATABASE_URL: string\nSERVICE_PORT: integer\nDEBUG_MODE: boolean\nRATIO: float",
			want: []KeyDeclaration{
				{Name: "DATABASE_URL", Type: TypeString, Line: 1},
				{Name: "SERVICE_PORT", Type: TypeInteger, Line: 2},
				{Name: "DEBUG_MODE", Type: TypeBoolean, Line: 3},
				{Name: "RATIO", Type: TypeFloat, Line: 4},
			},
		},
		{
			name:    "leading byte order mark",
			content: "\ufeffA: integer\nB",
			want: []KeyDeclaration{
				{Name: "A", Type: TypeInteger, Line: 1},
				{Name: "B", Type: TypeString, Line: 2},
			},
		},
		{
			name:    "type token is case-insensitive",
			content: "PORT: INTEGER\nFLAG: Boolean",
			want: []KeyDeclaration{
				{Name: "PORT", Type: TypeInteger, Line: 1},
				{Name: "FLAG", Type: TypeBoolean, Line: 2},
			},
		},
		{
			name:    "comments and blank lines are skipped",
			content: "# header\n\n   # indented comment\nA\n\r\nB: integer\r\n",
			want: []KeyDeclaration{
				{Name: "A", Type: TypeString, Line: 4},
				{Name: "B", Type: TypeInteger, Line: 6},
			},
		},
		{
			name:    "trailing doc comment is stripped and kept",
			content: "SERVICE_PORT: integer # port the listener binds to\nTOKEN # secret, see #42",
			want: []KeyDeclaration{
				{Name: "SERVICE_PORT", Type: TypeInteger, Doc: "port the listener binds to", Line: 1},
				{Name: "TOKEN", Type: TypeString, Doc: "secret, see #42", Line: 2},
			},
		},
		{
			name:    "whitespace around colon",
			content: "  _PRIVATE_1 :   float  ",
			want:    []KeyDeclaration{{Name: "_PRIVATE_1", Type: TypeFloat, Line: 1}},
		},
		{
			name:    "empty content",
			content: "",
			want:    []KeyDeclaration{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bp, err := Parse([]byte(tt.content), "env.spec")
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, bp.Declarations()); diff != "" {
				t.Errorf("Parse() declarations mismatch (-want +got):\n%s", diff)
			}
			if bp.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", bp.Len(), len(tt.want))
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		sentinel error
		line     int
	}{
		{name: "duplicate key", content: "A\nB\nA", sentinel: ErrDuplicateKey, line: 3},
		{name: "duplicate key with different types", content: "A: integer\nA: string", sentinel: ErrDuplicateKey, line: 2},
		{name: "unknown type", content: "PORT: number", sentinel: ErrUnknownType, line: 1},
		{name: "leading digit", content: "1PORT", sentinel: ErrInvalidKeyName, line: 1},
		{name: "dash in name", content: "MY-KEY: string", sentinel: ErrInvalidKeyName, line: 1},
		{name: "space in name", content: "MY KEY", sentinel: ErrInvalidKeyName, line: 1},
		{name: "missing name", content: ": integer", sentinel: ErrBlueprintParse, line: 1},
		{name: "missing type", content: "\nPORT:", sentinel: ErrBlueprintParse, line: 2},
		{name: "extra tokens after type", content: "PORT: integer required", sentinel: ErrUnknownType, line: 1},
		{name: "invalid utf-8", content: "A\n\xff\xfe", sentinel: ErrBlueprintParse, line: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.content), "env.spec")
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Parse() error = %v, want errors.Is(%v)", err, tt.sentinel)
			}

			var lineErr *LineError
			if !errors.As(err, &lineErr) {
				t.Fatalf("Parse() error %T is not a *LineError", err)
			}
			if lineErr.Line != tt.line {
				t.Errorf("LineError.Line = %d, want %d", lineErr.Line, tt.line)
			}
			if lineErr.Filename != "env.spec" {
				t.Errorf("LineError.Filename = %q, want %q", lineErr.Filename, "env.spec")
			}
		})
	}
}

func TestParse_UnknownTypeNamesKeyAndToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		content   string
		wantKey   KeyName
		wantToken string
	}{
		{"SERVICE_PORT: Number", "SERVICE_PORT", "Number"},
		{"PORT: integer required  # trailing words", "PORT", "integer required"},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.content), "env.spec")

			var typeErr *UnknownTypeError
			if !errors.As(err, &typeErr) {
				t.Fatalf("expected *UnknownTypeError, got %T: %v", err, err)
			}
			if typeErr.Key != tt.wantKey || typeErr.Token != tt.wantToken {
				t.Errorf("UnknownTypeError = {Key:%s Token:%q}, want {Key:%s Token:%q}", typeErr.Key, typeErr.Token, tt.wantKey, tt.wantToken)
			}
			if !strings.Contains(typeErr.Error(), "valid types: string, integer, float, boolean") {
				t.Errorf("Error() = %q does not list the valid types", typeErr.Error())
			}
		})
	}
}

func TestParse_DuplicateKeyReportsFirstLine(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("# keys\nA\nB\nA: integer"), "env.spec")

	var dupErr *DuplicateKeyError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected *DuplicateKeyError, got %T: %v", err, err)
	}
	if dupErr.Key != "A" || dupErr.FirstLine != 2 || dupErr.Line != 4 {
		t.Errorf("DuplicateKeyError = %+v, want {Key:A FirstLine:2 Line:4}", *dupErr)
	}
}

func TestParse_TooLarge(t *testing.T) {
	t.Parallel()

	content := make([]byte, MaxFileSize+1)
	for i := range content {
		content[i] = '\n'
	}

	if _, err := Parse(content, "env.spec"); !errors.Is(err, ErrBlueprintParse) {
		t.Errorf("Parse() error = %v, want ErrBlueprintParse", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(dir, "does-not-exist.spec"))
		if !errors.Is(err, ErrBlueprintNotFound) {
			t.Errorf("Load() error = %v, want ErrBlueprintNotFound", err)
		}
	})

	t.Run("directory is a parse error", func(t *testing.T) {
		t.Parallel()

		_, err := Load(dir)
		if !errors.Is(err, ErrBlueprintParse) {
			t.Errorf("Load() error = %v, want ErrBlueprintParse", err)
		}
	})

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "env.spec")
		if err := os.WriteFile(path, []byte("A\nB: integer\n"), 0o644); err != nil {
			t.Fatalf("failed to write blueprint: %v", err)
		}

		bp, err := Load(path)
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if bp.Filename != path {
			t.Errorf("Filename = %q, want %q", bp.Filename, path)
		}
		decls := bp.Declarations()
		if len(decls) != 2 || decls[0].Name != "A" || decls[1].Name != "B" || decls[1].Type != TypeInteger {
			t.Errorf("Declarations() = %+v, want A then B: integer", decls)
		}
	})
}

func TestDeclarationsReturnsCopy(t *testing.T) {
	t.Parallel()

	bp, err := Parse([]byte("A\nB"), "env.spec")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	decls := bp.Declarations()
	decls[0].Name = "MUTATED"

	if got := bp.Declarations()[0].Name; got != "A" {
		t.Errorf("mutating the returned slice changed the blueprint: got %q", got)
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	t.Parallel()

	decls := []KeyDeclaration{
		{Name: "DATABASE_URL", Type: TypeString, Doc: "primary database"},
		{Name: "SERVICE_PORT", Type: TypeInteger},
		{Name: "DEBUG_MODE", Type: TypeBoolean, Doc: "verbose logs"},
	}

	bp, err := Parse(Generate(decls), "generated.spec")
	if err != nil {
		t.Fatalf("Parse(Generate()) unexpected error: %v", err)
	}

	got := bp.Declarations()
	for i := range got {
		got[i].Line = 0
	}
	if diff := cmp.Diff(decls, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_Empty(t *testing.T) {
	t.Parallel()

	bp, err := Parse(Generate(nil), "generated.spec")
	if err != nil {
		t.Fatalf("Parse(Generate(nil)) unexpected error: %v", err)
	}
	if bp.Len() != 0 {
		t.Errorf("Len() = %d, want 0", bp.Len())
	}
}
