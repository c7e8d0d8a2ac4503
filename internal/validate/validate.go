// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/trmxvibs/EnvSanityCheck/internal/coerce"
	"github.com/trmxvibs/EnvSanityCheck/internal/resolve"
	"github.com/trmxvibs/EnvSanityCheck/pkg/blueprint"
)

const (
	// StatusOK means the key is present, non-blank and type-conformant.
	StatusOK Status = "OK"
	// StatusMissing means the key is defined in neither source.
	StatusMissing Status = "MISSING"
	// StatusEmpty means the key is defined but blank.
	StatusEmpty Status = "EMPTY"
	// StatusTypeMismatch means the value does not coerce to the declared type.
	StatusTypeMismatch Status = "TYPE_MISMATCH"
)

type (
	// Status is the classification of a single declared key.
	Status string

	// Lookuper resolves a key name to its merged value.
	// resolve.Resolution implements it.
	Lookuper interface {
		Lookup(name string) resolve.ResolvedValue
	}

	// Outcome is the classification of one declared key.
	Outcome struct {
		Name     blueprint.KeyName
		Status   Status
		Expected blueprint.ValueType
		// Actual is the resolved raw value; empty when the key is missing.
		Actual  string
		Source  resolve.Source
		Message string
		// Doc is the blueprint doc comment of the declaration.
		Doc string
	}

	// Result aggregates the outcomes of one validation run.
	Result struct {
		RequiredCount int
		FoundCount    int
		// Outcomes holds one entry per declaration, in declaration order.
		Outcomes   []Outcome
		Missing    []Outcome
		Empty      []Outcome
		TypeErrors []Outcome
		// AllChecksPassed is true when Missing, Empty and TypeErrors are all empty.
		AllChecksPassed bool
	}
)

// Run classifies each declaration against res and aggregates the outcomes.
// Every declaration yields exactly one outcome; a failing key never stops the
// evaluation of the rest.
func Run(decls []blueprint.KeyDeclaration, res Lookuper) Result {
	result := Result{
		RequiredCount: len(decls),
		Outcomes:      make([]Outcome, 0, len(decls)),
	}

	for _, decl := range decls {
		value := res.Lookup(string(decl.Name))
		outcome := Classify(decl, value)
		if value.Present() {
			result.FoundCount++
		}

		switch outcome.Status {
		case StatusMissing:
			result.Missing = append(result.Missing, outcome)
		case StatusEmpty:
			result.Empty = append(result.Empty, outcome)
		case StatusTypeMismatch:
			result.TypeErrors = append(result.TypeErrors, outcome)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	result.AllChecksPassed = len(result.Missing) == 0 && len(result.Empty) == 0 && len(result.TypeErrors) == 0
	return result
}

// Classify produces the outcome for a single declaration. Checks run in a
// fixed order: absence, then blankness, then type conformance. A blank value
// is therefore never reported as a type mismatch.
func Classify(decl blueprint.KeyDeclaration, value resolve.ResolvedValue) Outcome {
	expected := decl.Type
	if expected == "" {
		expected = blueprint.TypeString
	}

	outcome := Outcome{
		Name:     decl.Name,
		Expected: expected,
		Actual:   value.Raw,
		Source:   value.Source,
		Doc:      decl.Doc,
		Status:   StatusOK,
	}

	switch {
	case !value.Present():
		outcome.Status = StatusMissing
		outcome.Actual = ""
		outcome.Message = MissingMessage(decl.Name)
	case strings.TrimSpace(value.Raw) == "":
		outcome.Status = StatusEmpty
		outcome.Message = EmptyMessage(decl.Name)
	default:
		if _, err := coerce.Coerce(value.Raw, expected); err != nil {
			outcome.Status = StatusTypeMismatch
			var mismatch *coerce.TypeMismatchError
			if errors.As(err, &mismatch) {
				outcome.Message = mismatch.Reason
			} else {
				outcome.Message = err.Error()
			}
		}
	}

	return outcome
}

// MissingMessage is the remediation hint attached to MISSING outcomes.
func MissingMessage(name blueprint.KeyName) string {
	return fmt.Sprintf("%s is not set; add it to the local configuration file (.env) or export it in the environment", name)
}

// EmptyMessage is the remediation hint attached to EMPTY outcomes.
func EmptyMessage(name blueprint.KeyName) string {
	return fmt.Sprintf("%s is set but blank; supply a non-blank value", name)
}

// ErrorCount returns the total number of failing keys.
func (r Result) ErrorCount() int {
	return len(r.Missing) + len(r.Empty) + len(r.TypeErrors)
}
