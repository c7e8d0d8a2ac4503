// SPDX-License-Identifier: MPL-2.0

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/trmxvibs/EnvSanityCheck/internal/validate"
	"github.com/trmxvibs/EnvSanityCheck/pkg/blueprint"
)

const (
	// StatusSuccess is the document status when every check passed.
	StatusSuccess = "SUCCESS"
	// StatusFailure is the document status when at least one key failed.
	StatusFailure = "FAILURE"
)

// ErrInvalidDocument is returned when a parsed document is internally inconsistent.
var ErrInvalidDocument = errors.New("invalid report document")

type (
	// KeyEntry is a missing or empty key in a Document.
	KeyEntry struct {
		Key string `json:"key" yaml:"key" toml:"key"`
	}

	// TypeErrorEntry is a type mismatch in a Document.
	TypeErrorEntry struct {
		Key         string `json:"key" yaml:"key" toml:"key"`
		Expected    string `json:"expected" yaml:"expected" toml:"expected"`
		ActualValue string `json:"actual_value" yaml:"actual_value" toml:"actual_value"`
		Message     string `json:"message" yaml:"message" toml:"message"`
	}

	// yamlTypeError is the YAML shape of TypeErrorEntry. User-supplied text is
	// always written as a double-quoted scalar so control characters survive.
	yamlTypeError struct {
		Key         string       `yaml:"key"`
		Expected    string       `yaml:"expected"`
		ActualValue quotedScalar `yaml:"actual_value"`
		Message     quotedScalar `yaml:"message"`
	}

	quotedScalar string

	// Document is the structured report shared by the JSON, YAML and TOML formats.
	// Field names are part of the output contract.
	Document struct {
		Status          string           `json:"status" yaml:"status" toml:"status"`
		RequiredCount   int              `json:"required_count" yaml:"required_count" toml:"required_count"`
		FoundCount      int              `json:"found_count" yaml:"found_count" toml:"found_count"`
		Missing         []KeyEntry       `json:"missing" yaml:"missing" toml:"missing"`
		Empty           []KeyEntry       `json:"empty" yaml:"empty" toml:"empty"`
		TypeErrors      []TypeErrorEntry `json:"type_errors" yaml:"type_errors" toml:"type_errors"`
		AllChecksPassed bool             `json:"all_checks_passed" yaml:"all_checks_passed" toml:"all_checks_passed"`
	}
)

// MarshalYAML writes the entry with quoted value and message.
func (e TypeErrorEntry) MarshalYAML() (any, error) {
	return yamlTypeError{
		Key:         e.Key,
		Expected:    e.Expected,
		ActualValue: quotedScalar(e.ActualValue),
		Message:     quotedScalar(e.Message),
	}, nil
}

// MarshalYAML emits s as a double-quoted scalar. Go escape sequences are a
// subset of the YAML double-quoted escapes.
func (s quotedScalar) MarshalYAML() ([]byte, error) {
	return []byte(strconv.Quote(string(s))), nil
}

// NewDocument converts a validation result into its structured form.
// List fields are never nil so they always render as empty lists.
func NewDocument(r validate.Result) Document {
	doc := Document{
		Status:          StatusFailure,
		RequiredCount:   r.RequiredCount,
		FoundCount:      r.FoundCount,
		Missing:         make([]KeyEntry, 0, len(r.Missing)),
		Empty:           make([]KeyEntry, 0, len(r.Empty)),
		TypeErrors:      make([]TypeErrorEntry, 0, len(r.TypeErrors)),
		AllChecksPassed: r.AllChecksPassed,
	}
	if r.AllChecksPassed {
		doc.Status = StatusSuccess
	}

	for _, o := range r.Missing {
		doc.Missing = append(doc.Missing, KeyEntry{Key: string(o.Name)})
	}
	for _, o := range r.Empty {
		doc.Empty = append(doc.Empty, KeyEntry{Key: string(o.Name)})
	}
	for _, o := range r.TypeErrors {
		doc.TypeErrors = append(doc.TypeErrors, TypeErrorEntry{
			Key:         string(o.Name),
			Expected:    string(o.Expected),
			ActualValue: o.Actual,
			Message:     o.Message,
		})
	}

	return doc
}

// Validate checks the document for internal consistency: a known status that
// agrees with all_checks_passed and with the failure lists, and known types
// in type error entries.
func (d Document) Validate() error {
	switch d.Status {
	case StatusSuccess, StatusFailure:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidDocument, d.Status)
	}

	failures := len(d.Missing) + len(d.Empty) + len(d.TypeErrors)
	if d.AllChecksPassed != (d.Status == StatusSuccess) {
		return fmt.Errorf("%w: status %s disagrees with all_checks_passed=%v", ErrInvalidDocument, d.Status, d.AllChecksPassed)
	}
	if d.AllChecksPassed == (failures > 0) {
		return fmt.Errorf("%w: all_checks_passed=%v with %d failing key(s)", ErrInvalidDocument, d.AllChecksPassed, failures)
	}
	for _, e := range d.TypeErrors {
		if !blueprint.ValueType(e.Expected).IsValid() {
			return fmt.Errorf("%w: type error for %s has unknown expected type %q", ErrInvalidDocument, e.Key, e.Expected)
		}
	}
	return nil
}

// Result rebuilds a validation result from the document. OK outcomes are not
// part of the document, so Outcomes only holds the failing keys, and missing or
// empty entries carry no expected type.
func (d Document) Result() validate.Result {
	r := validate.Result{
		RequiredCount:   d.RequiredCount,
		FoundCount:      d.FoundCount,
		AllChecksPassed: d.AllChecksPassed,
	}

	for _, e := range d.Missing {
		name := blueprint.KeyName(e.Key)
		r.Missing = append(r.Missing, validate.Outcome{
			Name:    name,
			Status:  validate.StatusMissing,
			Message: validate.MissingMessage(name),
		})
	}
	for _, e := range d.Empty {
		name := blueprint.KeyName(e.Key)
		r.Empty = append(r.Empty, validate.Outcome{
			Name:    name,
			Status:  validate.StatusEmpty,
			Message: validate.EmptyMessage(name),
		})
	}
	for _, e := range d.TypeErrors {
		r.TypeErrors = append(r.TypeErrors, validate.Outcome{
			Name:     blueprint.KeyName(e.Key),
			Status:   validate.StatusTypeMismatch,
			Expected: blueprint.ValueType(e.Expected),
			Actual:   e.ActualValue,
			Message:  e.Message,
		})
	}

	r.Outcomes = append(r.Outcomes, r.Missing...)
	r.Outcomes = append(r.Outcomes, r.Empty...)
	r.Outcomes = append(r.Outcomes, r.TypeErrors...)
	return r
}

// Marshal encodes the document in a structured format.
func (d Document) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.MarshalWithOptions(d, yaml.Indent(2), yaml.IndentSequence(true))
	case FormatTOML:
		return toml.Marshal(d)
	default:
		return nil, fmt.Errorf("format %q is not a structured format", format)
	}
}

// Parse decodes a structured report and checks it for consistency.
// Unknown fields are rejected.
func Parse(data []byte, format Format) (Document, error) {
	var doc Document

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("failed to parse JSON report: %w", err)
		}
	case FormatYAML:
		if err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField()); err != nil {
			return Document{}, fmt.Errorf("failed to parse YAML report: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("failed to parse TOML report: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("format %q is not a structured format", format)
	}

	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}
