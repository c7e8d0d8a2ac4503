// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/trmxvibs/EnvSanityCheck/internal/dotenv"
	"github.com/trmxvibs/EnvSanityCheck/internal/report"
	"github.com/trmxvibs/EnvSanityCheck/pkg/blueprint"
)

const (
	// ColorAuto colors text output only when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colored text output.
	ColorAlways ColorMode = "always"
	// ColorNever disables colored text output.
	ColorNever ColorMode = "never"
)

var (
	// ErrInvalidColorMode is returned when a ColorMode value is not recognized.
	ErrInvalidColorMode = errors.New("invalid color mode")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorMode selects when the text report is colored.
	ColorMode string

	// InvalidColorModeError is returned when a ColorMode value is not recognized.
	// It wraps ErrInvalidColorMode for errors.Is() compatibility.
	InvalidColorModeError struct {
		Value ColorMode
	}

	// InvalidConfigError collects every field error of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the envcheck configuration.
	Config struct {
		// Blueprint is the path of the blueprint file.
		Blueprint string `json:"blueprint" mapstructure:"blueprint"`
		// EnvFile is the path of the local configuration file.
		EnvFile string `json:"env_file" mapstructure:"env_file"`
		// Format is the default report format.
		Format report.Format `json:"format" mapstructure:"format"`
		// UI contains user interface settings.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig contains user interface settings.
	UIConfig struct {
		Verbose bool      `json:"verbose" mapstructure:"verbose"`
		Color   ColorMode `json:"color" mapstructure:"color"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Blueprint: blueprint.DefaultFileName,
		EnvFile:   dotenv.DefaultFileName,
		Format:    report.FormatText,
		UI: UIConfig{
			Verbose: false,
			Color:   ColorAuto,
		},
	}
}

// Validate returns an error if the ColorMode is not one of the defined modes.
func (m ColorMode) Validate() error {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return &InvalidColorModeError{Value: m}
	}
}

func (m ColorMode) String() string { return string(m) }

// Error implements the error interface.
func (e *InvalidColorModeError) Error() string {
	return fmt.Sprintf("invalid color mode %q (valid: auto, always, never)", e.Value)
}

// Unwrap returns ErrInvalidColorMode for errors.Is() compatibility.
func (e *InvalidColorModeError) Unwrap() error { return ErrInvalidColorMode }

// Validate checks the fields the CUE schema cannot see: values that arrive
// through defaults or ENVCHECK_* overrides skip the schema.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Blueprint) == "" {
		errs = append(errs, errors.New("blueprint: must not be empty"))
	}
	if strings.TrimSpace(c.EnvFile) == "" {
		errs = append(errs, errors.New("env_file: must not be empty"))
	}
	if err := c.Format.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("format: %w", err))
	}
	if err := c.UI.Color.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ui.color: %w", err))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
