package economics

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a setup gap that an administrator has to fix.
	ErrConfiguration = errors.New("economics configuration error")
	// ErrInvalidInput marks caller-supplied values outside their allowed range.
	ErrInvalidInput = errors.New("economics invalid input")
)

// ConfigurationError reports a missing or inconsistent setting.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// InvalidInputError reports a rejected input value.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s=%s: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

func configErr(field, reason string) error {
	return &ConfigurationError{Field: field, Reason: reason}
}

func inputErr(field string, value fmt.Stringer, reason string) error {
	return &InvalidInputError{Field: field, Value: value.String(), Reason: reason}
}

type intString int

func (i intString) String() string { return fmt.Sprintf("%d", int(i)) }
