// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors
var (
	ErrConfigIncomplete  = errors.New("configuration incomplete")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrFetchFailed       = errors.New("fetch failed")
	ErrDispatchFailed    = errors.New("dispatch failed")
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// ConfigError reports required settings that are absent.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration incomplete: missing %d required setting(s): %s",
		len(e.Missing), strings.Join(e.Missing, ", "))
}

func (e *ConfigError) Unwrap() error {
	return ErrConfigIncomplete
}

// NewConfigError creates a new ConfigError.
func NewConfigError(missing []string) *ConfigError {
	return &ConfigError{Missing: append([]string(nil), missing...)}
}

// FetchError represents a failed query against the records store.
type FetchError struct {
	Source     string
	Collection string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error [%s] %s: %v", e.Source, e.Collection, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}

// NewFetchError creates a new FetchError.
func NewFetchError(source, collection string, err error) *FetchError {
	return &FetchError{
		Source:     source,
		Collection: collection,
		Err:        err,
	}
}

// DispatchError represents a failed email submission.
type DispatchError struct {
	Transport string
	Recipient string
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch error [%s] to %s: %v", e.Transport, e.Recipient, e.Err)
}

func (e *DispatchError) Unwrap() []error {
	return []error{ErrDispatchFailed, e.Err}
}

// NewDispatchError creates a new DispatchError.
func NewDispatchError(transport, recipient string, err error) *DispatchError {
	return &DispatchError{
		Transport: transport,
		Recipient: recipient,
		Err:       err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrConfigInvalid
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
