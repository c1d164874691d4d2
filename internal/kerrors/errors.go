// Package kerrors defines the typed error taxonomy used throughout the
// kconfig language server. internal/kctx and internal/kconfig only ever
// return these types; translation to RPC-facing rpc.Error happens at the
// internal/server boundary, keeping the domain layer transport-agnostic.
package kerrors

import (
	"fmt"
	"time"
)

// ErrorType discriminates the kind of failure being reported.
type ErrorType string

const (
	ErrorTypeParse     ErrorType = "parse"
	ErrorTypeLint      ErrorType = "lint"
	ErrorTypeTransport ErrorType = "transport"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeInternal  ErrorType = "internal"
)

// ParseError represents a failure while lexing or parsing a Kconfig file
// or a .conf assignment file.
type ParseError struct {
	Type       ErrorType
	FilePath   string
	Line       int
	Column     int
	Token      string
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new parse error anchored at a file position.
func NewParseError(path string, line, column int, token string, err error) *ParseError {
	return &ParseError{
		Type:       ErrorTypeParse,
		FilePath:   path,
		Line:       line,
		Column:     column,
		Token:      token,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("parse error at %s:%d:%d (near token %q): %v",
			e.FilePath, e.Line, e.Column, e.Token, e.Underlying)
	}
	return fmt.Sprintf("parse error at %s:%d:%d: %v", e.FilePath, e.Line, e.Column, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// LintError represents a single diagnostic produced while replaying a
// .conf file against a KconfigContext (one of the six linter checks).
type LintError struct {
	Type       ErrorType
	Check      string // e.g. "undefined", "type", "assignment", "visibility", "defaults", "multiple_assignments"
	Symbol     string
	FilePath   string
	Line       int
	Underlying error
	Timestamp  time.Time
}

// NewLintError creates a new lint diagnostic error.
func NewLintError(check, symbol, path string, line int, err error) *LintError {
	return &LintError{
		Type:       ErrorTypeLint,
		Check:      check,
		Symbol:     symbol,
		FilePath:   path,
		Line:       line,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *LintError) Error() string {
	return fmt.Sprintf("%s check failed for %s at %s:%d: %v", e.Check, e.Symbol, e.FilePath, e.Line, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *LintError) Unwrap() error {
	return e.Underlying
}

// TransportError represents a failure in the JSON-RPC framing or
// dispatch layer (malformed headers, unknown method, bad params).
type TransportError struct {
	Type       ErrorType
	Method     string
	Code       int
	Underlying error
	Timestamp  time.Time
}

// NewTransportError creates a new transport-layer error.
func NewTransportError(method string, code int, err error) *TransportError {
	return &TransportError{
		Type:       ErrorTypeTransport,
		Method:     method,
		Code:       code,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *TransportError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("transport error for method %s (code %d): %v", e.Method, e.Code, e.Underlying)
	}
	return fmt.Sprintf("transport error (code %d): %v", e.Code, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration-loading or validation error.
type ConfigError struct {
	Field      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error for the given field.
func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s: %v", e.Field, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError aggregates multiple errors, used when a single lint pass or
// parse pass accumulates several independent diagnostics.
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error, dropping any nil entries.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all wrapped errors (errors.Is/As walk each branch).
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
