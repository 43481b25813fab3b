// Package errors provides the error and violation types for the OpenDAPI
// toolchain. Reportable violations (schema failures, missing files, broken
// URN references) are collected into run results rather than aborting a
// run; configuration and I/O errors abort immediately. The split is a
// type-level fact: every reportable type satisfies errors.Is(err,
// ErrViolation), everything else is fatal.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// As is an alias for the standard library errors.As.
var As = errors.As

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// Common sentinel errors for the OpenDAPI toolchain
var (
	// ErrNotFound indicates that a requested descriptor or resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrViolation is the base class of every reportable violation.
	// Violations are collected into run results, never thrown.
	ErrViolation = errors.New("violation")

	// ErrRegistryUnavailable indicates that the descriptor registry could not serve a request
	ErrRegistryUnavailable = errors.New("registry unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")
)

// SchemaError reports a document that fails its schema contract. Pointer is
// a JSON-pointer-like location within the document. Merge conflicts between
// table records targeting the same file are reported through this type too,
// since the merged value is still well-formed input to validation.
type SchemaError struct {
	File    string
	Pointer string
	Message string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.Pointer != "" {
		return fmt.Sprintf("schema violation in %s at %s: %s", e.File, e.Pointer, e.Message)
	}
	return fmt.Sprintf("schema violation in %s: %s", e.File, e.Message)
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrViolation
}

// NewSchemaError creates a new SchemaError
func NewSchemaError(file, pointer, message string) *SchemaError {
	return &SchemaError{File: file, Pointer: pointer, Message: message}
}

// MissingFileError reports a descriptor file that is required to exist but
// does not. File may be empty when an entire descriptor kind has no files
// under the root.
type MissingFileError struct {
	Kind string
	File string
}

// Error implements the error interface
func (e *MissingFileError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("required %s descriptor missing: %s", e.Kind, e.File)
	}
	return fmt.Sprintf("no %s descriptor files found", e.Kind)
}

// Is implements errors.Is support
func (e *MissingFileError) Is(target error) bool {
	return target == ErrViolation
}

// NewMissingFileError creates a new MissingFileError
func NewMissingFileError(kind, file string) *MissingFileError {
	return &MissingFileError{Kind: kind, File: file}
}

// IntegrityError reports a URN reference with no matching entity in the
// sibling descriptor sets.
type IntegrityError struct {
	File       string
	Dataset    string // URN of the referring dataset
	Field      string // referring field, e.g. "owner_team_urn"
	MissingURN string
	TargetKind string // descriptor kind the URN should resolve in
}

// Error implements the error interface
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("referential integrity violation in %s: %s %q of dataset %s not found in %s",
		e.File, e.Field, e.MissingURN, e.Dataset, e.TargetKind)
}

// Is implements errors.Is support
func (e *IntegrityError) Is(target error) bool {
	return target == ErrViolation
}

// NewIntegrityError creates a new IntegrityError
func NewIntegrityError(file, dataset, field, missingURN, targetKind string) *IntegrityError {
	return &IntegrityError{
		File:       file,
		Dataset:    dataset,
		Field:      field,
		MissingURN: missingURN,
		TargetKind: targetKind,
	}
}

// TypeKindError reports a column whose adapter-inferred type has no mapping
// to the dataset field data_type enum. The template for the offending table
// cannot be built, but other tables and validators proceed.
type TypeKindError struct {
	Table    string
	Column   string
	TypeName string
}

// Error implements the error interface
func (e *TypeKindError) Error() string {
	return fmt.Sprintf("unsupported type kind %q for column %s.%s", e.TypeName, e.Table, e.Column)
}

// Is implements errors.Is support
func (e *TypeKindError) Is(target error) bool {
	return target == ErrViolation
}

// NewTypeKindError creates a new TypeKindError
func NewTypeKindError(table, column, typeName string) *TypeKindError {
	return &TypeKindError{Table: table, Column: column, TypeName: typeName}
}

// OutOfDateError reports a descriptor whose on-disk content differs from
// the generated state while persistence is disabled, e.g. during CI.
type OutOfDateError struct {
	Kind string
	File string
}

// Error implements the error interface
func (e *OutOfDateError) Error() string {
	return fmt.Sprintf("%s descriptor %s is not up to date; run the autoupdate locally and commit the result", e.Kind, e.File)
}

// Is implements errors.Is support
func (e *OutOfDateError) Is(target error) bool {
	return target == ErrViolation
}

// NewOutOfDateError creates a new OutOfDateError
func NewOutOfDateError(kind, file string) *OutOfDateError {
	return &OutOfDateError{Kind: kind, File: file}
}

// ParseError represents an error when parsing descriptor files
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. An unreadable descriptor is reportable:
// the rest of the run continues past it.
func (e *ParseError) Is(target error) bool {
	return target == ErrViolation
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents invalid caller-supplied input
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error. Configuration errors are
// programmer or setup mistakes and abort the run immediately.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// RegistryError represents an error response from the descriptor registry
type RegistryError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *RegistryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("registry error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("registry error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *RegistryError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RegistryError) Is(target error) bool {
	if e.StatusCode > 400 {
		return target == ErrRegistryUnavailable
	}
	return false
}

// NewRegistryError creates a new RegistryError
func NewRegistryError(endpoint string, statusCode int, message string) *RegistryError {
	return &RegistryError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// Helper functions for error checking

// IsViolation checks if an error is a reportable violation
func IsViolation(err error) bool {
	return errors.Is(err, ErrViolation)
}

// IsSchemaError checks if an error is a schema violation
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

// IsMissingFile checks if an error is a missing required file violation
func IsMissingFile(err error) bool {
	var target *MissingFileError
	return errors.As(err, &target)
}

// IsIntegrityError checks if an error is a referential integrity violation
func IsIntegrityError(err error) bool {
	var target *IntegrityError
	return errors.As(err, &target)
}

// IsTypeKindError checks if an error is an unsupported type kind violation
func IsTypeKindError(err error) bool {
	var target *TypeKindError
	return errors.As(err, &target)
}

// IsOutOfDate checks if an error is an out-of-date descriptor violation
func IsOutOfDate(err error) bool {
	var target *OutOfDateError
	return errors.As(err, &target)
}

// IsParseError checks if an error is a descriptor parse failure
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}

// IsRegistryError checks if an error came back from the descriptor registry
func IsRegistryError(err error) bool {
	var target *RegistryError
	return errors.As(err, &target)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapRegistry wraps an error as a RegistryError
func WrapRegistry(endpoint string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &RegistryError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
