package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
)

// Error types for semcouple
type ErrorType string

const (
	// Ingestion errors
	ErrorTypeAnnotation ErrorType = "annotation"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileRead     ErrorType = "file_read"
	ErrorTypePermission   ErrorType = "permission"

	// Query errors
	ErrorTypeTargetNotFound ErrorType = "target_not_found"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// ErrTargetNotFound is matched by errors.Is for every TargetNotFoundError.
var ErrTargetNotFound = errors.New("target document not found in corpus")

// FileError represents a failure reading a corpus file
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error, classifying the underlying cause
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileRead
	switch {
	case errors.Is(err, fs.ErrNotExist):
		errorType = ErrorTypeFileNotFound
	case errors.Is(err, fs.ErrPermission):
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// AnnotationError represents a tokenizer/lemmatizer failure for one document
type AnnotationError struct {
	Type       ErrorType
	Document   string
	Underlying error
	Timestamp  time.Time
}

// NewAnnotationError creates a new annotation error
func NewAnnotationError(document string, err error) *AnnotationError {
	return &AnnotationError{
		Type:       ErrorTypeAnnotation,
		Document:   document,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *AnnotationError) Error() string {
	return fmt.Sprintf("annotation failed for %s: %v", e.Document, e.Underlying)
}

// Unwrap returns the underlying error
func (e *AnnotationError) Unwrap() error {
	return e.Underlying
}

// TargetNotFoundError is returned when a query names a document that is not in the corpus
type TargetNotFoundError struct {
	Type        ErrorType
	Target      string
	Suggestions []string // closest corpus names, best first
	Timestamp   time.Time
}

// NewTargetNotFoundError creates a new target-not-found error
func NewTargetNotFoundError(target string, suggestions []string) *TargetNotFoundError {
	return &TargetNotFoundError{
		Type:        ErrorTypeTargetNotFound,
		Target:      target,
		Suggestions: suggestions,
		Timestamp:   time.Now(),
	}
}

// Error implements the error interface
func (e *TargetNotFoundError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("target %q not found in corpus (did you mean %s?)", e.Target, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("target %q not found in corpus", e.Target)
}

// Is reports whether target is ErrTargetNotFound
func (e *TargetNotFoundError) Is(target error) bool {
	return target == ErrTargetNotFound
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
