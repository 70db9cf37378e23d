// Package domain holds the blog's entities, their rules and the errors
// those rules produce. Nothing here knows about HTTP or SQL; adapters map
// the errors to responses.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched with errors.Is; the typed errors below unwrap to them.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict such as a duplicate username.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrStore indicates the persistence layer failed.
	ErrStore = errors.New("store failure")
)

// NotFoundError names the entity that is missing, e.g. post "12".
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError returns a *NotFoundError.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports a write refused by a uniqueness rule.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError returns a *ConflictError.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError is one field failure. Field is empty for failures of
// the whole input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError returns a failure of a single field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ValidationErrors collects field-level failures so a form can be
// redisplayed with every problem at once.
type ValidationErrors struct {
	Fields []ValidationError
}

// Add records a failure for field.
func (e *ValidationErrors) Add(field, message string) {
	e.Fields = append(e.Fields, ValidationError{Field: field, Message: message})
}

// OrNil returns nil when no failures were recorded.
func (e *ValidationErrors) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}

	return e
}

// Error lists every field failure in one line.
func (e *ValidationErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationErrors) Unwrap() error {
	return ErrValidation
}

// FieldMap returns the failures keyed by field name. The first message per
// field wins.
func (e *ValidationErrors) FieldMap() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := m[f.Field]; !ok {
			m[f.Field] = f.Message
		}
	}

	return m
}

// FieldErrors extracts field-level messages from err.
// Returns nil when err carries no field information.
func FieldErrors(err error) map[string]string {
	var multi *ValidationErrors
	if errors.As(err, &multi) {
		return multi.FieldMap()
	}

	var single *ValidationError
	if errors.As(err, &single) && single.Field != "" {
		return map[string]string{single.Field: single.Message}
	}

	return nil
}

// StoreError wraps a failure of the underlying persistence engine.
// It is not recoverable at the handler boundary.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap exposes the driver error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches ErrStore in addition to the wrapped driver error.
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// NewStoreError wraps err as a store failure of operation op.
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsNotFound reports whether err is or wraps ErrNotFound. The other Is
// helpers do the same for their sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsStore(err error) bool {
	return errors.Is(err, ErrStore)
}
