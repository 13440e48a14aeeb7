package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an application error so callers can branch on it without
// matching error strings.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors that carry no kind.
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConstraintViolation
	KindInternal
)

// String returns the code reported to GraphQL clients in extensions.code.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConstraintViolation:
		return "CONSTRAINT_VIOLATION"
	case KindInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// kinded is implemented by every error type in this package.
type kinded interface {
	Kind() Kind
}

// KindOf returns the kind of the first typed error in err's chain.
func KindOf(err error) Kind {
	var k kinded
	if stderrors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func extensions(k Kind, fields map[string]interface{}) map[string]interface{} {
	ext := map[string]interface{}{"code": k.String()}
	for key, v := range fields {
		ext[key] = v
	}
	return ext
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Kind() Kind { return KindValidation }

// Extensions is picked up by the GraphQL executor and rendered under "extensions".
func (e *ValidationError) Extensions() map[string]interface{} {
	if e.Field == "" {
		return extensions(KindValidation, nil)
	}
	return extensions(KindValidation, map[string]interface{}{"field": e.Field})
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: id=%s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Kind() Kind { return KindNotFound }

func (e *NotFoundError) Extensions() map[string]interface{} {
	return extensions(KindNotFound, map[string]interface{}{"resource": e.Resource})
}

// ConstraintViolationError is returned when a write is rejected by a storage
// constraint, e.g. a duplicate unique column.
type ConstraintViolationError struct {
	Field   string
	Message string
	Err     error
}

// NewConstraintViolationError creates a new constraint violation error
func NewConstraintViolationError(field, message string, err error) *ConstraintViolationError {
	return &ConstraintViolationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *ConstraintViolationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s violates a unique constraint", e.Field)
}

// Unwrap returns the driver error, if any
func (e *ConstraintViolationError) Unwrap() error {
	return e.Err
}

func (e *ConstraintViolationError) Kind() Kind { return KindConstraintViolation }

func (e *ConstraintViolationError) Extensions() map[string]interface{} {
	return extensions(KindConstraintViolation, map[string]interface{}{"field": e.Field})
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

func (e *InternalError) Kind() Kind { return KindInternal }

func (e *InternalError) Extensions() map[string]interface{} {
	return extensions(KindInternal, nil)
}
