package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("object not found")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflict")
	ErrDependency        = errors.New("dependency failure")
)

// ValidationCode identifies which input rule was broken.
type ValidationCode string

const (
	CodeRequired           ValidationCode = "REQUIRED"
	CodeInvalidValue       ValidationCode = "INVALID_VALUE"
	CodeInvalidCanteen     ValidationCode = "INVALID_CANTEEN"
	CodeEmptyCart          ValidationCode = "EMPTY_CART"
	CodeMissingAmounts     ValidationCode = "MISSING_AMOUNTS"
	CodeInvalidTotal       ValidationCode = "INVALID_TOTAL"
	CodeInvalidMenuItem    ValidationCode = "INVALID_MENU_ITEM"
	CodeItemUnavailable    ValidationCode = "ITEM_UNAVAILABLE"
	CodeInvalidQuantity    ValidationCode = "INVALID_QUANTITY"
	CodeInvalidPaymentMode ValidationCode = "INVALID_PAYMENT_MODE"
	CodeInvalidStatus      ValidationCode = "INVALID_STATUS"
	CodeInvalidCategory    ValidationCode = "INVALID_CATEGORY"
	CodeInvalidRole        ValidationCode = "INVALID_ROLE"
	CodeDuplicate          ValidationCode = "DUPLICATE"
)

type ValidationError struct {
	Code    ValidationCode
	Field   string
	Message string
}

func NewValidationError(code ValidationCode, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}

// NewRequiredError reports a missing field as "<field> is required".
func NewRequiredError(field string) *ValidationError {
	return &ValidationError{Code: CodeRequired, Field: field, Message: field + " is required"}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

type AuthenticationError struct {
	Reason string
}

func NewAuthenticationError(reason string) *AuthenticationError {
	return &AuthenticationError{Reason: reason}
}

func (e *AuthenticationError) Error() string {
	if e.Reason == "" {
		return "Authentication required"
	}
	return e.Reason
}

func (e *AuthenticationError) Unwrap() error {
	return ErrUnauthenticated
}

// AuthorizationCode separates a role that may never perform an operation
// from a role that may, but not on this canteen's data.
type AuthorizationCode string

const (
	CodeUnauthorized AuthorizationCode = "UNAUTHORIZED"
	CodeAccessDenied AuthorizationCode = "ACCESS_DENIED"
)

type AuthorizationError struct {
	Code    AuthorizationCode
	Message string
}

func NewUnauthorizedError(message string) *AuthorizationError {
	if message == "" {
		message = "Unauthorized"
	}
	return &AuthorizationError{Code: CodeUnauthorized, Message: message}
}

func NewAccessDeniedError() *AuthorizationError {
	return &AuthorizationError{Code: CodeAccessDenied, Message: "Access denied"}
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func (e *AuthorizationError) Unwrap() error {
	return ErrUnauthorized
}

type StateTransitionError struct {
	From string
	To   string
}

func NewStateTransitionError(from, to string) *StateTransitionError {
	return &StateTransitionError{From: from, To: to}
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("Invalid transition from %s to %s", e.From, e.To)
}

func (e *StateTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

type ConflictError struct {
	Resource string
	ID       string
	Message  string
}

func NewConflictError(resource string, id any, message string) *ConflictError {
	return &ConflictError{Resource: resource, ID: fmt.Sprint(id), Message: message}
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s was modified concurrently", e.Resource, e.ID)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// DependencyError wraps a failure of the store, cache, object store or
// payment gateway. Its message is logged, never sent to clients.
type DependencyError struct {
	Operation string
	Cause     error
}

func NewDependencyError(operation string, cause error) *DependencyError {
	return &DependencyError{Operation: operation, Cause: cause}
}

func (e *DependencyError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("dependency failure: %s", e.Operation)
	}
	return fmt.Sprintf("dependency failure: %s (cause: %v)", e.Operation, e.Cause)
}

func (e *DependencyError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDependency}
	}
	return []error{ErrDependency, e.Cause}
}
