package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failure")
)

var (
	ErrCartLineNotFound        = fmt.Errorf("cart line %w", ErrNotFound)
	ErrOrderLineNotFound       = fmt.Errorf("order line %w", ErrNotFound)
	ErrTableNotFound           = fmt.Errorf("table %w", ErrNotFound)
	ErrWaiterNotFound          = fmt.Errorf("waiter %w", ErrNotFound)
	ErrEmptyCart               = fmt.Errorf("%w: cart is empty", ErrConflict)
	ErrDuplicateTable          = fmt.Errorf("%w: table number already exists", ErrConflict)
	ErrInvalidStatusTransition = fmt.Errorf("%w: status transition not allowed", ErrConflict)
	ErrDuplicateUsername       = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrInvalidToken            = errors.New("invalid or expired token")
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError wraps a driver failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// passThrough leaves domain errors alone and wraps anything else as a
// persistence failure.
func passThrough(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrNotFound, ErrConflict, ErrValidation, ErrPersistence} {
		if errors.Is(err, known) {
			return err
		}
	}
	return persistence(op, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgerrcode.UniqueViolation
	}
	return false
}
