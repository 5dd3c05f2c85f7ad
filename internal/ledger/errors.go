package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports an unknown credit, expenditure or invoice id.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FieldError is a single rejected input field.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError reports malformed input. It is always returned before any state is touched.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Reason
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a rejected field.
func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// Merge copies the fields of other under the given prefix.
func (e *ValidationError) Merge(prefix string, other *ValidationError) {
	for _, f := range other.Fields {
		e.Add(prefix+f.Field, f.Reason)
	}
}

// Err returns nil when no field was rejected.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}

	return e
}

// InvariantViolationError means a recomputed allocation failed reconciliation.
// It never reaches users of correct code; the mutation that produced it is rolled back.
type InvariantViolationError struct {
	LicenseID uuid.UUID
	Reason    string
	Expected  decimal.Decimal
	Actual    decimal.Decimal
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("ledger invariant violated for license %s: %s (expected %s, got %s)",
		e.LicenseID, e.Reason, e.Expected, e.Actual)
}
