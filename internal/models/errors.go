package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for outcomes that carry no structured detail.
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrUnauthenticated  = errors.New("no authenticated caller")
	ErrStoreUnavailable = errors.New("identity store unavailable")
)

// FieldError describes a single field-level failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports a local invariant failure detected before any store
// call is made.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", fieldSummary(e.Errors))
}

// BusinessError reports a write the identity store rejected. Errors is the
// store's own field-error list, passed through verbatim so the caller can see
// exactly which field failed and why.
type BusinessError struct {
	Errors []FieldError
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("update rejected by store: %s", fieldSummary(e.Errors))
}

func fieldSummary(errs []FieldError) string {
	if len(errs) == 0 {
		return "no details"
	}
	return fmt.Sprintf("%s: %s", errs[0].Field, errs[0].Message)
}
