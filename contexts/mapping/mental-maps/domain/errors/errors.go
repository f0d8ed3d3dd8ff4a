package errors

import (
	"errors"
	"strings"
)

// Category sentinels. Transport code maps these to status codes with errors.Is.
var (
	ErrValidation          = errors.New("invalid request parameters")
	ErrNotFound            = errors.New("resource not found")
	ErrForbidden           = errors.New("insufficient permissions")
	ErrAuthRequired        = errors.New("authentication required")
	ErrIdempotencyConflict = errors.New("idempotency key reused with different request")

	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)

// Specific failures carry their own message but still match their category.
var (
	ErrMapNotFound       error = kindError{kind: ErrNotFound, message: "map not found"}
	ErrElementNotFound   error = kindError{kind: ErrNotFound, message: "element not found"}
	ErrReportNotFound    error = kindError{kind: ErrNotFound, message: "report not found"}
	ErrReportMapNotFound error = kindError{kind: ErrNotFound, message: "cannot create report: map not found"}

	ErrMapReadForbidden       error = kindError{kind: ErrForbidden, message: "insufficient permissions to view map"}
	ErrMapWriteForbidden      error = kindError{kind: ErrForbidden, message: "insufficient permissions to modify map"}
	ErrMapDeleteForbidden     error = kindError{kind: ErrForbidden, message: "insufficient permissions to delete map"}
	ErrElementReadForbidden   error = kindError{kind: ErrForbidden, message: "insufficient permissions to view map elements"}
	ErrElementWriteForbidden  error = kindError{kind: ErrForbidden, message: "insufficient permissions to modify map elements"}
	ErrElementDeleteForbidden error = kindError{kind: ErrForbidden, message: "insufficient permissions to delete map elements"}
	ErrModeratorRequired      error = kindError{kind: ErrForbidden, message: "moderator role required"}

	ErrIdempotencyInProgress error = kindError{kind: ErrIdempotencyConflict, message: "request with this idempotency key is still in progress"}
)

type kindError struct {
	kind    error
	message string
}

func (e kindError) Error() string {
	return e.message
}

func (e kindError) Is(target error) bool {
	return target == e.kind
}

// FieldIssue is one entry of a validation failure, e.g. {title, required}.
type FieldIssue struct {
	Field string
	Issue string
}

// ValidationError collects every field issue of a request.
type ValidationError struct {
	Details []FieldIssue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Details) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Details))
	for _, detail := range e.Details {
		parts = append(parts, detail.Field+": "+detail.Issue)
	}
	return ErrValidation.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add appends an issue; chained by validators.
func (e *ValidationError) Add(field string, issue string) {
	e.Details = append(e.Details, FieldIssue{Field: field, Issue: issue})
}

// Err returns nil when no issue was collected, so callers can `return v.Err()`.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Details) == 0 {
		return nil
	}
	return e
}
