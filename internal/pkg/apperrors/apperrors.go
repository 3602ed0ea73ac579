package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a domain error for status-code mapping at the boundary.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindLineageViolation  Kind = "LINEAGE_VIOLATION"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindConflict          Kind = "CONFLICT"
	KindIntegrity         Kind = "INTEGRITY_ERROR"
)

// Error is a domain error carrying enough context (entity id, offered vs
// required values) to render a precise user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// StatusCode maps the error kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidation:
		return fiber.StatusBadRequest
	case KindLineageViolation:
		return fiber.StatusUnprocessableEntity
	case KindInsufficientStock, KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// NotFound builds a NOT_FOUND error for a missing entity.
func NotFound(entity string, id interface{}) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %v not found", entity, id),
		Details: map[string]interface{}{"entity": entity, "id": id},
	}
}

// Validation builds a VALIDATION_ERROR with an optional field name.
func Validation(message string, field string) *Error {
	details := map[string]interface{}{}
	if field != "" {
		details["field"] = field
	}
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// LineageViolation builds a LINEAGE_VIOLATION between two generation levels.
func LineageViolation(message, parentLevel, targetLevel string) *Error {
	return &Error{
		Kind:    KindLineageViolation,
		Message: message,
		Details: map[string]interface{}{"parent_level": parentLevel, "target_level": targetLevel},
	}
}

// InsufficientStock builds an INSUFFICIENT_STOCK error reporting available
// vs requested quantities for a lot.
func InsufficientStock(lotID string, available, requested float64) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock on lot %s: %.2f kg available, %.2f kg requested", lotID, available, requested),
		Details: map[string]interface{}{"lot_id": lotID, "available": available, "requested": requested},
	}
}

// Conflict builds a CONFLICT error for operations on terminal-state entities
// or duplicate identifiers.
func Conflict(message string, details map[string]interface{}) *Error {
	if details == nil {
		details = map[string]interface{}{}
	}
	return &Error{Kind: KindConflict, Message: message, Details: details}
}

// Integrity builds an INTEGRITY_ERROR for corrupted parent/child chains.
func Integrity(message string, lotID string) *Error {
	return &Error{
		Kind:    KindIntegrity,
		Message: message,
		Details: map[string]interface{}{"lot_id": lotID},
	}
}

// As extracts a domain *Error from err, unwrapping as needed, or nil if the
// chain contains none.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	e := As(err)
	return e != nil && e.Kind == kind
}
