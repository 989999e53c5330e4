package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Kind classifies analytics failures.
type Kind string

const (
	KindInput        Kind = "INVALID_INPUT"
	KindDataSource   Kind = "DATA_SOURCE_FAILURE"
	KindComputation  Kind = "COMPUTATION_FAILURE"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindNotFound     Kind = "NOT_FOUND"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// AnalyticsError standardizes application errors across the engine and
// its HTTP surface.
type AnalyticsError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *AnalyticsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AnalyticsError) Unwrap() error {
	return e.Err
}

// New constructs an AnalyticsError.
func New(kind Kind, message string, status int, details map[string]any) *AnalyticsError {
	return &AnalyticsError{Kind: kind, Message: message, HTTPStatus: status, Details: details}
}

// NewInputError reports malformed caller input, rejected before computation.
func NewInputError(message string, details map[string]any) error {
	return New(KindInput, message, http.StatusBadRequest, details)
}

// NewDataSourceError wraps a snapshot-provider failure with context.
func NewDataSourceError(message string, err error) error {
	return &AnalyticsError{
		Kind:       KindDataSource,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewComputationError reports unexpected internal state during aggregation.
func NewComputationError(message string, err error) error {
	return &AnalyticsError{
		Kind:       KindComputation,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewUnauthorized(message string) error {
	return New(KindUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewNotFound(resource string) error {
	return &AnalyticsError{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NewInternalError(err error) error {
	return &AnalyticsError{
		Kind:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToAnalyticsError converts generic errors to AnalyticsError.
func ToAnalyticsError(err error) *AnalyticsError {
	if err == nil {
		return nil
	}
	var appErr *AnalyticsError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if ae, ok := NewNotFound("resource").(*AnalyticsError); ok {
			return ae
		}
	}
	return &AnalyticsError{
		Kind:       KindInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AnalyticsError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Kind == kind
}
