// Package apperrors defines the error kinds surfaced to API callers.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindInsufficientFunds
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindInsufficientFunds:
		return "insufficient_funds"
	default:
		return "internal"
	}
}

// AppError carries a human-readable message and, optionally, the underlying cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func InvalidInput(msg string) error { return &AppError{Kind: KindInvalidInput, Message: msg} }

func NotFound(msg string) error { return &AppError{Kind: KindNotFound, Message: msg} }

func InsufficientFunds(msg string) error { return &AppError{Kind: KindInsufficientFunds, Message: msg} }

// Internal wraps an unexpected store or runtime failure.
func Internal(msg string, err error) error {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the Kind of err, KindInternal when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an AppError of kind k.
func Is(err error, k Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == k
}

// HTTPStatus maps an error to the status code returned to the client.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput, KindInsufficientFunds:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to return to clients. Internal causes stay in the logs.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
