package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid input", err: InvalidInput("bad"), want: http.StatusBadRequest},
		{name: "not found", err: NotFound("missing"), want: http.StatusNotFound},
		{name: "insufficient funds", err: InsufficientFunds("low"), want: http.StatusBadRequest},
		{name: "internal", err: Internal("boom", errors.New("db down")), want: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("unexpected"), want: http.StatusInternalServerError},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", NotFound("User not found")), want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPublicMessageHidesCause(t *testing.T) {
	err := Internal("Failed to transfer points", errors.New("connection reset"))

	if got := PublicMessage(err); got != "Failed to transfer points" {
		t.Errorf("PublicMessage() = %q", got)
	}
	if got := PublicMessage(errors.New("raw")); got != "Internal server error" {
		t.Errorf("PublicMessage() for plain error = %q", got)
	}
	if !errors.Is(err, errors.Unwrap(err)) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestIs(t *testing.T) {
	if !Is(InsufficientFunds("low"), KindInsufficientFunds) {
		t.Error("expected insufficient funds kind")
	}
	if Is(NotFound("x"), KindInvalidInput) {
		t.Error("not found must not match invalid input")
	}
}
