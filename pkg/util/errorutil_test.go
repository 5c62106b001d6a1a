package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	t.Parallel()

	original := NewDomainError("CONFLICT", "already there", http.StatusConflict, nil)
	got := ToDomainError(fmt.Errorf("saving favorite: %w", original))
	if got != original {
		t.Fatalf("wrapped DomainError not unwrapped, got %+v", got)
	}
}

func TestToDomainErrorNoRows(t *testing.T) {
	t.Parallel()

	for _, err := range []error{sql.ErrNoRows, pgx.ErrNoRows} {
		got := ToDomainError(err)
		if got.Code != "NOT_FOUND" || got.HTTPStatus != http.StatusNotFound {
			t.Fatalf("ToDomainError(%v) = %+v, want NOT_FOUND", err, got)
		}
	}
}

func TestToDomainErrorGeneric(t *testing.T) {
	t.Parallel()

	got := ToDomainError(errors.New("connection reset"))
	if got.Code != "INTERNAL_ERROR" || got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("generic error mapped to %+v", got)
	}
	if got.Message != "internal server error" {
		t.Fatalf("internal details leaked into message: %q", got.Message)
	}

	if err := ToDomainError(nil); err != nil {
		t.Fatalf("ToDomainError(nil) = %+v, want nil", err)
	}
}

func TestAuthErrorShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewDuplicateEmail(), "DUPLICATE_EMAIL", http.StatusBadRequest},
		{NewDuplicateUsername(), "DUPLICATE_USERNAME", http.StatusBadRequest},
		{NewInvalidCredentials(), "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{NewInvalidToken(), "INVALID_TOKEN", http.StatusUnauthorized},
		{NewAccountDisabled(), "ACCOUNT_DISABLED", http.StatusForbidden},
	}
	for _, tc := range cases {
		var domainErr *DomainError
		if !errors.As(tc.err, &domainErr) {
			t.Fatalf("%v is not a DomainError", tc.err)
		}
		if domainErr.Code != tc.code || domainErr.HTTPStatus != tc.status {
			t.Fatalf("%s: got %d %s", tc.code, domainErr.HTTPStatus, domainErr.Code)
		}
	}
}
