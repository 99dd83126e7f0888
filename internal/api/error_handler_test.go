package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/auth"
	"github.com/99minutos/auth-service/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"duplicate", domain.ErrDuplicateUsername, http.StatusBadRequest, CodeDuplicateUsername},
		{"wrapped duplicate", fmt.Errorf("register: %w", domain.ErrDuplicateUsername), http.StatusBadRequest, CodeDuplicateUsername},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"missing credential", domain.ErrMissingCredential, http.StatusUnauthorized, CodeMissingCredential},
		{"invalid token", domain.ErrInvalidToken, http.StatusForbidden, CodeInvalidToken},
		{"verification error", &auth.VerificationError{Kind: auth.KindExpired}, http.StatusForbidden, CodeInvalidToken},
		{"password too long", fmt.Errorf("register: %w", auth.ErrPasswordTooLong), http.StatusBadRequest, CodeInvalidPayload},
		{"echo bad request", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, CodeInvalidPayload},
		{"echo not found", echo.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"store unavailable", fmt.Errorf("login: %w", domain.ErrStoreUnavailable), http.StatusInternalServerError, CodeInternal},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Fatalf("expected body to contain %q, got %s", tc.wantBody, rec.Body.String())
			}
		})
	}
}

func TestHTTPErrorHandler_NoLeakOnInternalError(t *testing.T) {
	var logs bytes.Buffer
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.New(&logs))(errors.New("pq: password authentication failed for user admin"), c)

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "internal server error" {
		t.Fatalf("expected generic message, got %q", resp["error"])
	}
	if strings.Contains(rec.Body.String(), "admin") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "password authentication failed") {
		t.Fatalf("expected operator log to carry the cause, got %s", logs.String())
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = c.String(http.StatusOK, "done")
	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was modified: %d %s", rec.Code, rec.Body.String())
	}
}
