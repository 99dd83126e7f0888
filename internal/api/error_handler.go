package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/auth"
	"github.com/99minutos/auth-service/internal/core/domain"
)

// Error codes rendered in the "code" field of the error envelope.
const (
	CodeDuplicateUsername  = "DUPLICATE_USERNAME"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeMissingCredential  = "MISSING_CREDENTIAL"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidPayload     = "INVALID_PAYLOAD"
	CodeInternal           = "INTERNAL"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<CODE>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		resp := errorResponse{Error: fmt.Sprintf("%v", he.Message)}
		if he.Code == http.StatusBadRequest {
			resp.Code = CodeInvalidPayload
		}
		return he.Code, resp
	}

	// Known domain errors → deterministic HTTP codes. Token and credential
	// failures deliberately carry no detail about which check failed.
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusBadRequest, errorResponse{Error: "username already exists", Code: CodeDuplicateUsername}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials", Code: CodeInvalidCredentials}
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required", Code: CodeMissingCredential}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusForbidden, errorResponse{Error: "invalid token", Code: CodeInvalidToken}
	case errors.Is(err, auth.ErrPasswordTooLong):
		return http.StatusBadRequest, errorResponse{Error: "password must be at most 72 bytes", Code: CodeInvalidPayload}
	}

	// Unexpected error: log the real cause, return a generic message.
	evt := log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path())
	if errors.Is(err, domain.ErrStoreUnavailable) {
		evt = evt.Bool("store_unavailable", true)
	}
	evt.Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: CodeInternal}
}
