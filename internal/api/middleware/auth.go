package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/core/auth"
	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

const identityKey = "auth.identity"

// DefaultTokenHeader is the request header carrying the raw session token.
const DefaultTokenHeader = "Authorization"

// Auth admits a request only if the header carries a token the verifier
// accepts, and stores the verified identity on the context. The header value
// is the token itself; no scheme prefix is stripped.
//
// Rejections return domain.ErrMissingCredential (no header) or
// domain.ErrInvalidToken (any verification failure); next is not called.
func Auth(verifier ports.TokenVerifier, header string, log zerolog.Logger) echo.MiddlewareFunc {
	if header == "" {
		header = DefaultTokenHeader
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			values := c.Request().Header.Values(header)
			if len(values) == 0 {
				metrics.TokenChecksTotal.WithLabelValues("missing").Inc()
				return domain.ErrMissingCredential
			}

			identity, err := verifier.Verify(values[0])
			if err != nil {
				reason := string(auth.KindMalformed)
				var ve *auth.VerificationError
				if errors.As(err, &ve) {
					reason = string(ve.Kind)
				}
				metrics.TokenChecksTotal.WithLabelValues(reason).Inc()
				log.Debug().
					Str("reason", reason).
					Str("path", c.Path()).
					Msg("session token rejected")
				return domain.ErrInvalidToken
			}

			metrics.TokenChecksTotal.WithLabelValues("admitted").Inc()
			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}
