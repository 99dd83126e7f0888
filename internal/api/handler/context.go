package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/middleware"
	"github.com/99minutos/auth-service/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. A
// handler reached without it was mounted outside the gate; treat that as an
// unauthenticated request rather than serving an empty identity.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || identity.UserID == "" {
		return domain.Identity{}, domain.ErrMissingCredential
	}
	return identity, nil
}
