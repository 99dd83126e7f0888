package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/core/domain"
)

const welcomeMessage = "Welcome to my page!"

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Profile returns the identity the session token was issued for.
//
// @Summary      Current user profile
// @Tags         profile
// @Produce      json
// @Param        Authorization  header    string  true  "Raw session token"
// @Success      200            {object}  domain.Identity
// @Failure      401            {object}  map[string]string
// @Failure      403            {object}  map[string]string
// @Router       /profile [get]
func (h *ProfileHandler) Profile(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.Identity{UserID: identity.UserID, Username: identity.Username})
}

// Welcome is the unauthenticated greeting.
//
// @Summary      Welcome
// @Tags         profile
// @Produce      plain
// @Success      200  {string}  string
// @Router       /welcome [get]
func (h *ProfileHandler) Welcome(c echo.Context) error {
	return c.String(http.StatusOK, welcomeMessage)
}
