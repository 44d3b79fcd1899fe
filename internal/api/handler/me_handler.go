package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MeHandler exposes the identity carried by the presented bearer token.
type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// Me returns the claims of the authenticated caller.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identity
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *MeHandler) Me(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id)
}
