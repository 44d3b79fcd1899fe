package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookinghub/booking-system/internal/core/ports"
)

// RoleHandler exposes role administration. Routes using it sit behind the
// Admin RBAC guard.
type RoleHandler struct {
	store ports.CredentialStore
}

func NewRoleHandler(store ports.CredentialStore) *RoleHandler {
	return &RoleHandler{store: store}
}

type createRoleRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateRole registers a new role name.
//
// @Summary      Create a role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRoleRequest  true  "Role name"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/roles [post]
func (h *RoleHandler) CreateRole(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.store.CreateRole(c.Request().Context(), req.Name); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{"name": req.Name})
}
