package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// identity is the claim bundle the Auth middleware injects into the request
// context.
type identity struct {
	Subject string   `json:"sub"`
	Name    string   `json:"name"`
	Roles   []string `json:"roles"`
}

// ctxIdentity extracts the auth claims injected by the Auth middleware. A
// missing subject means the middleware did not run on this route; reject
// rather than proceed unauthenticated.
func ctxIdentity(c echo.Context) (identity, error) {
	sub, _ := c.Get("sub").(string)
	if sub == "" {
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get("name").(string)
	roles, _ := c.Get("roles").([]string)

	return identity{Subject: sub, Name: name, Roles: roles}, nil
}
