package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// fast-fails before any service call: a non-empty role proves the
// middleware ran.
func ctxClaims(c echo.Context) (role string, userID int, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ = c.Get("user_id").(int)
	return role, userID, nil
}
