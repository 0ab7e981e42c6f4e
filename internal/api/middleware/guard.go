package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/lrms/access-portal/internal/api/metrics"
	"github.com/lrms/access-portal/internal/core/guard"
)

// returnURLParam carries the originally requested path on a login redirect.
const returnURLParam = "returnUrl"

// Guard runs an activation guard against the requested path before the
// handler. The guard re-reads the live session on every request; denial is
// answered with a redirect instead of an error, mirroring in-app navigation.
func Guard(name string, g guard.ActivationGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := g.CanActivate(c.Request().URL.Path)

			outcome := "deny"
			if d.Allowed {
				outcome = "allow"
			}
			metrics.GuardDecisionsTotal.WithLabelValues(name, outcome).Inc()

			if !d.Allowed {
				return c.Redirect(http.StatusFound, RedirectTarget(d.RedirectTarget, d.ReturnPath))
			}
			return next(c)
		}
	}
}

// RedirectTarget renders a denial redirect, attaching the return path as a
// query parameter when one is carried.
func RedirectTarget(target, returnPath string) string {
	if returnPath == "" {
		return target
	}
	return target + "?" + returnURLParam + "=" + url.QueryEscape(returnPath)
}
