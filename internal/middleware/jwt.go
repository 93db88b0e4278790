// Package middleware provides the request gates placed in front of protected
// routes: bearer-token verification, role enforcement, rate limiting and
// response caching.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edulite/edulite/internal/utils"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxName   = "name"
	CtxEmail  = "email"
	CtxRole   = "role"
	CtxClaims = "claims"
)

// JWTAuth returns the bearer-token gate for protected routes. The gate fails
// closed: a missing or malformed Authorization header is denied with 403
// before any other work happens. A present token is verified against the
// issuer's secret; an expired token yields 401 "token expired" so clients
// can re-authenticate, every other verification failure yields 401 "invalid
// token". On success the decoded claims are attached to the request context
// and the chain continues.
func JWTAuth(issuer *utils.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied: no token provided"})
			}
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || raw == "" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied: invalid token format"})
			}

			claims, err := issuer.Verify(raw)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired, please login again"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxName, claims.Name)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxClaims, claims)
			return next(c)
		}
	}
}
