package middleware

// identity.go resolves the caller of a request from its bearer token and
// keeps the result on the echo context for handlers and other middleware.

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtimes/internal/model"
	"github.com/iliyamo/cinema-showtimes/internal/utils"
)

const identityKey = "identity"

// bearerToken returns the raw token from an "Authorization: Bearer ..."
// header and whether such a header was present at all.
func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if auth == "" {
		return "", false
	}
	const prefix = "bearer "
	if len(auth) < len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", true
	}
	return strings.TrimSpace(auth[len(prefix):]), true
}

// OptionalIdentity resolves the caller when a valid bearer token is sent
// and falls back to Anonymous otherwise.  It never rejects a request.
func OptionalIdentity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			who := model.Anonymous()
			if raw, ok := bearerToken(c); ok && raw != "" {
				if uid, err := utils.ParseAccessToken(secret, raw); err == nil {
					who = model.Identified(uid)
				}
			}
			c.Set(identityKey, who)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by OptionalIdentity or JWTAuth.
// Requests that passed through neither are anonymous.
func IdentityFrom(c echo.Context) model.Identity {
	if who, ok := c.Get(identityKey).(model.Identity); ok {
		return who
	}
	return model.Anonymous()
}
