package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtimes/internal/model"
	"github.com/iliyamo/cinema-showtimes/internal/utils"
)

// JWTAuth returns an Echo middleware that requires a valid Bearer access
// token.  The resolved identity is stored on the context and read back with
// IdentityFrom.  The provided secret must match the one used when issuing
// tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, present := bearerToken(c)
			if !present {
				return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Missing Authorization Header"})
			}
			uid, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "invalid token"})
			}
			c.Set(identityKey, model.Identified(uid))
			return next(c)
		}
	}
}
