package logging

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger returns echo middleware that writes one structured line per
// request. It runs after echo's RequestID middleware so the id is already
// present on the response header.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo's error handler settle the status before logging
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			ev := Info()
			switch {
			case res.Status >= 500:
				ev = Error().Err(err)
			case res.Status >= 400:
				ev = Warn()
			}
			ev.Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("route", c.Path()).
				Int("status", res.Status).
				Int64("bytes", res.Size).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")
			return nil
		}
	}
}
