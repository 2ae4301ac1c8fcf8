package handler

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtimes/internal/logging"
	"github.com/iliyamo/cinema-showtimes/internal/validation"
)

// dbTimeout bounds every store call made on behalf of a request.
const dbTimeout = 5 * time.Second

// dateLayout is the format of the optional :date path segment.
const dateLayout = "2006-01-02"

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// errMissingJSON is returned to the client for any body that is absent, not
// declared as JSON, or not decodable.
var errMissingJSON = echo.Map{"msg": "Missing JSON in request"}

// bindJSON decodes a JSON request body into dst.  It writes the 400
// response itself and reports false when the body is unusable.
func bindJSON(c echo.Context, dst any) (bool, error) {
	ct, _, _ := mime.ParseMediaType(c.Request().Header.Get(echo.HeaderContentType))
	if ct != echo.MIMEApplicationJSON {
		return false, c.JSON(http.StatusBadRequest, errMissingJSON)
	}
	if c.Request().Body == nil || c.Request().ContentLength == 0 {
		return false, c.JSON(http.StatusBadRequest, errMissingJSON)
	}
	if err := c.Echo().JSONSerializer.Deserialize(c, dst); err != nil {
		logging.Debug().Err(err).Msg("decode request body")
		return false, c.JSON(http.StatusBadRequest, errMissingJSON)
	}
	return true, nil
}

// pathID parses a numeric path parameter.  Zero is rejected along with
// anything non-numeric.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
}

// Dates resolves the optional :date path segment.  When it is absent the
// current day in Location is used, so an omitted date and today's date
// written out give the same result.
type Dates struct {
	Location *time.Location
	Now      func() time.Time
}

// Today returns the current date as YYYY-MM-DD.
func (d Dates) Today() string {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc).Format(dateLayout)
}

// Resolve returns the requested date or today, and false when the segment
// is present but not a valid calendar date.
func (d Dates) Resolve(c echo.Context) (string, bool) {
	raw := strings.TrimSpace(c.Param("date"))
	if raw == "" {
		return d.Today(), true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return "", false
	}
	return t.Format(dateLayout), true
}

func badDate(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
}

func dbError(c echo.Context, err error) error {
	logging.Error().Err(err).Str("route", c.Path()).Msg("database error")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// invalid answers 400 with msg.  Field errors from c.Validate are listed
// under "details" in request order.
func invalid(c echo.Context, msg string, err error) error {
	body := echo.Map{"error": msg}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		details := make([]string, len(verrs))
		for i, fe := range verrs {
			details[i] = fe.Error()
		}
		body["details"] = details
	}
	return c.JSON(http.StatusBadRequest, body)
}
