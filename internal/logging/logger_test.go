package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":         zerolog.InfoLevel,
		"DEBUG":    zerolog.DebugLevel,
		"warning":  zerolog.WarnLevel,
		"disabled": zerolog.Disabled,
		"bogus":    zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/movie/:movie_id", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movie/7", nil))

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"route":"/movie/:movie_id"`, `"status":404`, `"message":"request"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %s", out, want)
		}
	}
}
