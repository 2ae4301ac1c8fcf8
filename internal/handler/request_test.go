package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newContext(method, body, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.JSONSerializer = JSONSerializer{}
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestDatesResolve(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*3600)
	// 22:30 UTC is already the next day in Moscow
	d := Dates{Location: moscow, Now: func() time.Time { return time.Date(2026, 10, 18, 22, 30, 0, 0, time.UTC) }}

	c, _ := newContext(http.MethodGet, "", "")
	if got, ok := d.Resolve(c); !ok || got != "2026-10-19" {
		t.Errorf("default date = %q, %v", got, ok)
	}

	cases := map[string]struct {
		want string
		ok   bool
	}{
		"2026-10-18": {"2026-10-18", true},
		"2026-02-30": {"", false},
		"18.10.2026": {"", false},
		"today":      {"", false},
	}
	for raw, tc := range cases {
		c, _ := newContext(http.MethodGet, "", "")
		c.SetParamNames("date")
		c.SetParamValues(raw)
		got, ok := d.Resolve(c)
		if got != tc.want || ok != tc.ok {
			t.Errorf("%q: got %q, %v", raw, got, ok)
		}
	}
}

func TestDatesTodayDefaultsToUTC(t *testing.T) {
	d := Dates{Now: func() time.Time { return time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC) }}
	if got := d.Today(); got != "2026-10-18" {
		t.Errorf("Today = %q", got)
	}
}

func TestPathID(t *testing.T) {
	for raw, want := range map[string]bool{"42": true, "0": false, "-3": false, "4x": false, "": false} {
		c, _ := newContext(http.MethodGet, "", "")
		c.SetParamNames("id")
		c.SetParamValues(raw)
		if _, ok := pathID(c, "id"); ok != want {
			t.Errorf("pathID(%q) ok = %v", raw, ok)
		}
	}
}

func TestBindJSON(t *testing.T) {
	var dst struct {
		Star *bool `json:"star"`
	}

	c, _ := newContext(http.MethodPost, `{"star":false}`, "application/json; charset=utf-8")
	if ok, err := bindJSON(c, &dst); !ok || err != nil {
		t.Fatalf("valid body rejected: %v", err)
	}
	if dst.Star == nil || *dst.Star {
		t.Errorf("star = %v", dst.Star)
	}

	for name, tc := range map[string]struct{ body, ct string }{
		"no content type": {`{"star":true}`, ""},
		"text":            {`{"star":true}`, "text/plain"},
		"syntax":          {`{"star":tru`, echo.MIMEApplicationJSON},
		"wrong type":      {`{"star":"yes"}`, echo.MIMEApplicationJSON},
		"no body":         {"", echo.MIMEApplicationJSON},
	} {
		c, rec := newContext(http.MethodPost, tc.body, tc.ct)
		ok, err := bindJSON(c, &dst)
		if ok || err != nil {
			t.Errorf("%s: ok=%v err=%v", name, ok, err)
			continue
		}
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Missing JSON in request") {
			t.Errorf("%s: %d %s", name, rec.Code, rec.Body)
		}
	}
}

func TestJSONSerializerIndent(t *testing.T) {
	c, rec := newContext(http.MethodGet, "", "")
	if err := (JSONSerializer{}).Serialize(c, map[string]int{"a": 1}, "  "); err != nil {
		t.Fatal(err)
	}
	if got := rec.Body.String(); got != "{\n  \"a\": 1\n}\n" {
		t.Errorf("indented output = %q", got)
	}
}
