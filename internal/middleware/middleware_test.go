package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtimes/internal/config"
	"github.com/iliyamo/cinema-showtimes/internal/model"
	"github.com/iliyamo/cinema-showtimes/internal/utils"
)

const secret = "test-secret"

func token(t *testing.T, uid uint64, ttlMin int) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, uid, ttlMin)
	if err != nil {
		t.Fatal(err)
	}
	return tok.Token
}

// serve runs a single request through mw and records the identity the
// handler saw.
func serve(mw echo.MiddlewareFunc, auth string) (*httptest.ResponseRecorder, model.Identity, bool) {
	e := echo.New()
	var seen model.Identity
	reached := false
	e.GET("/x", func(c echo.Context) error {
		reached = true
		seen = IdentityFrom(c)
		return c.NoContent(http.StatusOK)
	}, mw)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen, reached
}

func TestOptionalIdentity(t *testing.T) {
	cases := map[string]struct {
		auth string
		want model.Identity
	}{
		"no header":     {"", model.Anonymous()},
		"valid token":   {"Bearer " + token(t, 42, 5), model.Identified(42)},
		"lowercase":     {"bearer " + token(t, 42, 5), model.Identified(42)},
		"expired token": {"Bearer " + token(t, 42, -1), model.Anonymous()},
		"garbage token": {"Bearer nope", model.Anonymous()},
		"wrong scheme":  {"Basic Zm9vOmJhcg==", model.Anonymous()},
		"empty bearer":  {"Bearer ", model.Anonymous()},
	}
	for name, tc := range cases {
		rec, who, reached := serve(OptionalIdentity(secret), tc.auth)
		if !reached || rec.Code != http.StatusOK {
			t.Errorf("%s: request rejected with %d", name, rec.Code)
		}
		if who != tc.want {
			t.Errorf("%s: identity = %v, want %v", name, who, tc.want)
		}
	}
}

func TestJWTAuth(t *testing.T) {
	rec, _, reached := serve(JWTAuth(secret), "")
	if reached || rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Missing Authorization Header") {
		t.Errorf("missing header: %d %s", rec.Code, rec.Body)
	}

	rec, _, reached = serve(JWTAuth(secret), "Bearer "+token(t, 7, -1))
	if reached || rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), `"invalid token"`) {
		t.Errorf("expired token: %d %s", rec.Code, rec.Body)
	}

	rec, who, reached := serve(JWTAuth(secret), "Bearer "+token(t, 7, 5))
	if !reached || rec.Code != http.StatusOK {
		t.Fatalf("valid token rejected: %d %s", rec.Code, rec.Body)
	}
	if uid, ok := who.UserID(); !ok || uid != 7 {
		t.Errorf("identity = %v", who)
	}
}

func TestCacheKeyUsesFullURI(t *testing.T) {
	a := cacheKey("p", httptest.NewRequest(http.MethodGet, "/movie_schedule/1/100", nil), "")
	b := cacheKey("p", httptest.NewRequest(http.MethodGet, "/movie_schedule/1/100/2026-10-18", nil), "")
	c := cacheKey("p", httptest.NewRequest(http.MethodGet, "/movie_schedule/1/100", nil), "")
	if a == b {
		t.Error("different dates share a cache key")
	}
	if a != c {
		t.Error("same URI produced different keys")
	}
	if !strings.HasPrefix(a, "p:") {
		t.Errorf("key %q lacks prefix", a)
	}
	d := cacheKey("p", httptest.NewRequest(http.MethodGet, "/movie_schedule/1/100", nil), "2026-10-19")
	if d == a {
		t.Error("resolved day not part of the key")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	if err != nil {
		t.Fatal(err)
	}
	status, got, body, ok := decodePayload(bs)
	if !ok || status != http.StatusOK || got.Get("Content-Type") != "application/json" || string(body) != `{"ok":true}` {
		t.Errorf("decoded %d %v %q %v", status, got, body, ok)
	}
	if _, _, _, ok := decodePayload(bs[:5]); ok {
		t.Error("short payload accepted")
	}
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	rec, _, reached := serve(NewRedisCache(config.CacheConfig{Enabled: true}, nil, nil), "")
	if !reached || rec.Code != http.StatusOK {
		t.Errorf("cache without redis blocked request: %d", rec.Code)
	}
	rec, _, reached = serve(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil), "")
	if !reached || rec.Code != http.StatusOK {
		t.Errorf("limiter without redis blocked request: %d", rec.Code)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/auth/login")
	c.Set(identityKey, model.Identified(3))

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	if got := buildRateKey(cfg, c); got != "rl:ip:10.0.0.1:route:POST /auth/login" {
		t.Errorf("ip_route key = %q", got)
	}
	cfg.KeyStrategy = "user"
	if got := buildRateKey(cfg, c); got != "rl:user:3" {
		t.Errorf("user key = %q", got)
	}
}
