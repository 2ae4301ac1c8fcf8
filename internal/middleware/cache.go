package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-showtimes/internal/config"
	"github.com/iliyamo/cinema-showtimes/internal/logging"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size < cw.limit {
		remain := cw.limit - cw.size
		switch {
		case cw.limit <= 0, int64(len(b)) <= remain:
			cw.buf.Write(b)
		default:
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKey is the prefix plus a digest of the full request URI, so every
// path parameter and query string gets its own entry. day is mixed in for
// routes whose date is resolved at request time; it is empty when the URI
// already names the date.
func cacheKey(prefix string, r *http.Request, day string) string {
	seed := r.URL.RequestURI()
	if day != "" {
		seed = day + " " + seed
	}
	sum := sha1.Sum([]byte(seed))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// storable reports whether a response header belongs in a cache entry.
// Headers set per request by outer middleware (CORS, request id) are left
// out; a hit gets fresh values for them from the live chain.
func storable(k string) bool {
	k = http.CanonicalHeaderKey(k)
	switch k {
	case echo.HeaderContentLength, echo.HeaderXRequestID, echo.HeaderVary, "X-Cache":
		return false
	}
	return !strings.HasPrefix(k, "Access-Control-")
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// NewRedisCache caches successful GET responses in Redis together with the
// headers the handler set.  Requests from an identified caller are never
// cached or served from cache: their bodies carry per-user flags.  It must
// run after OptionalIdentity.
//
// today returns the current service date; it keys routes without a :date
// parameter so an entry never outlives the day it was computed for.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, today func() string) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet || !IdentityFrom(c).IsAnonymous() {
				return next(c)
			}

			ctx := c.Request().Context()
			day := ""
			if c.Param("date") == "" && today != nil {
				day = today()
			}
			key := cacheKey(cfg.Prefix, c.Request(), day)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					live := c.Response().Header()
					for k, vals := range hdr {
						if !storable(k) || len(live.Values(k)) > 0 {
							continue
						}
						live[http.CanonicalHeaderKey(k)] = append([]string(nil), vals...)
					}
					live.Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, err := c.Response().Write(body)
					return err
				}
			} else if err != redis.Nil {
				logging.Warn().Err(err).Str("key", key).Msg("cache read failed")
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			// truncated bodies are not worth replaying
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := make(http.Header)
			for k, vals := range c.Response().Header() {
				if storable(k) {
					hdr[k] = append([]string(nil), vals...)
				}
			}
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			if err := rdb.SetEx(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
				logging.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
			return nil
		}
	}
}
