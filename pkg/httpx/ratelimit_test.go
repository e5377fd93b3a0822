package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIPKeyExtractor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4312"
	require.Equal(t, "203.0.113.9", IPKeyExtractor(req))

	req.Header.Set("X-Real-IP", "198.51.100.4")
	require.Equal(t, "198.51.100.4", IPKeyExtractor(req))

	// X-Forwarded-For wins, first hop only.
	req.Header.Set("X-Forwarded-For", "192.0.2.1, 10.0.0.1")
	require.Equal(t, "192.0.2.1", IPKeyExtractor(req))
}

func TestCompositeKeyExtractor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4312"

	composite := CompositeKeyExtractor(":", PrincipalKeyExtractor, IPKeyExtractor)
	// Unauthenticated requests fall back to IP alone.
	require.Equal(t, "203.0.113.9", composite(req))

	ctx := context.WithValue(req.Context(), CtxKeyPrincipalID, "principal-1")
	require.Equal(t, "principal-1:203.0.113.9", composite(req.WithContext(ctx)))
}

func TestRateLimitMiddlewareBlocksAfterBurst(t *testing.T) {
	t.Parallel()

	mw := RateLimitMiddleware(RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		Burst:             2,
	}, IPKeyExtractor)
	h := mw(okHandler())

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do("203.0.113.9:1").Code)
	require.Equal(t, http.StatusOK, do("203.0.113.9:2").Code)

	rec := do("203.0.113.9:3")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")

	// A different client has its own bucket.
	require.Equal(t, http.StatusOK, do("198.51.100.4:1").Code)
}
