package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionCookieRoundTrip(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "opaque-token", time.Now().Add(time.Hour))

	res := rec.Result()
	require.Len(t, res.Cookies(), 1)
	c := res.Cookies()[0]
	require.Equal(t, AccountantSessionCookie, c.Name)
	require.Equal(t, "opaque-token", c.Value)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	require.Equal(t, "opaque-token", SessionTokenFromRequest(req))
}

func TestClearSessionCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ClearSessionCookie(rec)

	res := rec.Result()
	require.Len(t, res.Cookies(), 1)
	c := res.Cookies()[0]
	require.Equal(t, AccountantSessionCookie, c.Name)
	require.Empty(t, c.Value)
	require.Negative(t, c.MaxAge)
}

func TestCookieReadersEmptyWhenAbsent(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, SessionTokenFromRequest(req))
	require.Empty(t, ActiveCompanyFromRequest(req))

	req.AddCookie(&http.Cookie{Name: ActiveCompanyCookie, Value: "company-1"})
	require.Equal(t, "company-1", ActiveCompanyFromRequest(req))
}
