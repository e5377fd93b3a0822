package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims PrimaryClaims, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func validClaims(sub string) PrimaryClaims {
	return PrimaryClaims{
		Role: "owner",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "zzpboek",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func authnProbe() (http.Handler, *string, *string) {
	var gotSub, gotRole string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = PrincipalIDFromCtx(r.Context())
		gotRole = RoleFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &gotSub, &gotRole
}

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	mw := AuthnMiddleware(testSecret, "zzpboek")

	t.Run("valid token passes and fills context", func(t *testing.T) {
		inner, sub, role := authnProbe()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("principal-1"), testSecret))

		rec := httptest.NewRecorder()
		mw(inner).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "principal-1", *sub)
		require.Equal(t, "owner", *role)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		inner, _, _ := authnProbe()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		rec := httptest.NewRecorder()
		mw(inner).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		inner, _, _ := authnProbe()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("principal-1"), []byte("other-secret")))

		rec := httptest.NewRecorder()
		mw(inner).ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong issuer rejected", func(t *testing.T) {
		claims := validClaims("principal-1")
		claims.Issuer = "someone-else"

		inner, _, _ := authnProbe()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims, testSecret))

		rec := httptest.NewRecorder()
		mw(inner).ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		claims := validClaims("principal-1")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

		inner, _, _ := authnProbe()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims, testSecret))

		rec := httptest.NewRecorder()
		mw(inner).ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing subject rejected", func(t *testing.T) {
		inner, _, _ := authnProbe()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(""), testSecret))

		rec := httptest.NewRecorder()
		mw(inner).ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
