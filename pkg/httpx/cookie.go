package httpx

import (
	"net/http"
	"time"
)

// Cookie names. The accountant-session cookie is deliberately separate from
// whatever the primary login uses, so the two can coexist or be cleared
// independently.
const (
	AccountantSessionCookie = "zzpboek_accountant"
	ActiveCompanyCookie     = "zzpboek_company"
)

// SetSessionCookie stores the opaque accountant-session token. httpOnly and
// Secure keep it away from scripts and plain HTTP; SameSite=Lax still allows
// the invite link navigation to carry it.
func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccountantSessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the accountant-session cookie. Called on logout
// and from the primary login path to prevent session-type confusion.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccountantSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionTokenFromRequest reads the accountant-session cookie, empty when absent.
func SessionTokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(AccountantSessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// ActiveCompanyFromRequest reads the company-selection hint cookie.
func ActiveCompanyFromRequest(r *http.Request) string {
	c, err := r.Cookie(ActiveCompanyCookie)
	if err != nil {
		return ""
	}
	return c.Value
}
