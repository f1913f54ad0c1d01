package auth

import (
	"net/http"
	"time"
)

const (
	AccessTokenCookie = "access_token"
	SessionIDCookie   = "session_id"
)

// CookieSettings carries the environment-dependent cookie attributes.
type CookieSettings struct {
	Domain string
	Secure bool
}

func (cs CookieSettings) build(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cs.Domain,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   cs.Secure,
		SameSite: http.SameSiteNoneMode,
	}
}

// SetAuthCookies writes the access_token/session_id pair.
func SetAuthCookies(w http.ResponseWriter, cs CookieSettings, token, sessionID string) {
	http.SetCookie(w, cs.build(AccessTokenCookie, token, AccessTokenTTL))
	http.SetCookie(w, cs.build(SessionIDCookie, sessionID, AccessTokenTTL))
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(w http.ResponseWriter, cs CookieSettings) {
	http.SetCookie(w, cs.build(AccessTokenCookie, "", -time.Second))
	http.SetCookie(w, cs.build(SessionIDCookie, "", -time.Second))
}
