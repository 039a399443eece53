package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the name of the HTTP-only session cookie.
const SessionCookieName = "esteto_session"

// SessionCookie builds the session cookie carrying a PASETO token.
// HTTP-only keeps it out of reach of page scripts; Secure is set only in
// production so local development over plain HTTP still works.
func SessionCookie(token string, duration time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(duration.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie builds an expired cookie that removes the session.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
