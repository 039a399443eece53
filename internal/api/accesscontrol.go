package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/estetoscopio/esteto-server/internal/auth"
)

// Page-route classification for the access-control middleware. API routes,
// uploaded media, static assets, and the favicon are excluded up front so
// the redirect logic only ever sees page navigation.
var (
	skipPrefixes   = []string{"/api", "/uploads", "/static", "/health"}
	skipExact      = []string{"/favicon.ico"}
	publicPrefixes = []string{"/login", "/signup"}
)

// AccessControl guards page routes:
//
//   - Login and signup pages are public, but an already-authenticated
//     visitor is sent back to the application root.
//   - Every other page requires a session cookie; without one the visitor
//     is redirected to /login with the original path in a redirect query
//     parameter.
//
// Only cookie presence is checked here. Cryptographic validity is
// re-checked downstream by the auth middleware and per handler, so an
// expired or forged cookie gets past the redirect but never past the API.
func AccessControl() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if skipAccessControl(path) {
				next.ServeHTTP(w, r)
				return
			}

			hasSession := hasSessionCookie(r)

			if isPublicPage(path) {
				if hasSession {
					http.Redirect(w, r, "/", http.StatusSeeOther)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if !hasSession {
				http.Redirect(w, r, "/login?redirect="+url.QueryEscape(path), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func skipAccessControl(path string) bool {
	for _, p := range skipExact {
		if path == p {
			return true
		}
	}
	for _, prefix := range skipPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func isPublicPage(path string) bool {
	for _, prefix := range publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// hasSessionCookie reports whether a non-empty session cookie is present.
// A malformed cookie counts as "not authenticated", never as an error.
func hasSessionCookie(r *http.Request) bool {
	cookie, err := r.Cookie(auth.SessionCookieName)
	return err == nil && cookie.Value != ""
}
