package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estetoscopio/esteto-server/internal/auth"
)

func TestSignup_SetsSessionCookie(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"name":     "Maria Souza",
		"email":    "maria@example.com",
		"password": "senha-segura-123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var cookie *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "session cookie missing")
	assert.True(t, cookie.HttpOnly)
	assert.Contains(t, cookie.Value, "v4.local.")

	envelope := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	assert.True(t, envelope.Success)
	assert.Equal(t, "maria@example.com", envelope.Data.User.Email)
	// The token never appears in the body.
	assert.NotContains(t, resp.Body.String(), "v4.local.")
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "Maria Souza", "maria@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "maria@example.com",
		"password": "senha-errada-123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	assert.False(t, envelope.Success)
	assert.Equal(t, "email ou senha incorretos", envelope.Error)
}

func TestLogin_Roundtrip(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "Maria Souza", "maria@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "maria@example.com",
		"password": "senha-segura-123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	token := sessionCookieValue(t, resp.Result().Cookies())

	me := ts.api.Get("/api/v1/users/me", sessionCookie(token))
	require.Equal(t, http.StatusOK, me.Code)

	envelope := decodeEnvelope[UserResponse](t, me.Body.Bytes())
	assert.Equal(t, "Maria Souza", envelope.Data.Name)
}

func TestCurrentUser_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCurrentUser_GarbageCookie(t *testing.T) {
	ts := setupTestServer(t)

	// An invalid token is unauthenticated, not an error.
	resp := ts.api.Get("/api/v1/users/me", sessionCookie("not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signup(t, "Maria Souza", "maria@example.com")

	resp := ts.api.Post("/api/v1/auth/logout", sessionCookie(token))
	require.Equal(t, http.StatusOK, resp.Code)

	var cookie *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "expired cookie missing")
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestSignup_ValidationError(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"name":     "Maria",
		"email":    "not-an-email",
		"password": "senha-segura-123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	assert.False(t, envelope.Success)
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestUpdateProfile(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.signup(t, "Maria Souza", "maria@example.com")

	resp := ts.api.Patch("/api/v1/users/me",
		map[string]any{"name": "Maria Atualizada", "picture": "/uploads/foto.webp"},
		sessionCookie(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	envelope := decodeEnvelope[UserResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Maria Atualizada", envelope.Data.Name)
	assert.Equal(t, "/uploads/foto.webp", envelope.Data.Picture)
}
