package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/estetoscopio/esteto-server/internal/auth"
	"github.com/estetoscopio/esteto-server/internal/media"
	"github.com/estetoscopio/esteto-server/internal/search"
	"github.com/estetoscopio/esteto-server/internal/service"
	"github.com/estetoscopio/esteto-server/internal/store/sqlite"
	"github.com/estetoscopio/esteto-server/internal/validation"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api     humatest.TestAPI
	storage *media.Storage
}

// setupTestServer builds a server on a real SQLite store and Bleve index.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewDeckIndex(search.Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	st.SetSearchIndexer(index)

	storage, err := media.NewStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(strings.Repeat("cd", 32), 168*time.Hour)
	require.NoError(t, err)

	v := validation.New()

	services := &Services{
		Auth:      service.NewAuthService(st, tokens, v, logger),
		Deck:      service.NewDeckService(st, index, v, logger),
		Folder:    service.NewFolderService(st, v, logger),
		Tag:       service.NewTagService(st, v, logger),
		Community: service.NewCommunityService(st, v, logger),
		Upload:    service.NewUploadService(st, storage, 1<<20, logger),
		Anki:      service.NewAnkiService(st, 1<<20, logger),
	}

	s := NewServer(Options{
		Store:         st,
		Services:      services,
		Tokens:        tokens,
		Storage:       storage,
		Logger:        logger,
		ServerName:    "Esteto Test",
		SecureCookies: false,
		UploadMax:     1 << 20,
	})

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.api),
		storage: storage,
	}
}

// signup creates an account over HTTP and returns the session cookie value.
func (ts *testServer) signup(t *testing.T, name, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"name":     name,
		"email":    email,
		"password": "senha-segura-123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "signup failed: %s", resp.Body.String())

	return sessionCookieValue(t, resp.Result().Cookies())
}

// sessionCookie formats the cookie header argument for humatest requests.
func sessionCookie(token string) string {
	return "Cookie: " + auth.SessionCookieName + "=" + token
}

func sessionCookieValue(t *testing.T, cookies []*http.Cookie) string {
	t.Helper()

	for _, c := range cookies {
		if c.Name == auth.SessionCookieName {
			return c.Value
		}
	}
	t.Fatal("session cookie not set")
	return ""
}

func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()

	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}
