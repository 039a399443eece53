package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/estetoscopio/esteto-server/internal/auth"
	"github.com/estetoscopio/esteto-server/internal/media"
	"github.com/estetoscopio/esteto-server/internal/search"
	"github.com/estetoscopio/esteto-server/internal/store/sqlite"
	"github.com/estetoscopio/esteto-server/internal/validation"
)

// testEnv bundles the real store, search index, and services for tests.
type testEnv struct {
	store   *sqlite.Store
	index   *search.DeckIndex
	storage *media.Storage

	auth      *AuthService
	decks     *DeckService
	folders   *FolderService
	tags      *TagService
	community *CommunityService
	uploads   *UploadService
	anki      *AnkiService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	index, err := search.NewDeckIndex(search.Options{DataPath: dir, Logger: logger})
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { index.Close() })
	st.SetSearchIndexer(index)

	storage, err := media.NewStorage(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}

	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), 168*time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	v := validation.New()

	return &testEnv{
		store:     st,
		index:     index,
		storage:   storage,
		auth:      NewAuthService(st, tokens, v, logger),
		decks:     NewDeckService(st, index, v, logger),
		folders:   NewFolderService(st, v, logger),
		tags:      NewTagService(st, v, logger),
		community: NewCommunityService(st, v, logger),
		uploads:   NewUploadService(st, storage, 1<<20, logger),
		anki:      NewAnkiService(st, 1<<20, logger),
	}
}

func (e *testEnv) signup(t *testing.T, name, email string) *AuthResponse {
	t.Helper()

	resp, err := e.auth.Signup(context.Background(), SignupRequest{
		Name:     name,
		Email:    email,
		Password: "senha-segura-123",
	})
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return resp
}
