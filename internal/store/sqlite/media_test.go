package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/store"
)

func TestCreateAndGetMedia(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")

	m := &domain.Media{
		ID:           "media-1",
		OwnerID:      "user-1",
		Filename:     "1724930000-abc.png",
		OriginalName: "coração.png",
		MimeType:     "image/png",
		Size:         2048,
		URL:          "/uploads/1724930000-abc.png",
		Blurhash:     "LEHV6nWB2yk8pyo0adR*.7kCMdnj",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.CreateMedia(ctx, m); err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}

	got, err := s.GetMedia(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMedia: %v", err)
	}
	if got.MimeType != "image/png" || got.Size != 2048 {
		t.Errorf("stored size/mime mismatch: %+v", got)
	}
	if got.OriginalName != "coração.png" {
		t.Errorf("original name = %q", got.OriginalName)
	}
	if got.Blurhash != m.Blurhash {
		t.Errorf("blurhash = %q", got.Blurhash)
	}
}

func TestGetMedia_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetMedia(context.Background(), "media-nope"); err != store.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListMedia_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"media-1", "media-2"} {
		err := s.CreateMedia(ctx, &domain.Media{
			ID:           id,
			OwnerID:      "user-1",
			Filename:     id + ".mp3",
			OriginalName: "sopro.mp3",
			MimeType:     "audio/mpeg",
			Size:         100,
			URL:          "/uploads/" + id + ".mp3",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListMedia(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != "media-2" {
		t.Errorf("newest first expected, got %s", list[0].ID)
	}
}
