package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/store"
)

func mustCreateDeck(t *testing.T, s *Store, id, ownerID string) *domain.Deck {
	t.Helper()

	now := time.Now().UTC()
	d := &domain.Deck{
		ID:        id,
		OwnerID:   ownerID,
		Title:     "Cardiologia",
		Cards:     `[{"front":"FC normal","back":"60-100 bpm"}]`,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateDeck(context.Background(), d); err != nil {
		t.Fatalf("create deck %s: %v", id, err)
	}
	return d
}

func mustCreateFolder(t *testing.T, s *Store, id, ownerID string) *domain.Folder {
	t.Helper()

	now := time.Now().UTC()
	f := &domain.Folder{
		ID:        id,
		OwnerID:   ownerID,
		Name:      "Semestre 3",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateFolder(context.Background(), f); err != nil {
		t.Fatalf("create folder %s: %v", id, err)
	}
	return f
}

func TestCreateAndGetDeck(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	d := mustCreateDeck(t, s, "deck-1", "user-1")

	got, err := s.GetDeck(ctx, "user-1", d.ID)
	if err != nil {
		t.Fatalf("GetDeck: %v", err)
	}
	if got.Title != d.Title {
		t.Errorf("title = %q", got.Title)
	}
	if got.Cards != d.Cards {
		t.Error("cards payload did not survive round trip")
	}
	if got.FolderID != nil {
		t.Errorf("folder_id = %v, want nil", *got.FolderID)
	}
	if got.Tags == nil {
		t.Error("tags should be an empty slice, not nil")
	}
}

func TestGetDeck_WrongOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateUser(t, s, "user-2", "bia@example.com")
	mustCreateDeck(t, s, "deck-1", "user-1")

	if _, err := s.GetDeck(ctx, "user-2", "deck-1"); err != store.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListDecks_FolderFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	f := mustCreateFolder(t, s, "folder-1", "user-1")
	mustCreateDeck(t, s, "deck-1", "user-1")
	mustCreateDeck(t, s, "deck-2", "user-1")

	if err := s.MoveDeck(ctx, "user-1", "deck-2", &f.ID); err != nil {
		t.Fatalf("MoveDeck: %v", err)
	}

	all, err := s.ListDecks(ctx, "user-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2", len(all))
	}

	inFolder, err := s.ListDecks(ctx, "user-1", &f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(inFolder) != 1 || inFolder[0].ID != "deck-2" {
		t.Errorf("folder filter returned %v", inFolder)
	}
}

func TestMoveDeck(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	f := mustCreateFolder(t, s, "folder-1", "user-1")
	mustCreateDeck(t, s, "deck-1", "user-1")

	if err := s.MoveDeck(ctx, "user-1", "deck-1", &f.ID); err != nil {
		t.Fatalf("move into folder: %v", err)
	}
	got, err := s.GetDeck(ctx, "user-1", "deck-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.FolderID == nil || *got.FolderID != f.ID {
		t.Errorf("folder_id = %v, want %q", got.FolderID, f.ID)
	}

	// Moving to null clears the reference.
	if err := s.MoveDeck(ctx, "user-1", "deck-1", nil); err != nil {
		t.Fatalf("move to null: %v", err)
	}
	got, err = s.GetDeck(ctx, "user-1", "deck-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.FolderID != nil {
		t.Errorf("folder_id = %v, want nil", *got.FolderID)
	}
}

func TestMoveDeck_MissingFolder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateDeck(t, s, "deck-1", "user-1")

	missing := "folder-nope"
	err := s.MoveDeck(ctx, "user-1", "deck-1", &missing)
	var serr *store.Error
	if !errors.As(err, &serr) || serr.Code != store.ErrNotFound.Code {
		t.Errorf("got %v, want not-found", err)
	}
}

func TestMoveDeck_NotOwned(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateUser(t, s, "user-2", "bia@example.com")
	mustCreateDeck(t, s, "deck-1", "user-1")

	if err := s.MoveDeck(ctx, "user-2", "deck-1", nil); err != store.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteFolder_ClearsDeckReference(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	f := mustCreateFolder(t, s, "folder-1", "user-1")
	mustCreateDeck(t, s, "deck-1", "user-1")

	if err := s.MoveDeck(ctx, "user-1", "deck-1", &f.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteFolder(ctx, "user-1", f.ID); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}

	got, err := s.GetDeck(ctx, "user-1", "deck-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.FolderID != nil {
		t.Error("deck still references deleted folder")
	}
}

func TestUpdateDeck(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	d := mustCreateDeck(t, s, "deck-1", "user-1")

	d.Title = "Cardiologia Avançada"
	d.Cards = `[]`
	d.UpdatedAt = time.Now().UTC()
	if err := s.UpdateDeck(ctx, d); err != nil {
		t.Fatalf("UpdateDeck: %v", err)
	}

	got, err := s.GetDeck(ctx, "user-1", d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Cardiologia Avançada" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestDeleteDeck(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateDeck(t, s, "deck-1", "user-1")

	if err := s.DeleteDeck(ctx, "user-1", "deck-1"); err != nil {
		t.Fatalf("DeleteDeck: %v", err)
	}
	if _, err := s.GetDeck(ctx, "user-1", "deck-1"); err != store.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if err := s.DeleteDeck(ctx, "user-1", "deck-1"); err != store.ErrNotFound {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestSetDeckTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	d := mustCreateDeck(t, s, "deck-1", "user-1")

	now := time.Now().UTC()
	for _, tag := range []struct{ id, name, slug string }{
		{"tag-1", "Anatomia", "anatomia"},
		{"tag-2", "Fisiologia", "fisiologia"},
	} {
		err := s.CreateTag(ctx, &domain.Tag{
			ID: tag.id, OwnerID: "user-1", Name: tag.name, Slug: tag.slug,
			CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	if err := s.SetDeckTags(ctx, d.ID, []string{"tag-1", "tag-2"}); err != nil {
		t.Fatalf("SetDeckTags: %v", err)
	}
	got, err := s.GetDeck(ctx, "user-1", d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2", len(got.Tags))
	}
	if got.Tags[0].Slug != "anatomia" {
		t.Errorf("tags not ordered by slug: %v", got.Tags)
	}

	// Replacing shrinks the set.
	if err := s.SetDeckTags(ctx, d.ID, []string{"tag-2"}); err != nil {
		t.Fatal(err)
	}
	got, err = s.GetDeck(ctx, "user-1", d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != 1 || got.Tags[0].ID != "tag-2" {
		t.Errorf("tags after replace = %v", got.Tags)
	}
}
