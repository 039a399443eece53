package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/store"
)

func mustCreateTag(t *testing.T, s *Store, id, ownerID, name, slug string) *domain.Tag {
	t.Helper()

	now := time.Now().UTC()
	tag := &domain.Tag{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Slug:      slug,
		Color:     "#e63946",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("create tag %s: %v", id, err)
	}
	return tag
}

func TestCreateTag_DuplicateSlugPerOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateUser(t, s, "user-2", "bia@example.com")
	mustCreateTag(t, s, "tag-1", "user-1", "Anatomia", "anatomia")

	now := time.Now().UTC()
	err := s.CreateTag(ctx, &domain.Tag{
		ID: "tag-2", OwnerID: "user-1", Name: "ANATOMIA", Slug: "anatomia",
		CreatedAt: now, UpdatedAt: now,
	})
	if err == nil {
		t.Fatal("expected duplicate slug to fail for the same owner")
	}

	// Same slug under a different owner is fine.
	err = s.CreateTag(ctx, &domain.Tag{
		ID: "tag-3", OwnerID: "user-2", Name: "Anatomia", Slug: "anatomia",
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("same slug, different owner: %v", err)
	}
}

func TestListTags_ScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateUser(t, s, "user-2", "bia@example.com")
	mustCreateTag(t, s, "tag-1", "user-1", "Anatomia", "anatomia")
	mustCreateTag(t, s, "tag-2", "user-2", "Farmacologia", "farmacologia")

	tags, err := s.ListTags(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0].ID != "tag-1" {
		t.Errorf("got %v", tags)
	}

	empty, err := s.ListTags(ctx, "user-nope")
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("want empty slice, got %v", empty)
	}
}

func TestGetTagBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateTag(t, s, "tag-1", "user-1", "Anatomia", "anatomia")

	got, err := s.GetTagBySlug(ctx, "user-1", "anatomia")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "tag-1" || got.Color != "#e63946" {
		t.Errorf("got %+v", got)
	}

	if _, err := s.GetTagBySlug(ctx, "user-1", "nope"); err != store.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteTag_RemovesDeckAssociations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	d := mustCreateDeck(t, s, "deck-1", "user-1")
	mustCreateTag(t, s, "tag-1", "user-1", "Anatomia", "anatomia")

	if err := s.SetDeckTags(ctx, d.ID, []string{"tag-1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTag(ctx, "user-1", "tag-1"); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	got, err := s.GetDeck(ctx, "user-1", d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("deck still tagged: %v", got.Tags)
	}
}
