package sqlite

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/store"
)

func mustCreateCommunity(t *testing.T, s *Store, id, creatorID string, private bool) *domain.Community {
	t.Helper()

	now := time.Now().UTC()
	c := &domain.Community{
		ID:        id,
		CreatorID: creatorID,
		Name:      "Liga de Cardiologia",
		Private:   private,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateCommunity(context.Background(), c); err != nil {
		t.Fatalf("create community %s: %v", id, err)
	}
	return c
}

func storeErrCode(t *testing.T, err error) int {
	t.Helper()

	var serr *store.Error
	if !errors.As(err, &serr) {
		t.Fatalf("not a store error: %v", err)
	}
	return serr.Code
}

func TestCreateCommunity_CreatorIsMember(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	c := mustCreateCommunity(t, s, "comm-1", "user-1", false)

	got, err := s.GetCommunity(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.MemberCount != 1 {
		t.Errorf("member_count = %d, want 1", got.MemberCount)
	}

	m, err := s.GetMembership(ctx, c.ID, "user-1")
	if err != nil {
		t.Fatalf("creator has no membership: %v", err)
	}
	if m.Role != domain.RoleCreator {
		t.Errorf("role = %q, want creator", m.Role)
	}
}

func TestJoinCommunity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateUser(t, s, "user-2", "bia@example.com")
	c := mustCreateCommunity(t, s, "comm-1", "user-1", false)

	if err := s.JoinCommunity(ctx, c.ID, "user-2"); err != nil {
		t.Fatalf("JoinCommunity: %v", err)
	}

	got, err := s.GetCommunity(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.MemberCount != 2 {
		t.Errorf("member_count = %d, want 2", got.MemberCount)
	}

	m, err := s.GetMembership(ctx, c.ID, "user-2")
	if err != nil {
		t.Fatal(err)
	}
	if m.Role != domain.RoleMember {
		t.Errorf("role = %q, want member", m.Role)
	}
}

func TestJoinCommunity_Twice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateUser(t, s, "user-2", "bia@example.com")
	c := mustCreateCommunity(t, s, "comm-1", "user-1", false)

	if err := s.JoinCommunity(ctx, c.ID, "user-2"); err != nil {
		t.Fatal(err)
	}
	err := s.JoinCommunity(ctx, c.ID, "user-2")
	if code := storeErrCode(t, err); code != http.StatusBadRequest {
		t.Errorf("second join code = %d, want 400", code)
	}

	// Counter unchanged by the failed join.
	got, err := s.GetCommunity(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.MemberCount != 2 {
		t.Errorf("member_count = %d, want 2", got.MemberCount)
	}
}

func TestJoinCommunity_Private(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateUser(t, s, "user-2", "bia@example.com")
	c := mustCreateCommunity(t, s, "comm-1", "user-1", true)

	err := s.JoinCommunity(ctx, c.ID, "user-2")
	if code := storeErrCode(t, err); code != http.StatusForbidden {
		t.Errorf("private join code = %d, want 403", code)
	}
}

func TestJoinCommunity_Missing(t *testing.T) {
	s := newTestStore(t)

	mustCreateUser(t, s, "user-1", "ana@example.com")

	err := s.JoinCommunity(context.Background(), "comm-nope", "user-1")
	if code := storeErrCode(t, err); code != http.StatusNotFound {
		t.Errorf("missing community code = %d, want 404", code)
	}
}

func TestLeaveCommunity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateUser(t, s, "user-2", "bia@example.com")
	c := mustCreateCommunity(t, s, "comm-1", "user-1", false)

	if err := s.JoinCommunity(ctx, c.ID, "user-2"); err != nil {
		t.Fatal(err)
	}
	if err := s.LeaveCommunity(ctx, c.ID, "user-2"); err != nil {
		t.Fatalf("LeaveCommunity: %v", err)
	}

	got, err := s.GetCommunity(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.MemberCount != 1 {
		t.Errorf("member_count = %d, want 1", got.MemberCount)
	}
	if _, err := s.GetMembership(ctx, c.ID, "user-2"); err != store.ErrNotFound {
		t.Errorf("membership still present: %v", err)
	}
}

func TestLeaveCommunity_Creator(t *testing.T) {
	s := newTestStore(t)

	mustCreateUser(t, s, "user-1", "ana@example.com")
	c := mustCreateCommunity(t, s, "comm-1", "user-1", false)

	err := s.LeaveCommunity(context.Background(), c.ID, "user-1")
	if code := storeErrCode(t, err); code != http.StatusBadRequest {
		t.Errorf("creator leave code = %d, want 400", code)
	}
}

func TestLeaveCommunity_NotMember(t *testing.T) {
	s := newTestStore(t)

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateUser(t, s, "user-2", "bia@example.com")
	c := mustCreateCommunity(t, s, "comm-1", "user-1", false)

	err := s.LeaveCommunity(context.Background(), c.ID, "user-2")
	if code := storeErrCode(t, err); code != http.StatusBadRequest {
		t.Errorf("non-member leave code = %d, want 400", code)
	}
}

func TestDeleteCommunity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateUser(t, s, "user-2", "bia@example.com")
	c := mustCreateCommunity(t, s, "comm-1", "user-1", false)

	err := s.DeleteCommunity(ctx, c.ID, "user-2")
	if code := storeErrCode(t, err); code != http.StatusForbidden {
		t.Errorf("non-creator delete code = %d, want 403", code)
	}

	if err := s.DeleteCommunity(ctx, c.ID, "user-1"); err != nil {
		t.Fatalf("creator delete: %v", err)
	}
	if _, err := s.GetCommunity(ctx, c.ID); err != store.ErrNotFound {
		t.Errorf("community still present: %v", err)
	}
}

func TestListCommunities_Order(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "user-1", "ana@example.com")
	mustCreateUser(t, s, "user-2", "bia@example.com")
	mustCreateCommunity(t, s, "comm-1", "user-1", false)
	c2 := mustCreateCommunity(t, s, "comm-2", "user-1", false)

	if err := s.JoinCommunity(ctx, c2.ID, "user-2"); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListCommunities(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != "comm-2" {
		t.Errorf("largest community should come first, got %s", list[0].ID)
	}
}
