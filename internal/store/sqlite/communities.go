package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/store"
)

// communityColumns is the ordered list of columns selected in community queries.
// Must match the scan order in scanCommunity.
const communityColumns = `id, creator_id, name, description, private, member_count, created_at, updated_at`

// scanCommunity scans a sql.Row (or sql.Rows via its Scan method) into a domain.Community.
func scanCommunity(scanner interface{ Scan(dest ...any) error }) (*domain.Community, error) {
	var c domain.Community

	var (
		description sql.NullString
		private     int
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&c.ID,
		&c.CreatorID,
		&c.Name,
		&description,
		&private,
		&c.MemberCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		c.Description = description.String
	}
	c.Private = private != 0

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCommunity inserts a community together with the creator's membership.
// The member counter starts at 1 for the creator; both writes share one
// transaction so the counter can never disagree with the membership table.
func (s *Store) CreateCommunity(ctx context.Context, c *domain.Community) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	c.MemberCount = 1

	_, err = tx.ExecContext(ctx, `
		INSERT INTO communities (id, creator_id, name, description, private, member_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.CreatorID,
		c.Name,
		nullString(c.Description),
		boolToInt(c.Private),
		c.MemberCount,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert community: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO community_members (community_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)`,
		c.ID,
		c.CreatorID,
		domain.RoleCreator,
		formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert creator membership: %w", err)
	}

	return tx.Commit()
}

// GetCommunity retrieves a community by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetCommunity(ctx context.Context, communityID string) (*domain.Community, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+communityColumns+` FROM communities WHERE id = ?`, communityID)

	c, err := scanCommunity(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCommunities returns all communities, largest first.
func (s *Store) ListCommunities(ctx context.Context) ([]*domain.Community, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+communityColumns+` FROM communities ORDER BY member_count DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var communities []*domain.Community
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}
		communities = append(communities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if communities == nil {
		communities = []*domain.Community{}
	}

	return communities, nil
}

// GetMembership retrieves one user's membership in a community.
// Returns store.ErrNotFound if the user is not a member.
func (s *Store) GetMembership(ctx context.Context, communityID, userID string) (*domain.CommunityMember, error) {
	var (
		m        domain.CommunityMember
		joinedAt string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT community_id, user_id, role, joined_at
		FROM community_members
		WHERE community_id = ? AND user_id = ?`,
		communityID, userID,
	).Scan(&m.CommunityID, &m.UserID, &m.Role, &joinedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	m.JoinedAt, err = parseTime(joinedAt)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// JoinCommunity adds a membership and increments the member counter in one
// transaction. Joining twice is invalid input, joining a private community
// is forbidden, and a missing community is not found.
func (s *Store) JoinCommunity(ctx context.Context, communityID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var private int
	err = tx.QueryRowContext(ctx,
		`SELECT private FROM communities WHERE id = ?`, communityID).Scan(&private)
	if err == sql.ErrNoRows {
		return store.ErrNotFound.WithMessage("community not found")
	}
	if err != nil {
		return err
	}
	if private != 0 {
		return store.ErrForbidden.WithMessage("community is private")
	}

	var exists int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM community_members
		WHERE community_id = ? AND user_id = ?`,
		communityID, userID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return store.ErrInvalidInput.WithMessage("already a member of this community")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO community_members (community_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)`,
		communityID,
		userID,
		domain.RoleMember,
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE communities SET member_count = member_count + 1, updated_at = ?
		WHERE id = ?`,
		formatTime(time.Now().UTC()),
		communityID,
	)
	if err != nil {
		return fmt.Errorf("increment member count: %w", err)
	}

	return tx.Commit()
}

// LeaveCommunity removes a membership and decrements the member counter in
// one transaction. Non-members cannot leave, and neither can the creator;
// creators delete the community instead.
func (s *Store) LeaveCommunity(ctx context.Context, communityID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var creatorID string
	err = tx.QueryRowContext(ctx,
		`SELECT creator_id FROM communities WHERE id = ?`, communityID).Scan(&creatorID)
	if err == sql.ErrNoRows {
		return store.ErrNotFound.WithMessage("community not found")
	}
	if err != nil {
		return err
	}
	if creatorID == userID {
		return store.ErrInvalidInput.WithMessage("the creator cannot leave; delete the community instead")
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM community_members
		WHERE community_id = ? AND user_id = ?`,
		communityID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrInvalidInput.WithMessage("not a member of this community")
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE communities SET member_count = member_count - 1, updated_at = ?
		WHERE id = ?`,
		formatTime(time.Now().UTC()),
		communityID,
	)
	if err != nil {
		return fmt.Errorf("decrement member count: %w", err)
	}

	return tx.Commit()
}

// DeleteCommunity removes a community; memberships cascade.
// Only the creator can delete. Returns store.ErrNotFound if the community
// does not exist and store.ErrForbidden for non-creators.
func (s *Store) DeleteCommunity(ctx context.Context, communityID, userID string) error {
	var creatorID string
	err := s.db.QueryRowContext(ctx,
		`SELECT creator_id FROM communities WHERE id = ?`, communityID).Scan(&creatorID)
	if err == sql.ErrNoRows {
		return store.ErrNotFound.WithMessage("community not found")
	}
	if err != nil {
		return err
	}
	if creatorID != userID {
		return store.ErrForbidden.WithMessage("only the creator can delete a community")
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM communities WHERE id = ?`, communityID)
	return err
}
