package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/store"
)

// deckColumns is the ordered list of columns selected in deck queries.
// Must match the scan order in scanDeck.
const deckColumns = `id, owner_id, title, description, cards, folder_id, created_at, updated_at`

// scanDeck scans a sql.Row (or sql.Rows via its Scan method) into a domain.Deck.
// Tags are not loaded here; see loadDeckTags.
func scanDeck(scanner interface{ Scan(dest ...any) error }) (*domain.Deck, error) {
	var d domain.Deck

	var (
		description sql.NullString
		folderID    sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Title,
		&description,
		&d.Cards,
		&folderID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		d.Description = description.String
	}
	if folderID.Valid {
		d.FolderID = &folderID.String
	}

	d.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	d.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// CreateDeck inserts a new deck and indexes it for search.
func (s *Store) CreateDeck(ctx context.Context, d *domain.Deck) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decks (id, owner_id, title, description, cards, folder_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.OwnerID,
		d.Title,
		nullString(d.Description),
		d.Cards,
		nullableString(d.FolderID),
		formatTime(d.CreatedAt),
		formatTime(d.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if err := s.searchIndexer.IndexDeck(d); err != nil {
		s.logger.Warn("failed to index deck", "deck_id", d.ID, "error", err)
	}
	return nil
}

// GetDeck retrieves a deck owned by the given user, tags included.
// Returns store.ErrNotFound if it does not exist or belongs to someone else.
func (s *Store) GetDeck(ctx context.Context, ownerID, deckID string) (*domain.Deck, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE id = ? AND owner_id = ?`,
		deckID, ownerID)

	d, err := scanDeck(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadDeckTags(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListDecks returns all decks owned by the user, newest first, tags included.
// An optional folder filter narrows the list to one folder.
func (s *Store) ListDecks(ctx context.Context, ownerID string, folderID *string) ([]*domain.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE owner_id = ?`
	args := []any{ownerID}
	if folderID != nil {
		query += ` AND folder_id = ?`
		args = append(args, *folderID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []*domain.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, d := range decks {
		if err := s.loadDeckTags(ctx, d); err != nil {
			return nil, err
		}
	}

	if decks == nil {
		decks = []*domain.Deck{}
	}

	return decks, nil
}

// UpdateDeck updates title, description and cards.
// Ownership is enforced in the WHERE clause; returns store.ErrNotFound on
// zero rows affected.
func (s *Store) UpdateDeck(ctx context.Context, d *domain.Deck) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE decks SET title = ?, description = ?, cards = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		d.Title,
		nullString(d.Description),
		d.Cards,
		formatTime(d.UpdatedAt),
		d.ID,
		d.OwnerID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if err := s.searchIndexer.IndexDeck(d); err != nil {
		s.logger.Warn("failed to reindex deck", "deck_id", d.ID, "error", err)
	}
	return nil
}

// MoveDeck sets or clears a deck's folder reference.
// The deck must be owned by ownerID and, when folderID is non-nil, the folder
// must exist and be owned by the same user; either absence is ErrNotFound.
// A zero-rows update after those checks is unexpected and surfaces as a
// plain error so callers report it as internal.
func (s *Store) MoveDeck(ctx context.Context, ownerID, deckID string, folderID *string) error {
	if _, err := s.GetDeck(ctx, ownerID, deckID); err != nil {
		return err
	}
	if folderID != nil {
		if _, err := s.GetFolder(ctx, ownerID, *folderID); err != nil {
			if err == store.ErrNotFound {
				return store.ErrNotFound.WithMessage("folder not found")
			}
			return err
		}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE decks SET folder_id = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		nullableString(folderID),
		formatTime(time.Now().UTC()),
		deckID,
		ownerID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("move deck %s: update affected no rows", deckID)
	}
	return nil
}

// DeleteDeck removes a deck and its search index entry.
// Returns store.ErrNotFound on zero rows affected.
func (s *Store) DeleteDeck(ctx context.Context, ownerID, deckID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM decks WHERE id = ? AND owner_id = ?`,
		deckID, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if err := s.searchIndexer.DeleteDeck(deckID); err != nil {
		s.logger.Warn("failed to remove deck from index", "deck_id", deckID, "error", err)
	}
	return nil
}

// SetDeckTags replaces all tags for a deck in a single transaction.
// It deletes existing deck_tags rows and inserts the new set.
func (s *Store) SetDeckTags(ctx context.Context, deckID string, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM deck_tags WHERE deck_id = ?`, deckID); err != nil {
		return fmt.Errorf("delete deck_tags: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO deck_tags (deck_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			deckID,
			tagID,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert deck_tag: %w", err)
		}
	}

	return tx.Commit()
}

// loadDeckTags populates d.Tags from the deck_tags join table.
func (s *Store) loadDeckTags(ctx context.Context, d *domain.Deck) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("t", tagColumns)+`
		FROM tags t
		JOIN deck_tags dt ON dt.tag_id = t.id
		WHERE dt.deck_id = ?
		ORDER BY t.slug ASC`, d.ID)
	if err != nil {
		return fmt.Errorf("query deck tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return err
		}
		tags = append(tags, *t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	d.Tags = tags
	return nil
}
