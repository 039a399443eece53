package sqlite

import (
	"context"
	"database/sql"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/store"
)

// mediaColumns is the ordered list of columns selected in media queries.
// Must match the scan order in scanMedia.
const mediaColumns = `id, owner_id, filename, original_name, mime_type, size, url, blurhash, created_at`

// scanMedia scans a sql.Row (or sql.Rows via its Scan method) into a domain.Media.
func scanMedia(scanner interface{ Scan(dest ...any) error }) (*domain.Media, error) {
	var m domain.Media

	var (
		blurhash  sql.NullString
		createdAt string
	)

	err := scanner.Scan(
		&m.ID,
		&m.OwnerID,
		&m.Filename,
		&m.OriginalName,
		&m.MimeType,
		&m.Size,
		&m.URL,
		&blurhash,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if blurhash.Valid {
		m.Blurhash = blurhash.String
	}

	m.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// CreateMedia inserts an upload record.
func (s *Store) CreateMedia(ctx context.Context, m *domain.Media) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media (id, owner_id, filename, original_name, mime_type, size, url, blurhash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.OwnerID,
		m.Filename,
		m.OriginalName,
		m.MimeType,
		m.Size,
		m.URL,
		nullString(m.Blurhash),
		formatTime(m.CreatedAt),
	)
	return err
}

// GetMedia retrieves an upload record by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetMedia(ctx context.Context, mediaID string) (*domain.Media, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE id = ?`, mediaID)

	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMedia returns all uploads owned by the user, newest first.
func (s *Store) ListMedia(ctx context.Context, ownerID string) ([]*domain.Media, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []*domain.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if media == nil {
		media = []*domain.Media{}
	}

	return media, nil
}
