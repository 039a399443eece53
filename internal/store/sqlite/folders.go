package sqlite

import (
	"context"
	"database/sql"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/store"
)

// folderColumns is the ordered list of columns selected in folder queries.
// Must match the scan order in scanFolder.
const folderColumns = `id, owner_id, name, created_at, updated_at`

// scanFolder scans a sql.Row (or sql.Rows via its Scan method) into a domain.Folder.
func scanFolder(scanner interface{ Scan(dest ...any) error }) (*domain.Folder, error) {
	var f domain.Folder

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&f.ID,
		&f.OwnerID,
		&f.Name,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	f.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// CreateFolder inserts a new folder.
func (s *Store) CreateFolder(ctx context.Context, f *domain.Folder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO folders (id, owner_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		f.ID,
		f.OwnerID,
		f.Name,
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	return err
}

// GetFolder retrieves a folder owned by the given user.
// Returns store.ErrNotFound if it does not exist or belongs to someone else.
func (s *Store) GetFolder(ctx context.Context, ownerID, folderID string) (*domain.Folder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE id = ? AND owner_id = ?`,
		folderID, ownerID)

	f, err := scanFolder(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListFolders returns all folders owned by the user, ordered by name.
func (s *Store) ListFolders(ctx context.Context, ownerID string) ([]*domain.Folder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE owner_id = ? ORDER BY name ASC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []*domain.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if folders == nil {
		folders = []*domain.Folder{}
	}

	return folders, nil
}

// UpdateFolder renames a folder. Ownership is enforced in the WHERE clause.
// Returns store.ErrNotFound on zero rows affected.
func (s *Store) UpdateFolder(ctx context.Context, f *domain.Folder) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE folders SET name = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		f.Name,
		formatTime(f.UpdatedAt),
		f.ID,
		f.OwnerID,
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
	return nil
}

// DeleteFolder removes a folder. Decks inside it fall back to no folder via
// the ON DELETE SET NULL constraint.
// Returns store.ErrNotFound on zero rows affected.
func (s *Store) DeleteFolder(ctx context.Context, ownerID, folderID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM folders WHERE id = ? AND owner_id = ?`,
		folderID, ownerID)
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
	return nil
}
