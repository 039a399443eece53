// Package media handles uploaded files: disk storage, MIME validation,
// and blurhash placeholders for images.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage manages the public uploads directory.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

// NewStorage creates a Storage rooted at the uploads directory,
// creating it if needed.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// BasePath returns the uploads directory; the HTTP layer serves it
// under /uploads/.
func (s *Storage) BasePath() string {
	return s.basePath
}

// Save writes an uploaded file under the uploads directory.
// The filename must be a bare name; anything resolving outside the
// directory is rejected.
func (s *Storage) Save(filename string, data []byte) error {
	if err := validateFilename(filename); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("file data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(filename), data, 0o644); err != nil { //#nosec G306 -- Uploads are served publicly
		return fmt.Errorf("failed to write upload: %w", err)
	}

	return nil
}

// Get reads an uploaded file back.
func (s *Storage) Get(filename string) ([]byte, error) {
	if err := validateFilename(filename); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(filename)) //#nosec G304 -- Filename validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("upload not found: %s", filename)
		}
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return data, nil
}

// Exists checks whether an uploaded file is present.
func (s *Storage) Exists(filename string) bool {
	if validateFilename(filename) != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(filename))
	return err == nil
}

// Delete removes an uploaded file.
func (s *Storage) Delete(filename string) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	return nil
}

// Path returns the absolute path for a stored filename.
func (s *Storage) Path(filename string) string {
	return filepath.Join(s.basePath, filename)
}

func validateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	if strings.Contains(filename, "/") || strings.Contains(filename, "\\") ||
		filename != filepath.Base(filename) {
		return fmt.Errorf("invalid filename: %s", filename)
	}
	return nil
}
