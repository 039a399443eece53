package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/estetoscopio/esteto-server/internal/domain"
	domainerrors "github.com/estetoscopio/esteto-server/internal/errors"
	"github.com/estetoscopio/esteto-server/internal/id"
	"github.com/estetoscopio/esteto-server/internal/media"
	"github.com/estetoscopio/esteto-server/internal/store"
)

// UploadService validates uploads, writes them to the public uploads
// directory, and records their metadata.
type UploadService struct {
	store    store.Store
	storage  *media.Storage
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(st store.Store, storage *media.Storage, maxBytes int64, logger *slog.Logger) *UploadService {
	return &UploadService{
		store:    st,
		storage:  storage,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Upload validates and stores one uploaded file.
// The MIME type is sniffed from content and checked against the allow-list
// before anything touches the filesystem; a rejected upload leaves no trace.
func (s *UploadService) Upload(ctx context.Context, ownerID, originalName string, data []byte) (*domain.Media, error) {
	if len(data) == 0 {
		return nil, domainerrors.Validation("arquivo vazio")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, domainerrors.Validationf("arquivo excede o limite de %d bytes", s.maxBytes)
	}

	mimeType := media.DetectMIME(data)
	if !media.IsAllowedMIME(mimeType) {
		return nil, domainerrors.Validation("tipo de arquivo não suportado: " + mimeType)
	}

	filename := uniqueFilename(originalName)

	if err := s.storage.Save(filename, data); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	var blurhash string
	if media.IsImageMIME(mimeType) {
		hash, err := media.ComputeBlurHash(data)
		if err != nil {
			s.logger.Warn("failed to compute blurhash", "filename", filename, "error", err)
		} else {
			blurhash = hash
		}
	}

	mediaID, err := id.New("media")
	if err != nil {
		s.cleanupFile(filename)
		return nil, fmt.Errorf("generate media ID: %w", err)
	}

	m := &domain.Media{
		ID:           mediaID,
		OwnerID:      ownerID,
		Filename:     filename,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		URL:          "/uploads/" + filename,
		Blurhash:     blurhash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateMedia(ctx, m); err != nil {
		s.cleanupFile(filename)
		return nil, err
	}

	s.logger.Info("file uploaded", "media_id", m.ID, "mime", mimeType, "size", m.Size)

	return m, nil
}

// List returns the caller's uploads, newest first.
func (s *UploadService) List(ctx context.Context, ownerID string) ([]*domain.Media, error) {
	return s.store.ListMedia(ctx, ownerID)
}

func (s *UploadService) cleanupFile(filename string) {
	if err := s.storage.Delete(filename); err != nil {
		s.logger.Warn("failed to clean up orphaned upload", "filename", filename, "error", err)
	}
}

// uniqueFilename derives a collision-free stored name from the upload time
// and a random suffix, keeping the original extension.
func uniqueFilename(originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}
