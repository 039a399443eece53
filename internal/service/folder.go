package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/id"
	"github.com/estetoscopio/esteto-server/internal/store"
	"github.com/estetoscopio/esteto-server/internal/validation"
)

// FolderService handles deck folder CRUD.
type FolderService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(st store.Store, validator *validation.Validator, logger *slog.Logger) *FolderService {
	return &FolderService{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// FolderRequest contains folder data for create and rename.
type FolderRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// Create stores a new folder.
func (s *FolderService) Create(ctx context.Context, ownerID string, req FolderRequest) (*domain.Folder, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	folderID, err := id.New("folder")
	if err != nil {
		return nil, fmt.Errorf("generate folder ID: %w", err)
	}

	now := time.Now().UTC()
	folder := &domain.Folder{
		ID:        folderID,
		OwnerID:   ownerID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}

	return folder, nil
}

// Get returns one of the user's folders.
func (s *FolderService) Get(ctx context.Context, ownerID, folderID string) (*domain.Folder, error) {
	return s.store.GetFolder(ctx, ownerID, folderID)
}

// List returns the user's folders.
func (s *FolderService) List(ctx context.Context, ownerID string) ([]*domain.Folder, error) {
	return s.store.ListFolders(ctx, ownerID)
}

// Rename changes a folder's name.
func (s *FolderService) Rename(ctx context.Context, ownerID, folderID string, req FolderRequest) (*domain.Folder, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	folder, err := s.store.GetFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	folder.Name = req.Name
	folder.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateFolder(ctx, folder); err != nil {
		return nil, err
	}

	return folder, nil
}

// Delete removes a folder; decks inside fall back to no folder.
func (s *FolderService) Delete(ctx context.Context, ownerID, folderID string) error {
	return s.store.DeleteFolder(ctx, ownerID, folderID)
}
