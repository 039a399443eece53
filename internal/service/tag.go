package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/estetoscopio/esteto-server/internal/domain"
	domainerrors "github.com/estetoscopio/esteto-server/internal/errors"
	"github.com/estetoscopio/esteto-server/internal/id"
	"github.com/estetoscopio/esteto-server/internal/normalize"
	"github.com/estetoscopio/esteto-server/internal/store"
	"github.com/estetoscopio/esteto-server/internal/validation"
)

// TagService handles tag CRUD. Tag names are unique per owner after
// slug normalization, so "Anatomia" and "anatomía" collide.
type TagService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st store.Store, validator *validation.Validator, logger *slog.Logger) *TagService {
	return &TagService{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// CreateTagRequest contains new tag data.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// Create stores a new tag owned by the authenticated user.
func (s *TagService) Create(ctx context.Context, ownerID string, req CreateTagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	slug := normalize.Slug(req.Name)
	if slug == "" {
		return nil, domainerrors.Validation("o nome da etiqueta precisa conter letras ou números")
	}

	tagID, err := id.New("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	now := time.Now().UTC()
	tag := &domain.Tag{
		ID:        tagID,
		OwnerID:   ownerID,
		Name:      req.Name,
		Slug:      slug,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, err
	}

	return tag, nil
}

// List returns the user's tags.
func (s *TagService) List(ctx context.Context, ownerID string) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx, ownerID)
}

// Delete removes a tag and its deck associations.
func (s *TagService) Delete(ctx context.Context, ownerID, tagID string) error {
	return s.store.DeleteTag(ctx, ownerID, tagID)
}
