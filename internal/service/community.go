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

// CommunityService handles communities and their memberships.
type CommunityService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCommunityService creates a new community service.
func NewCommunityService(st store.Store, validator *validation.Validator, logger *slog.Logger) *CommunityService {
	return &CommunityService{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// CreateCommunityRequest contains new community data.
type CreateCommunityRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Private     bool   `json:"private"`
}

// Create stores a new community with the caller as creator and first member.
func (s *CommunityService) Create(ctx context.Context, creatorID string, req CreateCommunityRequest) (*domain.Community, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	communityID, err := id.New("comm")
	if err != nil {
		return nil, fmt.Errorf("generate community ID: %w", err)
	}

	now := time.Now().UTC()
	community := &domain.Community{
		ID:          communityID,
		CreatorID:   creatorID,
		Name:        req.Name,
		Description: req.Description,
		Private:     req.Private,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateCommunity(ctx, community); err != nil {
		return nil, err
	}

	s.logger.Info("community created", "community_id", community.ID, "creator_id", creatorID)

	return community, nil
}

// Get returns a community by ID.
func (s *CommunityService) Get(ctx context.Context, communityID string) (*domain.Community, error) {
	return s.store.GetCommunity(ctx, communityID)
}

// List returns all communities, largest first.
func (s *CommunityService) List(ctx context.Context) ([]*domain.Community, error) {
	return s.store.ListCommunities(ctx)
}

// Join adds the caller to a public community.
func (s *CommunityService) Join(ctx context.Context, communityID, userID string) (*domain.Community, error) {
	if err := s.store.JoinCommunity(ctx, communityID, userID); err != nil {
		return nil, err
	}
	return s.store.GetCommunity(ctx, communityID)
}

// Leave removes the caller from a community. The creator cannot leave.
func (s *CommunityService) Leave(ctx context.Context, communityID, userID string) (*domain.Community, error) {
	if err := s.store.LeaveCommunity(ctx, communityID, userID); err != nil {
		return nil, err
	}
	return s.store.GetCommunity(ctx, communityID)
}

// Delete removes a community; creator only.
func (s *CommunityService) Delete(ctx context.Context, communityID, userID string) error {
	return s.store.DeleteCommunity(ctx, communityID, userID)
}
