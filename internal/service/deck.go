package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/id"
	"github.com/estetoscopio/esteto-server/internal/search"
	"github.com/estetoscopio/esteto-server/internal/store"
	"github.com/estetoscopio/esteto-server/internal/validation"
)

// DeckService handles deck CRUD, folder moves, tagging, and search.
type DeckService struct {
	store     store.Store
	index     *search.DeckIndex
	validator *validation.Validator
	logger    *slog.Logger
}

// NewDeckService creates a new deck service.
func NewDeckService(st store.Store, index *search.DeckIndex, validator *validation.Validator, logger *slog.Logger) *DeckService {
	return &DeckService{
		store:     st,
		index:     index,
		validator: validator,
		logger:    logger,
	}
}

// CreateDeckRequest contains new deck data.
// Cards is an opaque serialized payload; an empty value becomes "[]".
type CreateDeckRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Cards       string  `json:"cards" validate:"omitempty"`
	FolderID    *string `json:"folder_id"`
}

// Create stores a new deck owned by the authenticated user.
func (s *DeckService) Create(ctx context.Context, ownerID string, req CreateDeckRequest) (*domain.Deck, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.FolderID != nil {
		if _, err := s.store.GetFolder(ctx, ownerID, *req.FolderID); err != nil {
			return nil, err
		}
	}

	deckID, err := id.New("deck")
	if err != nil {
		return nil, fmt.Errorf("generate deck ID: %w", err)
	}

	cards := req.Cards
	if cards == "" {
		cards = "[]"
	}

	now := time.Now().UTC()
	deck := &domain.Deck{
		ID:          deckID,
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Cards:       cards,
		FolderID:    req.FolderID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Tags:        []domain.Tag{},
	}

	if err := s.store.CreateDeck(ctx, deck); err != nil {
		return nil, err
	}

	s.logger.Info("deck created", "deck_id", deck.ID, "owner_id", ownerID)

	return deck, nil
}

// Get returns one of the user's decks.
func (s *DeckService) Get(ctx context.Context, ownerID, deckID string) (*domain.Deck, error) {
	return s.store.GetDeck(ctx, ownerID, deckID)
}

// List returns the user's decks, optionally filtered by folder.
func (s *DeckService) List(ctx context.Context, ownerID string, folderID *string) ([]*domain.Deck, error) {
	return s.store.ListDecks(ctx, ownerID, folderID)
}

// UpdateDeckRequest contains mutable deck fields.
type UpdateDeckRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Cards       string `json:"cards" validate:"omitempty"`
}

// Update modifies title, description, and cards.
func (s *DeckService) Update(ctx context.Context, ownerID, deckID string, req UpdateDeckRequest) (*domain.Deck, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	deck, err := s.store.GetDeck(ctx, ownerID, deckID)
	if err != nil {
		return nil, err
	}

	deck.Title = req.Title
	deck.Description = req.Description
	if req.Cards != "" {
		deck.Cards = req.Cards
	}
	deck.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateDeck(ctx, deck); err != nil {
		return nil, err
	}

	return deck, nil
}

// Move sets or clears the deck's folder. A nil folder ID clears it.
func (s *DeckService) Move(ctx context.Context, ownerID, deckID string, folderID *string) (*domain.Deck, error) {
	if err := s.store.MoveDeck(ctx, ownerID, deckID, folderID); err != nil {
		return nil, err
	}
	return s.store.GetDeck(ctx, ownerID, deckID)
}

// Delete removes a deck.
func (s *DeckService) Delete(ctx context.Context, ownerID, deckID string) error {
	return s.store.DeleteDeck(ctx, ownerID, deckID)
}

// SetTags replaces the deck's tag set. Every tag must belong to the user.
func (s *DeckService) SetTags(ctx context.Context, ownerID, deckID string, tagIDs []string) (*domain.Deck, error) {
	if _, err := s.store.GetDeck(ctx, ownerID, deckID); err != nil {
		return nil, err
	}
	for _, tagID := range tagIDs {
		if _, err := s.store.GetTagByID(ctx, ownerID, tagID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, store.ErrNotFound.WithMessage("tag not found: " + tagID)
			}
			return nil, err
		}
	}

	if err := s.store.SetDeckTags(ctx, deckID, tagIDs); err != nil {
		return nil, err
	}

	deck, err := s.store.GetDeck(ctx, ownerID, deckID)
	if err != nil {
		return nil, err
	}

	// Tag slugs are part of the index document; refresh it.
	if s.index != nil {
		if err := s.index.IndexDeck(deck); err != nil {
			s.logger.Warn("failed to reindex deck after tag change", "deck_id", deckID, "error", err)
		}
	}

	return deck, nil
}

// Search runs a full-text query over the user's decks.
func (s *DeckService) Search(ctx context.Context, ownerID, query string, limit, offset int) (*search.Result, error) {
	return s.index.Search(ctx, ownerID, query, limit, offset)
}
