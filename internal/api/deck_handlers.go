package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/search"
	"github.com/estetoscopio/esteto-server/internal/service"
)

func (s *Server) registerDeckRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createDeck",
		Method:      http.MethodPost,
		Path:        "/api/v1/decks",
		Summary:     "Create deck",
		Tags:        []string{"Decks"},
	}, s.handleCreateDeck)

	huma.Register(s.api, huma.Operation{
		OperationID: "listDecks",
		Method:      http.MethodGet,
		Path:        "/api/v1/decks",
		Summary:     "List decks",
		Description: "Lists the user's decks, newest first, optionally filtered by folder.",
		Tags:        []string{"Decks"},
	}, s.handleListDecks)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchDecks",
		Method:      http.MethodGet,
		Path:        "/api/v1/decks/search",
		Summary:     "Search decks",
		Description: "Full-text search over the user's deck titles, descriptions, and tags.",
		Tags:        []string{"Decks"},
	}, s.handleSearchDecks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDeck",
		Method:      http.MethodGet,
		Path:        "/api/v1/decks/{id}",
		Summary:     "Get deck",
		Tags:        []string{"Decks"},
	}, s.handleGetDeck)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateDeck",
		Method:      http.MethodPatch,
		Path:        "/api/v1/decks/{id}",
		Summary:     "Update deck",
		Tags:        []string{"Decks"},
	}, s.handleUpdateDeck)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveDeck",
		Method:      http.MethodPatch,
		Path:        "/api/v1/decks/{id}/move",
		Summary:     "Move deck",
		Description: "Moves the deck into a folder, or out of any folder when folder_id is null.",
		Tags:        []string{"Decks"},
	}, s.handleMoveDeck)

	huma.Register(s.api, huma.Operation{
		OperationID: "setDeckTags",
		Method:      http.MethodPut,
		Path:        "/api/v1/decks/{id}/tags",
		Summary:     "Set deck tags",
		Description: "Replaces the deck's tag set.",
		Tags:        []string{"Decks"},
	}, s.handleSetDeckTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteDeck",
		Method:      http.MethodDelete,
		Path:        "/api/v1/decks/{id}",
		Summary:     "Delete deck",
		Tags:        []string{"Decks"},
	}, s.handleDeleteDeck)
}

// === DTOs ===

// TagResponse contains tag information.
type TagResponse struct {
	ID    string `json:"id" doc:"Tag ID"`
	Name  string `json:"name" doc:"Display name"`
	Slug  string `json:"slug" doc:"Normalized name"`
	Color string `json:"color,omitempty" doc:"Hex color"`
}

// DeckResponse contains deck information.
type DeckResponse struct {
	ID          string        `json:"id" doc:"Deck ID"`
	Title       string        `json:"title" doc:"Deck title"`
	Description string        `json:"description,omitempty" doc:"Deck description"`
	Cards       string        `json:"cards" doc:"Serialized card payload"`
	FolderID    *string       `json:"folder_id" doc:"Containing folder ID, null when unfiled"`
	Tags        []TagResponse `json:"tags" doc:"Attached tags"`
	CreatedAt   time.Time     `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time     `json:"updated_at" doc:"Last update timestamp"`
}

// DeckOutput wraps a deck response for Huma.
type DeckOutput struct {
	Body DeckResponse
}

// DeckListOutput wraps a deck list for Huma.
type DeckListOutput struct {
	Body struct {
		Decks []DeckResponse `json:"decks" doc:"Decks, newest first"`
	}
}

// CreateDeckRequest is the request body for deck creation.
type CreateDeckRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200" doc:"Deck title"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Deck description"`
	Cards       string  `json:"cards,omitempty" doc:"Serialized card payload"`
	FolderID    *string `json:"folder_id,omitempty" doc:"Folder to create the deck in"`
}

// CreateDeckInput wraps the create request for Huma.
type CreateDeckInput struct {
	Body CreateDeckRequest
}

// ListDecksInput carries the optional folder filter.
type ListDecksInput struct {
	FolderID string `query:"folder_id" doc:"Only decks in this folder"`
}

// GetDeckInput carries the deck ID path parameter.
type GetDeckInput struct {
	ID string `path:"id" doc:"Deck ID"`
}

// UpdateDeckRequest is the request body for deck updates.
type UpdateDeckRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200" doc:"Deck title"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Deck description"`
	Cards       string `json:"cards,omitempty" doc:"Serialized card payload; empty keeps the current cards"`
}

// UpdateDeckInput wraps the update request for Huma.
type UpdateDeckInput struct {
	ID   string `path:"id" doc:"Deck ID"`
	Body UpdateDeckRequest
}

// MoveDeckInput wraps the move request for Huma.
type MoveDeckInput struct {
	ID   string `path:"id" doc:"Deck ID"`
	Body struct {
		FolderID *string `json:"folder_id" doc:"Target folder ID, or null to unfile the deck"`
	}
}

// SetDeckTagsInput wraps the tag replacement request for Huma.
type SetDeckTagsInput struct {
	ID   string `path:"id" doc:"Deck ID"`
	Body struct {
		TagIDs []string `json:"tag_ids" doc:"Complete set of tag IDs for the deck"`
	}
}

// SearchDecksInput carries the search query parameters.
type SearchDecksInput struct {
	Query  string `query:"q" doc:"Search query; empty lists every deck"`
	Limit  int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum hits"`
	Offset int    `query:"offset" default:"0" minimum:"0" doc:"Hits to skip"`
}

// SearchHitResponse is one search result.
type SearchHitResponse struct {
	ID         string            `json:"id" doc:"Deck ID"`
	Score      float64           `json:"score" doc:"Relevance score"`
	Title      string            `json:"title" doc:"Deck title"`
	Tags       []string          `json:"tags,omitempty" doc:"Tag slugs"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted fragment per field"`
}

// SearchDecksOutput wraps search results for Huma.
type SearchDecksOutput struct {
	Body struct {
		Query  string              `json:"query" doc:"Query as executed"`
		Total  uint64              `json:"total" doc:"Total matching decks"`
		TookMs int64               `json:"took_ms" doc:"Search duration in milliseconds"`
		Hits   []SearchHitResponse `json:"hits" doc:"Matching decks"`
	}
}

// MessageOutput wraps a plain message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleCreateDeck(ctx context.Context, input *CreateDeckInput) (*DeckOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	deck, err := s.services.Deck.Create(ctx, userID, service.CreateDeckRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Cards:       input.Body.Cards,
		FolderID:    input.Body.FolderID,
	})
	if err != nil {
		return nil, err
	}

	return &DeckOutput{Body: mapDeck(deck)}, nil
}

func (s *Server) handleListDecks(ctx context.Context, input *ListDecksInput) (*DeckListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	var folderID *string
	if input.FolderID != "" {
		folderID = &input.FolderID
	}

	decks, err := s.services.Deck.List(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	out := &DeckListOutput{}
	out.Body.Decks = make([]DeckResponse, 0, len(decks))
	for _, deck := range decks {
		out.Body.Decks = append(out.Body.Decks, mapDeck(deck))
	}
	return out, nil
}

func (s *Server) handleGetDeck(ctx context.Context, input *GetDeckInput) (*DeckOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	deck, err := s.services.Deck.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &DeckOutput{Body: mapDeck(deck)}, nil
}

func (s *Server) handleUpdateDeck(ctx context.Context, input *UpdateDeckInput) (*DeckOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	deck, err := s.services.Deck.Update(ctx, userID, input.ID, service.UpdateDeckRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Cards:       input.Body.Cards,
	})
	if err != nil {
		return nil, err
	}

	return &DeckOutput{Body: mapDeck(deck)}, nil
}

func (s *Server) handleMoveDeck(ctx context.Context, input *MoveDeckInput) (*DeckOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	deck, err := s.services.Deck.Move(ctx, userID, input.ID, input.Body.FolderID)
	if err != nil {
		return nil, err
	}

	return &DeckOutput{Body: mapDeck(deck)}, nil
}

func (s *Server) handleSetDeckTags(ctx context.Context, input *SetDeckTagsInput) (*DeckOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	deck, err := s.services.Deck.SetTags(ctx, userID, input.ID, input.Body.TagIDs)
	if err != nil {
		return nil, err
	}

	return &DeckOutput{Body: mapDeck(deck)}, nil
}

func (s *Server) handleDeleteDeck(ctx context.Context, input *GetDeckInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Deck.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "baralho removido"}}, nil
}

func (s *Server) handleSearchDecks(ctx context.Context, input *SearchDecksInput) (*SearchDecksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Deck.Search(ctx, userID, input.Query, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	out := &SearchDecksOutput{}
	out.Body.Query = result.Query
	out.Body.Total = result.Total
	out.Body.TookMs = result.TookMs
	out.Body.Hits = mapSearchHits(result.Hits)
	return out, nil
}

// === Helpers ===

func mapDeck(deck *domain.Deck) DeckResponse {
	tags := make([]TagResponse, 0, len(deck.Tags))
	for _, tag := range deck.Tags {
		tags = append(tags, TagResponse{
			ID:    tag.ID,
			Name:  tag.Name,
			Slug:  tag.Slug,
			Color: tag.Color,
		})
	}

	return DeckResponse{
		ID:          deck.ID,
		Title:       deck.Title,
		Description: deck.Description,
		Cards:       deck.Cards,
		FolderID:    deck.FolderID,
		Tags:        tags,
		CreatedAt:   deck.CreatedAt,
		UpdatedAt:   deck.UpdatedAt,
	}
}

func mapSearchHits(hits []search.Hit) []SearchHitResponse {
	out := make([]SearchHitResponse, 0, len(hits))
	for _, hit := range hits {
		out = append(out, SearchHitResponse{
			ID:         hit.ID,
			Score:      hit.Score,
			Title:      hit.Title,
			Tags:       hit.Tags,
			Highlights: hit.Highlights,
		})
	}
	return out
}
