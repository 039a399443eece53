package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/service"
)

func (s *Server) registerCommunityRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createCommunity",
		Method:      http.MethodPost,
		Path:        "/api/v1/communities",
		Summary:     "Create community",
		Description: "Creates a community with the caller as creator and first member.",
		Tags:        []string{"Communities"},
	}, s.handleCreateCommunity)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCommunities",
		Method:      http.MethodGet,
		Path:        "/api/v1/communities",
		Summary:     "List communities",
		Description: "Lists all communities, largest first.",
		Tags:        []string{"Communities"},
	}, s.handleListCommunities)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCommunity",
		Method:      http.MethodGet,
		Path:        "/api/v1/communities/{id}",
		Summary:     "Get community",
		Tags:        []string{"Communities"},
	}, s.handleGetCommunity)

	huma.Register(s.api, huma.Operation{
		OperationID: "joinCommunity",
		Method:      http.MethodPost,
		Path:        "/api/v1/communities/{id}/join",
		Summary:     "Join community",
		Description: "Joins a public community. Private communities reject outsiders.",
		Tags:        []string{"Communities"},
	}, s.handleJoinCommunity)

	huma.Register(s.api, huma.Operation{
		OperationID: "leaveCommunity",
		Method:      http.MethodPost,
		Path:        "/api/v1/communities/{id}/leave",
		Summary:     "Leave community",
		Description: "Leaves a community. The creator must delete it instead.",
		Tags:        []string{"Communities"},
	}, s.handleLeaveCommunity)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCommunity",
		Method:      http.MethodDelete,
		Path:        "/api/v1/communities/{id}",
		Summary:     "Delete community",
		Description: "Deletes a community. Creator only.",
		Tags:        []string{"Communities"},
	}, s.handleDeleteCommunity)
}

// === DTOs ===

// CommunityResponse contains community information.
type CommunityResponse struct {
	ID          string    `json:"id" doc:"Community ID"`
	CreatorID   string    `json:"creator_id" doc:"Creating user's ID"`
	Name        string    `json:"name" doc:"Community name"`
	Description string    `json:"description,omitempty" doc:"Community description"`
	Private     bool      `json:"private" doc:"Whether joining requires an invitation"`
	MemberCount int       `json:"member_count" doc:"Current number of members"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// CommunityOutput wraps a community response for Huma.
type CommunityOutput struct {
	Body CommunityResponse
}

// CommunityListOutput wraps a community list for Huma.
type CommunityListOutput struct {
	Body struct {
		Communities []CommunityResponse `json:"communities" doc:"Communities, largest first"`
	}
}

// CreateCommunityRequest is the request body for community creation.
type CreateCommunityRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100" doc:"Community name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Community description"`
	Private     bool   `json:"private,omitempty" doc:"Invite-only when true"`
}

// CreateCommunityInput wraps the create request for Huma.
type CreateCommunityInput struct {
	Body CreateCommunityRequest
}

// CommunityIDInput carries the community ID path parameter.
type CommunityIDInput struct {
	ID string `path:"id" doc:"Community ID"`
}

// === Handlers ===

func (s *Server) handleCreateCommunity(ctx context.Context, input *CreateCommunityInput) (*CommunityOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	community, err := s.services.Community.Create(ctx, userID, service.CreateCommunityRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Private:     input.Body.Private,
	})
	if err != nil {
		return nil, err
	}

	return &CommunityOutput{Body: mapCommunity(community)}, nil
}

func (s *Server) handleListCommunities(ctx context.Context, _ *struct{}) (*CommunityListOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	communities, err := s.services.Community.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &CommunityListOutput{}
	out.Body.Communities = make([]CommunityResponse, 0, len(communities))
	for _, community := range communities {
		out.Body.Communities = append(out.Body.Communities, mapCommunity(community))
	}
	return out, nil
}

func (s *Server) handleGetCommunity(ctx context.Context, input *CommunityIDInput) (*CommunityOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	community, err := s.services.Community.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CommunityOutput{Body: mapCommunity(community)}, nil
}

func (s *Server) handleJoinCommunity(ctx context.Context, input *CommunityIDInput) (*CommunityOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	community, err := s.services.Community.Join(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &CommunityOutput{Body: mapCommunity(community)}, nil
}

func (s *Server) handleLeaveCommunity(ctx context.Context, input *CommunityIDInput) (*CommunityOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	community, err := s.services.Community.Leave(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &CommunityOutput{Body: mapCommunity(community)}, nil
}

func (s *Server) handleDeleteCommunity(ctx context.Context, input *CommunityIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Community.Delete(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "comunidade removida"}}, nil
}

func mapCommunity(community *domain.Community) CommunityResponse {
	return CommunityResponse{
		ID:          community.ID,
		CreatorID:   community.CreatorID,
		Name:        community.Name,
		Description: community.Description,
		Private:     community.Private,
		MemberCount: community.MemberCount,
		CreatedAt:   community.CreatedAt,
		UpdatedAt:   community.UpdatedAt,
	}
}
