package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/estetoscopio/esteto-server/internal/domain"
	"github.com/estetoscopio/esteto-server/internal/service"
)

func (s *Server) registerFolderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createFolder",
		Method:      http.MethodPost,
		Path:        "/api/v1/folders",
		Summary:     "Create folder",
		Tags:        []string{"Folders"},
	}, s.handleCreateFolder)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFolders",
		Method:      http.MethodGet,
		Path:        "/api/v1/folders",
		Summary:     "List folders",
		Tags:        []string{"Folders"},
	}, s.handleListFolders)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFolder",
		Method:      http.MethodGet,
		Path:        "/api/v1/folders/{id}",
		Summary:     "Get folder",
		Tags:        []string{"Folders"},
	}, s.handleGetFolder)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameFolder",
		Method:      http.MethodPatch,
		Path:        "/api/v1/folders/{id}",
		Summary:     "Rename folder",
		Tags:        []string{"Folders"},
	}, s.handleRenameFolder)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteFolder",
		Method:      http.MethodDelete,
		Path:        "/api/v1/folders/{id}",
		Summary:     "Delete folder",
		Description: "Deletes the folder. Decks inside fall back to no folder.",
		Tags:        []string{"Folders"},
	}, s.handleDeleteFolder)
}

// === DTOs ===

// FolderResponse contains folder information.
type FolderResponse struct {
	ID        string    `json:"id" doc:"Folder ID"`
	Name      string    `json:"name" doc:"Folder name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// FolderOutput wraps a folder response for Huma.
type FolderOutput struct {
	Body FolderResponse
}

// FolderListOutput wraps a folder list for Huma.
type FolderListOutput struct {
	Body struct {
		Folders []FolderResponse `json:"folders" doc:"Folders sorted by name"`
	}
}

// FolderRequest is the request body for folder create and rename.
type FolderRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100" doc:"Folder name"`
}

// FolderInput wraps the folder request for Huma.
type FolderInput struct {
	Body FolderRequest
}

// FolderIDInput carries the folder ID path parameter.
type FolderIDInput struct {
	ID string `path:"id" doc:"Folder ID"`
}

// RenameFolderInput wraps the rename request for Huma.
type RenameFolderInput struct {
	ID   string `path:"id" doc:"Folder ID"`
	Body FolderRequest
}

// === Handlers ===

func (s *Server) handleCreateFolder(ctx context.Context, input *FolderInput) (*FolderOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	folder, err := s.services.Folder.Create(ctx, userID, service.FolderRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &FolderOutput{Body: mapFolder(folder)}, nil
}

func (s *Server) handleListFolders(ctx context.Context, _ *struct{}) (*FolderListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	folders, err := s.services.Folder.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &FolderListOutput{}
	out.Body.Folders = make([]FolderResponse, 0, len(folders))
	for _, folder := range folders {
		out.Body.Folders = append(out.Body.Folders, mapFolder(folder))
	}
	return out, nil
}

func (s *Server) handleGetFolder(ctx context.Context, input *FolderIDInput) (*FolderOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	folder, err := s.services.Folder.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &FolderOutput{Body: mapFolder(folder)}, nil
}

func (s *Server) handleRenameFolder(ctx context.Context, input *RenameFolderInput) (*FolderOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	folder, err := s.services.Folder.Rename(ctx, userID, input.ID, service.FolderRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &FolderOutput{Body: mapFolder(folder)}, nil
}

func (s *Server) handleDeleteFolder(ctx context.Context, input *FolderIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Folder.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "pasta removida"}}, nil
}

func mapFolder(folder *domain.Folder) FolderResponse {
	return FolderResponse{
		ID:        folder.ID,
		Name:      folder.Name,
		CreatedAt: folder.CreatedAt,
		UpdatedAt: folder.UpdatedAt,
	}
}
