package api

import (
	"io"
	"net/http"

	"github.com/estetoscopio/esteto-server/internal/http/response"
)

// handleUpload accepts a multipart file upload and stores it as media.
// This stays outside huma: multipart streaming does not fit its typed
// request model.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		response.Unauthorized(w, "autenticação necessária", s.logger)
		return
	}

	filename, data, ok := s.readMultipartFile(w, r)
	if !ok {
		return
	}

	media, err := s.services.Upload.Upload(r.Context(), userID, filename, data)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, media, s.logger)
}

// handleListUploads returns the caller's uploads, newest first.
func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		response.Unauthorized(w, "autenticação necessária", s.logger)
		return
	}

	media, err := s.services.Upload.List(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, media, s.logger)
}

// handleAnkiImport accepts a multipart .apkg upload and imports its decks.
func (s *Server) handleAnkiImport(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		response.Unauthorized(w, "autenticação necessária", s.logger)
		return
	}

	filename, data, ok := s.readMultipartFile(w, r)
	if !ok {
		return
	}

	result, err := s.services.Anki.Import(r.Context(), userID, filename, data)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, result, s.logger)
}

// readMultipartFile extracts the "file" part from a multipart request.
// It writes the error response itself and reports success via ok.
func (s *Server) readMultipartFile(w http.ResponseWriter, r *http.Request) (filename string, data []byte, ok bool) {
	// Cap the request body before parsing; oversize requests fail here
	// instead of buffering to disk first.
	r.Body = http.MaxBytesReader(w, r.Body, s.uploadMax+4096)

	if err := r.ParseMultipartForm(s.uploadMax); err != nil {
		response.BadRequest(w, "corpo multipart inválido ou arquivo grande demais", s.logger)
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "campo de arquivo ausente", s.logger)
		return "", nil, false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		s.logger.Error("failed to read uploaded file", "error", err)
		response.InternalError(w, "falha ao ler o arquivo enviado", s.logger)
		return "", nil, false
	}

	return header.Filename, data, true
}
