// Package api provides the HTTP API server and handlers for the Esteto application.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"log/slog"

	"github.com/estetoscopio/esteto-server/internal/auth"
	"github.com/estetoscopio/esteto-server/internal/media"
	"github.com/estetoscopio/esteto-server/internal/service"
	"github.com/estetoscopio/esteto-server/internal/store"
)

// Services bundles the application services the handlers depend on.
type Services struct {
	Auth      *service.AuthService
	Deck      *service.DeckService
	Folder    *service.FolderService
	Tag       *service.TagService
	Community *service.CommunityService
	Upload    *service.UploadService
	Anki      *service.AnkiService
}

// Options configures the HTTP server.
type Options struct {
	Store         store.Store
	Services      *Services
	Tokens        *auth.TokenService
	Storage       *media.Storage
	Logger        *slog.Logger
	ServerName    string
	SecureCookies bool
	UploadMax     int64
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *Services
	tokens   *auth.TokenService
	storage  *media.Storage
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger

	secureCookies   bool
	uploadMax       int64
	authRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	s := &Server{
		store:           opts.Store,
		services:        opts.Services,
		tokens:          opts.Tokens,
		storage:         opts.Storage,
		router:          chi.NewRouter(),
		logger:          opts.Logger,
		secureCookies:   opts.SecureCookies,
		uploadMax:       opts.UploadMax,
		authRateLimiter: NewRateLimiter(20, 10),
	}

	s.setupMiddleware()

	name := opts.ServerName
	if name == "" {
		name = "Esteto API"
	}
	humaConfig := huma.DefaultConfig(name, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"session": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.SessionCookieName,
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerDeckRoutes()
	s.registerFolderRoutes()
	s.registerTagRoutes()
	s.registerCommunityRoutes()
	s.setupRawRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(authMiddleware(s.tokens))
	s.router.Use(AccessControl())
}

// setupRawRoutes wires the handlers that work outside huma: multipart
// uploads, Anki package import, static upload serving, and the page shell.
func (s *Server) setupRawRoutes() {
	s.router.Post("/api/v1/uploads", s.handleUpload)
	s.router.Get("/api/v1/uploads", s.handleListUploads)
	s.router.Post("/api/v1/anki/import", s.handleAnkiImport)

	// Uploaded media is served without auth; filenames are unguessable.
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.storage.BasePath()))))

	// Minimal page shell. The real frontend is served separately; these
	// routes exist so the access-control middleware has pages to guard.
	s.router.Get("/", s.handlePageShell)
	s.router.Get("/login", s.handlePageShell)
	s.router.Get("/signup", s.handlePageShell)
	s.router.NotFound(s.handlePageShell)
}

func (s *Server) handlePageShell(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!DOCTYPE html><html><head><title>Estetoscópio</title></head><body><div id=\"app\"></div></body></html>\n"))
}
