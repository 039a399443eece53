package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/estetoscopio/esteto-server/internal/api"
	"github.com/estetoscopio/esteto-server/internal/auth"
	"github.com/estetoscopio/esteto-server/internal/config"
	"github.com/estetoscopio/esteto-server/internal/logger"
	"github.com/estetoscopio/esteto-server/internal/media"
	"github.com/estetoscopio/esteto-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	storage := do.MustInvoke[*media.Storage](i)

	services := &api.Services{
		Auth:      do.MustInvoke[*service.AuthService](i),
		Deck:      do.MustInvoke[*service.DeckService](i),
		Folder:    do.MustInvoke[*service.FolderService](i),
		Tag:       do.MustInvoke[*service.TagService](i),
		Community: do.MustInvoke[*service.CommunityService](i),
		Upload:    do.MustInvoke[*service.UploadService](i),
		Anki:      do.MustInvoke[*service.AnkiService](i),
	}

	handler := api.NewServer(api.Options{
		Store:         storeHandle.Store,
		Services:      services,
		Tokens:        tokens,
		Storage:       storage,
		Logger:        log.Logger,
		ServerName:    cfg.Server.Name,
		SecureCookies: cfg.IsProduction(),
		UploadMax:     cfg.Upload.MaxBytes,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
