package providers

import (
	"github.com/samber/do/v2"

	"github.com/estetoscopio/esteto-server/internal/config"
	"github.com/estetoscopio/esteto-server/internal/logger"
	"github.com/estetoscopio/esteto-server/internal/media"
)

// ProvideMediaStorage provides the uploads storage directory.
func ProvideMediaStorage(i do.Injector) (*media.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := media.NewStorage(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}

	log.Info("Upload storage initialized", "path", cfg.Upload.Dir)

	return storage, nil
}
