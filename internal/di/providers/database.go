package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/estetoscopio/esteto-server/internal/config"
	"github.com/estetoscopio/esteto-server/internal/logger"
	"github.com/estetoscopio/esteto-server/internal/search"
	"github.com/estetoscopio/esteto-server/internal/store/sqlite"
)

// StoreHandle wraps the SQLite store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store wired to the search index.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "esteto.db")
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	// Deck writes flow through to the search index.
	db.SetSearchIndexer(indexHandle.DeckIndex)

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// SearchIndexHandle wraps the deck search index with shutdown capability.
type SearchIndexHandle struct {
	*search.DeckIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve deck index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewDeckIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Deck search index initialized", "documents", docCount)

	return &SearchIndexHandle{DeckIndex: index}, nil
}
