package service

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/estetoscopio/esteto-server/internal/anki"
	"github.com/estetoscopio/esteto-server/internal/domain"
	domainerrors "github.com/estetoscopio/esteto-server/internal/errors"
	"github.com/estetoscopio/esteto-server/internal/id"
	"github.com/estetoscopio/esteto-server/internal/store"
)

// AnkiService imports Anki .apkg packages as decks.
type AnkiService struct {
	store    store.Store
	maxBytes int64
	logger   *slog.Logger
}

// NewAnkiService creates a new Anki import service.
func NewAnkiService(st store.Store, maxBytes int64, logger *slog.Logger) *AnkiService {
	return &AnkiService{
		store:    st,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// ImportResult summarizes an import.
type ImportResult struct {
	Decks     []*domain.Deck `json:"decks"`
	CardCount int            `json:"card_count"`
}

// Import parses an .apkg file and creates one deck per Anki deck found.
// Only the .apkg extension is accepted; parsing failures surface as
// validation errors since they mean a malformed upload, not a server fault.
func (s *AnkiService) Import(ctx context.Context, ownerID, filename string, data []byte) (*ImportResult, error) {
	if !strings.EqualFold(path.Ext(filename), ".apkg") {
		return nil, domainerrors.Validation("apenas arquivos .apkg são aceitos")
	}
	if len(data) == 0 {
		return nil, domainerrors.Validation("arquivo vazio")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, domainerrors.Validationf("arquivo excede o limite de %d bytes", s.maxBytes)
	}

	pkg, err := anki.Parse(data)
	if err != nil {
		return nil, domainerrors.Validation("não foi possível ler o pacote Anki").WithCause(err)
	}
	if pkg.CardCount() == 0 {
		return nil, domainerrors.Validation("o pacote não contém cartões")
	}

	result := &ImportResult{Decks: []*domain.Deck{}}

	for _, parsed := range pkg.Decks {
		if len(parsed.Cards) == 0 {
			continue
		}

		cards, err := json.Marshal(parsed.Cards)
		if err != nil {
			return nil, fmt.Errorf("serialize cards: %w", err)
		}

		deckID, err := id.New("deck")
		if err != nil {
			return nil, fmt.Errorf("generate deck ID: %w", err)
		}

		now := time.Now().UTC()
		deck := &domain.Deck{
			ID:        deckID,
			OwnerID:   ownerID,
			Title:     parsed.Name,
			Cards:     string(cards),
			CreatedAt: now,
			UpdatedAt: now,
			Tags:      []domain.Tag{},
		}

		if err := s.store.CreateDeck(ctx, deck); err != nil {
			return nil, err
		}

		result.Decks = append(result.Decks, deck)
		result.CardCount += len(parsed.Cards)
	}

	s.logger.Info("anki package imported",
		"owner_id", ownerID,
		"decks", len(result.Decks),
		"cards", result.CardCount,
	)

	return result, nil
}
