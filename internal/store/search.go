package store

import "github.com/estetoscopio/esteto-server/internal/domain"

// SearchIndexer keeps an external search index in sync with deck writes.
// The store calls it after successful mutations; indexing failures are logged
// and never fail the write.
type SearchIndexer interface {
	IndexDeck(deck *domain.Deck) error
	DeleteDeck(deckID string) error
}

// NewNoopSearchIndexer returns an indexer that does nothing.
// Used until the real index is wired in, and in tests.
func NewNoopSearchIndexer() SearchIndexer {
	return noopSearchIndexer{}
}

type noopSearchIndexer struct{}

func (noopSearchIndexer) IndexDeck(*domain.Deck) error { return nil }
func (noopSearchIndexer) DeleteDeck(string) error      { return nil }
