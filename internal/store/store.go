package store

import (
	"context"

	"github.com/estetoscopio/esteto-server/internal/domain"
)

// Store is the persistence contract the service layer depends on.
// The SQLite backend in the sqlite subpackage is the only implementation.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Decks
	CreateDeck(ctx context.Context, d *domain.Deck) error
	GetDeck(ctx context.Context, ownerID, deckID string) (*domain.Deck, error)
	ListDecks(ctx context.Context, ownerID string, folderID *string) ([]*domain.Deck, error)
	UpdateDeck(ctx context.Context, d *domain.Deck) error
	MoveDeck(ctx context.Context, ownerID, deckID string, folderID *string) error
	DeleteDeck(ctx context.Context, ownerID, deckID string) error
	SetDeckTags(ctx context.Context, deckID string, tagIDs []string) error

	// Folders
	CreateFolder(ctx context.Context, f *domain.Folder) error
	GetFolder(ctx context.Context, ownerID, folderID string) (*domain.Folder, error)
	ListFolders(ctx context.Context, ownerID string) ([]*domain.Folder, error)
	UpdateFolder(ctx context.Context, f *domain.Folder) error
	DeleteFolder(ctx context.Context, ownerID, folderID string) error

	// Tags
	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTagByID(ctx context.Context, ownerID, tagID string) (*domain.Tag, error)
	GetTagBySlug(ctx context.Context, ownerID, slug string) (*domain.Tag, error)
	ListTags(ctx context.Context, ownerID string) ([]*domain.Tag, error)
	DeleteTag(ctx context.Context, ownerID, tagID string) error

	// Communities
	CreateCommunity(ctx context.Context, c *domain.Community) error
	GetCommunity(ctx context.Context, communityID string) (*domain.Community, error)
	ListCommunities(ctx context.Context) ([]*domain.Community, error)
	GetMembership(ctx context.Context, communityID, userID string) (*domain.CommunityMember, error)
	JoinCommunity(ctx context.Context, communityID, userID string) error
	LeaveCommunity(ctx context.Context, communityID, userID string) error
	DeleteCommunity(ctx context.Context, communityID, userID string) error

	// Media
	CreateMedia(ctx context.Context, m *domain.Media) error
	GetMedia(ctx context.Context, mediaID string) (*domain.Media, error)
	ListMedia(ctx context.Context, ownerID string) ([]*domain.Media, error)

	Close() error
}
