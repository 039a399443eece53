package domain

import "time"

// Deck is a named collection of flashcards owned by a user.
// Cards is an opaque serialized payload (JSON produced by the editor or the
// Anki importer); the server stores and returns it without interpreting
// individual cards.
type Deck struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Cards       string    `json:"cards"`
	FolderID    *string   `json:"folder_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Tags are loaded alongside the deck for list and detail responses.
	Tags []Tag `json:"tags,omitempty"`
}

// Folder is a user-defined grouping container for decks.
type Folder struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
