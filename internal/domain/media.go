package domain

import "time"

// Media is an uploaded file stored under the public uploads directory.
// Blurhash is set for images only and lets clients render a placeholder
// before the file loads.
type Media struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	Blurhash     string    `json:"blurhash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
