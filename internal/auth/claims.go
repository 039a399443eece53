package auth

import "time"

// SessionClaims represents the claims stored in a PASETO session token.
// The token is v4.local, so claims are encrypted and unreadable without the key.
// Only the minimal identity needed to render the app shell goes in here;
// everything else is fetched from the store per request.
type SessionClaims struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}
