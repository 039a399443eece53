package domain

import "time"

// Community roles.
const (
	RoleCreator = "creator"
	RoleMember  = "member"
)

// Community is a shared space with a membership list.
// MemberCount is denormalized and maintained transactionally with membership
// changes; it always includes the creator.
type Community struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creator_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Private     bool      `json:"private"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommunityMember is the membership join entity.
type CommunityMember struct {
	CommunityID string    `json:"community_id"`
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}
