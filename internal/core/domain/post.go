package domain

import "time"

// Post status values as stored and exported.
const (
	PostUnpublished = 0
	PostPublished   = 1
)

// Post is a blog entry managed from the admin screens.
type Post struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        int        `json:"status"`
	OwnerID       *uint      `json:"user_id,omitempty"`
	CreatedUserID uint       `json:"created_user_id"`
	UpdatedUserID uint       `json:"updated_user_id"`
	DeletedUserID *uint      `json:"deleted_user_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the post carries a soft-delete marker.
func (p *Post) IsDeleted() bool {
	return p.DeletedAt != nil
}

// StatusFromBool maps a published checkbox onto the stored status value.
func StatusFromBool(published bool) int {
	if published {
		return PostPublished
	}
	return PostUnpublished
}
