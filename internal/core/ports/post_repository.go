package ports

import (
	"context"
	"time"

	"github.com/blogdesk/admin-api/internal/core/domain"
)

// PostFilter carries the query parameters for listing posts.
// Soft-deleted posts are always excluded.
type PostFilter struct {
	Keyword       string // optional: case-insensitive match on title or description
	CreatedUserID uint   // 0 = no filter; non-zero = scoped to posts created by that user
	Page          int    // 1-based
	Limit         int    // 0 = no pagination
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	// CreateMany inserts all posts in one transaction, or none of them.
	CreateMany(ctx context.Context, posts []*domain.Post) error
	// FindByID returns domain.ErrPostNotFound for missing or soft-deleted posts.
	FindByID(ctx context.Context, id uint) (*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) error
	SoftDelete(ctx context.Context, id, actorID uint, at time.Time) error
	// List returns a page of posts ordered by id and the total match count.
	List(ctx context.Context, filter PostFilter) ([]*domain.Post, int64, error)
}
