package ports

import (
	"context"
	"time"

	"github.com/blogdesk/admin-api/internal/core/domain"
)

// UserFilter carries the query parameters for listing users.
type UserFilter struct {
	Name          string     // optional: case-insensitive partial match
	Email         string     // optional: case-insensitive partial match
	CreatedFrom   *time.Time // optional: created_at >= CreatedFrom
	CreatedTo     *time.Time // optional: created_at < CreatedTo
	CreatedUserID uint
	Page          int
	Limit         int
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create returns domain.ErrUserExists when the email is already registered.
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	// FindByEmail matches case-insensitively and skips soft-deleted users.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	SoftDelete(ctx context.Context, id, actorID uint, at time.Time) error
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
}
