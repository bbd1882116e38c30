package ports

import (
	"context"
	"time"

	"github.com/blogdesk/admin-api/internal/core/domain"
)

// UserInput carries the validated values of a user form. Password is ignored on update.
type UserInput struct {
	Name     string
	Email    string
	Password string
	Type     string
	Phone    string
	Address  string
	DOB      *time.Time
	// Profile is the permanent path of an upload promoted in this cycle, if any.
	Profile string
}

// ListUsersInput carries the user list screen parameters.
type ListUsersInput struct {
	Name     string
	Email    string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
}

// UserSummary is the row shown on the user list screen.
type UserSummary struct {
	ID              uint
	Name            string
	Email           string
	Role            string
	Phone           string
	Address         string
	DOB             *time.Time
	CreatedUserName string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListUsersResult is returned by ListUsers.
type ListUsersResult struct {
	Items      []UserSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserDetail is the full user view.
type UserDetail struct {
	User            domain.User
	Role            string
	ProfileURL      string
	CreatedUserName string
	UpdatedUserName string
}

// UserService defines use-case operations for user accounts.
type UserService interface {
	CreateUser(ctx context.Context, actor domain.Actor, in UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, actor domain.Actor, id uint, in UserInput) (*domain.User, error)
	// CheckUser applies the create (id 0) or update rules without persisting.
	CheckUser(ctx context.Context, actor domain.Actor, id uint, in UserInput) error
	SoftDeleteUser(ctx context.Context, actor domain.Actor, id uint) error
	GetUser(ctx context.Context, actor domain.Actor, id uint) (*UserDetail, error)
	ListUsers(ctx context.Context, actor domain.Actor, in ListUsersInput) (*ListUsersResult, error)
	// ChangePassword fails with domain.ErrWrongPassword without mutating anything
	// when current does not match the stored hash.
	ChangePassword(ctx context.Context, userID uint, current, next string) error
}
