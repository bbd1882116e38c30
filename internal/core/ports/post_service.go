package ports

import (
	"context"
	"io"
	"time"

	"github.com/blogdesk/admin-api/internal/core/domain"
)

// PostInput carries the validated values of a post form.
type PostInput struct {
	Title       string
	Description string
	Status      bool
}

// ListPostsInput carries the list screen parameters.
type ListPostsInput struct {
	Keyword string
	Page    int
}

// PostSummary is the row shown on the post list screen.
type PostSummary struct {
	ID              uint
	Title           string
	Description     string
	Status          int
	CreatedUserID   uint
	CreatedUserName string
	CreatedAt       time.Time
}

// ListPostsResult is returned by ListPosts.
type ListPostsResult struct {
	Items      []PostSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PostDetail is the full post view including the names of the audit actors.
type PostDetail struct {
	Post            domain.Post
	CreatedUserName string
	UpdatedUserName string
}

// PostService defines use-case operations for posts.
type PostService interface {
	CreatePost(ctx context.Context, actor domain.Actor, in PostInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, actor domain.Actor, id uint, in PostInput) (*domain.Post, error)
	SoftDeletePost(ctx context.Context, actor domain.Actor, id uint) error
	GetPost(ctx context.Context, actor domain.Actor, id uint) (*PostDetail, error)
	ListPosts(ctx context.Context, actor domain.Actor, in ListPostsInput) (*ListPostsResult, error)
	// ExportCSV writes every visible, non-deleted post as CSV.
	ExportCSV(ctx context.Context, actor domain.Actor, w io.Writer) error
	// ImportCSV creates one post per data row, or nothing when any row is malformed.
	ImportCSV(ctx context.Context, actor domain.Actor, r io.Reader) (int, error)
}
