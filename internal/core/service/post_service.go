package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

type PostService struct {
	posts     ports.PostRepository
	users     ports.UserRepository
	validator *forms.Validator
	pageSize  int
	now       func() time.Time
	logger    zerolog.Logger
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, pageSize int, logger zerolog.Logger) *PostService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &PostService{
		posts:     posts,
		users:     users,
		validator: forms.NewValidator(),
		pageSize:  pageSize,
		now:       time.Now,
		logger:    logger,
	}
}

// CreatePost persists a new published post owned by the actor.
func (s *PostService) CreatePost(ctx context.Context, actor domain.Actor, in ports.PostInput) (*domain.Post, error) {
	post := s.newPost(actor, in.Title, in.Description, domain.PostPublished)

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Uint("actor_id", actor.ID).Msg("failed to create post")
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info().Uint("post_id", post.ID).Uint("actor_id", actor.ID).Msg("post created")
	return post, nil
}

// UpdatePost overwrites the mutable fields of a post. The status comes from the
// value staged during preview.
func (s *PostService) UpdatePost(ctx context.Context, actor domain.Actor, id uint, in ports.PostInput) (*domain.Post, error) {
	post, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Description = in.Description
	post.Status = domain.StatusFromBool(in.Status)
	post.UpdatedUserID = actor.ID
	post.UpdatedAt = s.now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.logger.Info().Uint("post_id", post.ID).Uint("actor_id", actor.ID).Int("status", post.Status).Msg("post updated")
	return post, nil
}

func (s *PostService) SoftDeletePost(ctx context.Context, actor domain.Actor, id uint) error {
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	if err := s.posts.SoftDelete(ctx, id, actor.ID, s.now().UTC()); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.logger.Info().Uint("post_id", id).Uint("actor_id", actor.ID).Msg("post deleted")
	return nil
}

func (s *PostService) GetPost(ctx context.Context, actor domain.Actor, id uint) (*ports.PostDetail, error) {
	post, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	names := newUserNames(s.users)
	return &ports.PostDetail{
		Post:            *post,
		CreatedUserName: names.email(ctx, post.CreatedUserID),
		UpdatedUserName: names.email(ctx, post.UpdatedUserID),
	}, nil
}

// ListPosts returns one page of posts. Users without the admin role only see
// the posts they created.
func (s *PostService) ListPosts(ctx context.Context, actor domain.Actor, in ports.ListPostsInput) (*ports.ListPostsResult, error) {
	page, limit := normalizePage(in.Page, s.pageSize)

	posts, total, err := s.posts.List(ctx, ports.PostFilter{
		Keyword:       in.Keyword,
		CreatedUserID: scopeOf(actor),
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	names := newUserNames(s.users)
	items := make([]ports.PostSummary, 0, len(posts))
	for _, p := range posts {
		items = append(items, ports.PostSummary{
			ID:              p.ID,
			Title:           p.Title,
			Description:     p.Description,
			Status:          p.Status,
			CreatedUserID:   p.CreatedUserID,
			CreatedUserName: names.email(ctx, p.CreatedUserID),
			CreatedAt:       p.CreatedAt,
		})
	}

	return &ports.ListPostsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *PostService) ExportCSV(ctx context.Context, actor domain.Actor, w io.Writer) error {
	posts, _, err := s.posts.List(ctx, ports.PostFilter{CreatedUserID: scopeOf(actor)})
	if err != nil {
		return fmt.Errorf("export posts: %w", err)
	}
	if err := writePostsCSV(w, posts); err != nil {
		return fmt.Errorf("export posts: %w", err)
	}
	s.logger.Info().Uint("actor_id", actor.ID).Int("rows", len(posts)).Msg("posts exported")
	return nil
}

// ImportCSV parses r and creates one post per data row in a single
// transaction. Any malformed row rejects the whole file with forms.Errors.
func (s *PostService) ImportCSV(ctx context.Context, actor domain.Actor, r io.Reader) (int, error) {
	rows, err := readPostsCSV(r)
	if err != nil {
		return 0, err
	}

	posts := make([]*domain.Post, 0, len(rows))
	for _, row := range rows {
		if errs := s.validator.Validate(&forms.PostForm{Title: row.Title, Description: row.Description}); !errs.OK() {
			return 0, forms.NonField(fmt.Sprintf("line %d: %s", row.Line, errs.Error()))
		}
		posts = append(posts, s.newPost(actor, row.Title, row.Description, row.Status))
	}

	if len(posts) == 0 {
		return 0, nil
	}
	if err := s.posts.CreateMany(ctx, posts); err != nil {
		s.logger.Error().Err(err).Uint("actor_id", actor.ID).Msg("csv import failed")
		return 0, fmt.Errorf("import posts: %w", err)
	}

	s.logger.Info().Uint("actor_id", actor.ID).Int("rows", len(posts)).Msg("posts imported")
	return len(posts), nil
}

func (s *PostService) newPost(actor domain.Actor, title, description string, status int) *domain.Post {
	now := s.now().UTC()
	owner := actor.ID
	return &domain.Post{
		Title:         title,
		Description:   description,
		Status:        status,
		OwnerID:       &owner,
		CreatedUserID: actor.ID,
		UpdatedUserID: actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// load fetches a live post the actor may act on.
func (s *PostService) load(ctx context.Context, actor domain.Actor, id uint) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	if !actor.IsAdmin() && post.CreatedUserID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return post, nil
}

// scopeOf returns the creator filter applied to list queries for actor.
func scopeOf(actor domain.Actor) uint {
	if actor.IsAdmin() {
		return 0
	}
	return actor.ID
}

// userNames memoises user email lookups for the lifetime of one request.
type userNames struct {
	repo  ports.UserRepository
	cache map[uint]string
}

func newUserNames(repo ports.UserRepository) *userNames {
	return &userNames{repo: repo, cache: make(map[uint]string)}
}

func (n *userNames) email(ctx context.Context, id uint) string {
	if id == 0 {
		return ""
	}
	if v, ok := n.cache[id]; ok {
		return v
	}
	var email string
	if u, err := n.repo.FindByID(ctx, id); err == nil {
		email = u.Email
	}
	n.cache[id] = email
	return email
}
