package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a PostRepository backed by the given connection.
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	row := newPostRow(p)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	p.ID = row.ID
	return nil
}

func (r *PostRepository) CreateMany(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	rows := make([]*postRow, len(posts))
	for i, p := range posts {
		rows[i] = newPostRow(p)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	for i, row := range rows {
		posts[i].ID = row.ID
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	var row postRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	res := r.db.WithContext(ctx).
		Model(&postRow{}).
		Where("id = ? AND deleted_at IS NULL", p.ID).
		Updates(map[string]any{
			"title":           p.Title,
			"description":     p.Description,
			"status":          p.Status,
			"updated_user_id": p.UpdatedUserID,
			"updated_at":      p.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) SoftDelete(ctx context.Context, id, actorID uint, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&postRow{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{
			"deleted_user_id": actorID,
			"deleted_at":      at,
		})
	if res.Error != nil {
		return fmt.Errorf("delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) List(ctx context.Context, filter ports.PostFilter) ([]*domain.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&postRow{}).Where("deleted_at IS NULL")
	if filter.CreatedUserID != 0 {
		q = q.Where("created_user_id = ?", filter.CreatedUserID)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	q = q.Order("id ASC")
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var rows []postRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	out := make([]*domain.Post, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, total, nil
}
