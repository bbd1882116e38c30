package gormdb

import (
	"time"

	"github.com/blogdesk/admin-api/internal/core/domain"
)

type postRow struct {
	ID            uint   `gorm:"primaryKey"`
	Title         string `gorm:"size:255;not null"`
	Description   string `gorm:"size:255;not null"`
	Status        int    `gorm:"not null"`
	UserID        *uint  `gorm:"index"`
	CreatedUserID uint   `gorm:"not null;index"`
	UpdatedUserID uint   `gorm:"not null"`
	DeletedUserID *uint
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time `gorm:"index"`
}

func (postRow) TableName() string { return "posts" }

type userRow struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:255;not null"`
	Email         string `gorm:"size:255;not null;uniqueIndex"`
	Password      string `gorm:"size:255;not null"`
	Type          string `gorm:"size:1;not null"`
	Phone         string `gorm:"size:20"`
	Address       string `gorm:"size:255"`
	DOB           *time.Time
	Profile       string `gorm:"size:255"`
	CreatedUserID *uint  `gorm:"index"`
	UpdatedUserID *uint
	DeletedUserID *uint
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time `gorm:"index"`
}

func (userRow) TableName() string { return "users" }

func newPostRow(p *domain.Post) *postRow {
	return &postRow{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Status:        p.Status,
		UserID:        p.OwnerID,
		CreatedUserID: p.CreatedUserID,
		UpdatedUserID: p.UpdatedUserID,
		DeletedUserID: p.DeletedUserID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		DeletedAt:     p.DeletedAt,
	}
}

func (r *postRow) toDomain() *domain.Post {
	return &domain.Post{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Status:        r.Status,
		OwnerID:       r.UserID,
		CreatedUserID: r.CreatedUserID,
		UpdatedUserID: r.UpdatedUserID,
		DeletedUserID: r.DeletedUserID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		DeletedAt:     r.DeletedAt,
	}
}

func newUserRow(u *domain.User) *userRow {
	return &userRow{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Password:      u.PasswordHash,
		Type:          u.Type,
		Phone:         u.Phone,
		Address:       u.Address,
		DOB:           u.DOB,
		Profile:       u.Profile,
		CreatedUserID: u.CreatedUserID,
		UpdatedUserID: u.UpdatedUserID,
		DeletedUserID: u.DeletedUserID,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		DeletedAt:     u.DeletedAt,
	}
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		PasswordHash:  r.Password,
		Type:          r.Type,
		Phone:         r.Phone,
		Address:       r.Address,
		DOB:           r.DOB,
		Profile:       r.Profile,
		CreatedUserID: r.CreatedUserID,
		UpdatedUserID: r.UpdatedUserID,
		DeletedUserID: r.DeletedUserID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		DeletedAt:     r.DeletedAt,
	}
}
