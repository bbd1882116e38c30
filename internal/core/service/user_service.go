package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

type UserService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	pageSize int
	now      func() time.Time
	logger   zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, pageSize int, logger zerolog.Logger) *UserService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &UserService{users: users, hasher: hasher, pageSize: pageSize, now: time.Now, logger: logger}
}

// CreateUser hashes the password and persists a new account created by actor.
func (s *UserService) CreateUser(ctx context.Context, actor domain.Actor, in ports.UserInput) (*domain.User, error) {
	if err := s.CheckUser(ctx, actor, 0, in); err != nil {
		return nil, err
	}

	email := forms.NormalizeEmail(in.Email)

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	actorID := actor.ID
	user := &domain.User{
		Name:          in.Name,
		Email:         email,
		PasswordHash:  hash,
		Type:          in.Type,
		Phone:         in.Phone,
		Address:       in.Address,
		DOB:           in.DOB,
		Profile:       in.Profile,
		CreatedUserID: &actorID,
		UpdatedUserID: &actorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Uint("actor_id", actor.ID).Msg("failed to create user")
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Uint("user_id", user.ID).Uint("actor_id", actor.ID).Msg("user created")
	return user, nil
}

// UpdateUser overwrites the profile fields of a user. The password is never
// touched and the profile image only changes when a new upload was promoted.
func (s *UserService) UpdateUser(ctx context.Context, actor domain.Actor, id uint, in ports.UserInput) (*domain.User, error) {
	if err := s.CheckUser(ctx, actor, id, in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound("find user", err)
	}

	email := forms.NormalizeEmail(in.Email)

	user.Name = in.Name
	user.Email = email
	user.Phone = in.Phone
	user.Address = in.Address
	user.DOB = in.DOB
	if actor.IsAdmin() {
		user.Type = in.Type
	}
	if in.Profile != "" {
		user.Profile = in.Profile
	}
	actorID := actor.ID
	user.UpdatedUserID = &actorID
	user.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info().Uint("user_id", user.ID).Uint("actor_id", actor.ID).Msg("user updated")
	return user, nil
}

// CheckUser runs the permission and unique-email rules of CreateUser (id 0)
// or UpdateUser without writing anything.
func (s *UserService) CheckUser(ctx context.Context, actor domain.Actor, id uint, in ports.UserInput) error {
	if id == 0 && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if id != 0 && !actor.CanUpdateUser(id) {
		return domain.ErrForbidden
	}

	other, err := s.users.FindByEmail(ctx, forms.NormalizeEmail(in.Email))
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check user email: %w", err)
	case other.ID != id:
		return domain.ErrUserExists
	}
	return nil
}

func (s *UserService) SoftDeleteUser(ctx context.Context, actor domain.Actor, id uint) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return wrapNotFound("find user", err)
	}
	if err := s.users.SoftDelete(ctx, id, actor.ID, s.now().UTC()); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info().Uint("user_id", id).Uint("actor_id", actor.ID).Msg("user deleted")
	return nil
}

// GetUser returns a user visible to the actor: admins see everyone, other
// users see themselves and the accounts they created.
func (s *UserService) GetUser(ctx context.Context, actor domain.Actor, id uint) (*ports.UserDetail, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound("find user", err)
	}
	if !actor.IsAdmin() && user.ID != actor.ID && (user.CreatedUserID == nil || *user.CreatedUserID != actor.ID) {
		return nil, domain.ErrForbidden
	}

	names := newUserNames(s.users)
	return &ports.UserDetail{
		User:            *user,
		Role:            domain.RoleLabel(user.Type),
		ProfileURL:      user.ProfileURL(),
		CreatedUserName: names.email(ctx, derefID(user.CreatedUserID)),
		UpdatedUserName: names.email(ctx, derefID(user.UpdatedUserID)),
	}, nil
}

func (s *UserService) ListUsers(ctx context.Context, actor domain.Actor, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	page, limit := normalizePage(in.Page, s.pageSize)

	filter := ports.UserFilter{
		Name:          in.Name,
		Email:         in.Email,
		CreatedFrom:   in.FromDate,
		CreatedUserID: scopeOf(actor),
		Page:          page,
		Limit:         limit,
	}
	if in.ToDate != nil {
		// to_date is inclusive of the whole day
		end := in.ToDate.AddDate(0, 0, 1)
		filter.CreatedTo = &end
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	names := newUserNames(s.users)
	items := make([]ports.UserSummary, 0, len(users))
	for _, u := range users {
		items = append(items, ports.UserSummary{
			ID:              u.ID,
			Name:            u.Name,
			Email:           u.Email,
			Role:            domain.RoleLabel(u.Type),
			Phone:           u.Phone,
			Address:         u.Address,
			DOB:             u.DOB,
			CreatedUserName: names.email(ctx, derefID(u.CreatedUserID)),
			CreatedAt:       u.CreatedAt,
			UpdatedAt:       u.UpdatedAt,
		})
	}

	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return wrapNotFound("find user", err)
	}

	if s.hasher.Compare(user.PasswordHash, current) != nil {
		s.logger.Warn().Uint("user_id", userID).Msg("password change rejected")
		return domain.ErrWrongPassword
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	self := user.ID
	user.PasswordHash = hash
	user.UpdatedUserID = &self
	user.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.logger.Info().Uint("user_id", userID).Msg("password changed")
	return nil
}

func wrapNotFound(op string, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func derefID(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
