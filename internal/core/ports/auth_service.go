package ports

import (
	"context"

	"github.com/blogdesk/admin-api/internal/core/domain"
)

// SignUpInput carries a self-registration request.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	// Login returns domain.ErrEmailNotFound or domain.ErrInvalidCredentials on failure.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	SignUp(ctx context.Context, in SignUpInput) (string, *domain.User, error)
}
