package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// AuthService is the account use case consumed by the HTTP handlers.
type AuthService interface {
	// Register stores a new account; domain.ErrDuplicateUsername if taken.
	Register(ctx context.Context, username, password string) (*domain.User, error)
	// Login returns a session token for valid credentials, or
	// domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
