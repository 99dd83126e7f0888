package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
	log    zerolog.Logger

	// dummyHash is checked when the username is unknown, so a failed login
	// costs one hash comparison whether or not the account exists.
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, log zerolog.Logger) *AuthService {
	dummy, err := hasher.Hash("dummy-password")
	if err != nil {
		log.Warn().Err(err).Msg("could not precompute dummy hash")
	}
	return &AuthService{repo: repo, hasher: hasher, issuer: issuer, log: log, dummyHash: dummy}
}

// Register creates an account for username. An existing username yields
// domain.ErrDuplicateUsername, whether found by the lookup or reported by
// the store's uniqueness constraint on insert.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	// 1. Exact-match lookup.
	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrDuplicateUsername
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: lookup user: %w", err)
	}

	// 2. Hash.
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	// 3. Persist. A concurrent registration may have won the race since the
	// lookup; the store reports that as ErrDuplicateUsername.
	created, err := s.repo.Create(ctx, &domain.User{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login verifies the credentials and returns a signed session token.
// Unknown usernames and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.Identity())
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.log.Debug().Str("user_id", user.ID).Msg("session token issued")
	return token, user, nil
}
