package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// UserRepository stores each user as one JSON value keyed by username.
// Key format: users:username:<username>
// SETNX on that key is the uniqueness constraint.
type UserRepository struct {
	client *redis.Client
}

// NewUserRepository creates a UserRepository wrapping the given Redis client.
func NewUserRepository(client *redis.Client) *UserRepository {
	return &UserRepository{client: client}
}

type redisUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	CreatedAt int64  `json:"created_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	record := redisUser{
		ID:        uuid.NewString(),
		Username:  user.Username,
		Password:  user.PasswordHash,
		CreatedAt: time.Now().UTC().Unix(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(user.Username), payload, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if !ok {
		return nil, domain.ErrDuplicateUsername
	}

	return record.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	payload, err := r.client.Get(ctx, r.key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w: %w", domain.ErrStoreUnavailable, err)
	}

	var record redisUser
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode user %q: %w", username, err)
	}
	return record.toDomain(), nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *UserRepository) key(username string) string {
	return "users:username:" + username
}

func (u redisUser) toDomain() *domain.User {
	user := &domain.User{ID: u.ID, Username: u.Username, PasswordHash: u.Password}
	if u.CreatedAt != 0 {
		user.CreatedAt = time.Unix(u.CreatedAt, 0).UTC()
	}
	return user
}
