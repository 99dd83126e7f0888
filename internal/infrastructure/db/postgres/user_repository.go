package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// poolIface is the subset of *pgxpool.Pool the repository needs. Each call
// acquires a pooled connection and releases it before returning.
type poolIface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// UserRepository implements ports.UserRepository on the users table.
type UserRepository struct {
	pool    poolIface
	timeout time.Duration
}

// NewUserRepository creates a UserRepository. A positive timeout bounds each
// statement, including the wait for a free pool connection.
func NewUserRepository(pool poolIface, timeout time.Duration) *UserRepository {
	return &UserRepository{pool: pool, timeout: timeout}
}

// FindByUsername returns the record with exactly this username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		id   int64
		user domain.User
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&id, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_FAILED").
			With("operation", "select user by username").
			With("username", username).
			Wrap(classify(err))
	}

	user.ID = strconv.FormatInt(id, 10)
	return &user, nil
}

// Create inserts user and returns it with the store-assigned id. The
// UNIQUE(username) constraint surfaces as domain.ErrDuplicateUsername.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	created := *user
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, user.Username, user.PasswordHash).Scan(&id, &created.CreatedAt)
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(classify(err))
	}

	created.ID = strconv.FormatInt(id, 10)
	return &created, nil
}

// Ping reports whether a pooled connection can reach the server.
func (r *UserRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

func (r *UserRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// classify maps driver errors onto domain errors. Only failures to reach the
// server (dial errors, timeouts, pool waits) become domain.ErrStoreUnavailable;
// anything else, scan errors included, is returned as is.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateUsername, pgErr.ConstraintName)
		}
		return err
	}
	if unreachable(err) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

func unreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
