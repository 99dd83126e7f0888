package ports

import "github.com/99minutos/auth-service/internal/core/domain"

// PasswordHasher hashes and checks plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. Malformed hashes are a
	// mismatch, not an error.
	Verify(password, hash string) bool
}

// TokenIssuer signs session tokens for an identity.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
}

// TokenVerifier validates a session token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}
