package domain

import "time"

// User models a registered account. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Identity is the trusted result of token verification.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Identity returns the identity a session token is bound to.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username}
}
