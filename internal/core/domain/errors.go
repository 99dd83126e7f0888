package domain

import "errors"

var ErrDuplicateUsername = errors.New("username already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrMissingCredential = errors.New("authentication required")
var ErrInvalidToken = errors.New("invalid token")
var ErrUserNotFound = errors.New("user not found")

// ErrStoreUnavailable marks failures to reach the user store at all
// (pool exhausted, connection refused, timeout).
var ErrStoreUnavailable = errors.New("user store unavailable")
