package user

import (
	"context"
	"errors"
)

var (
	ErrAPIKeyNotFound = errors.New("API key not found")
	ErrAPIKeyRevoked  = errors.New("API key has been revoked")
	ErrUserBanned     = errors.New("user account is banned")
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user already exists")
)

type ValidatedUser struct {
	UserID   string `json:"user_id"`
	APIKeyID int64  `json:"api_key_id"`
}

type Service interface {
	// ValidateAPIKey returns the user an API key belongs to.
	// Returns ErrAPIKeyNotFound if the key doesn't exist,
	// ErrAPIKeyRevoked if the key has been revoked,
	// or ErrUserBanned if the user account is banned.
	ValidateAPIKey(ctx context.Context, apiKey string) (*ValidatedUser, error)

	// CreateUser creates a user together with a default API key. The
	// plaintext key is only ever available from this call.
	CreateUser(ctx context.Context, name string) (userID string, apiKey string, err error)

	// CreateAPIKey issues an additional key for an existing user.
	CreateAPIKey(ctx context.Context, userID string, name string) (string, error)

	RevokeAPIKey(ctx context.Context, apiKeyID int64) error

	// UpdateAPIKeyLastUsed is typically called asynchronously after a
	// successful validation.
	UpdateAPIKeyLastUsed(ctx context.Context, apiKeyID int64) error
}
