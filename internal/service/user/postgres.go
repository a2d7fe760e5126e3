package user

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type PostgresService struct {
	pool *pgxpool.Pool
}

var _ Service = (*PostgresService)(nil)

func NewPostgresService(pool *pgxpool.Pool) *PostgresService {
	return &PostgresService{pool: pool}
}

func (s *PostgresService) ValidateAPIKey(ctx context.Context, apiKey string) (*ValidatedUser, error) {
	var (
		validated ValidatedUser
		revoked   bool
		banned    bool
	)
	err := s.pool.QueryRow(ctx, `
		SELECT k.id, k.user_id, k.revoked, u.banned
		FROM api_keys k
		JOIN users u ON u.id = k.user_id
		WHERE k.key_hash = $1`,
		HashSecret(apiKey),
	).Scan(&validated.APIKeyID, &validated.UserID, &revoked, &banned)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAPIKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting API key by hash: %w", err)
	}

	if revoked {
		return nil, ErrAPIKeyRevoked
	}
	if banned {
		return nil, ErrUserBanned
	}

	return &validated, nil
}

func (s *PostgresService) CreateUser(ctx context.Context, name string) (string, string, error) {
	userID := uuid.NewString()

	apiKey, err := generateAPIKey()
	if err != nil {
		return "", "", err
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO users (id, name) VALUES ($1, $2)`, userID, name); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrUserExists
			}
			return fmt.Errorf("creating user: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO api_keys (user_id, key_hash, name) VALUES ($1, $2, $3)`,
			userID, HashSecret(apiKey), "default",
		); err != nil {
			return fmt.Errorf("creating API key: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}

	return userID, apiKey, nil
}

func (s *PostgresService) CreateAPIKey(ctx context.Context, userID string, name string) (string, error) {
	apiKey, err := generateAPIKey()
	if err != nil {
		return "", err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO api_keys (user_id, key_hash, name) VALUES ($1, $2, $3)`,
		userID, HashSecret(apiKey), name,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("creating API key: %w", err)
	}
	return apiKey, nil
}

func (s *PostgresService) RevokeAPIKey(ctx context.Context, apiKeyID int64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE api_keys SET revoked = TRUE WHERE id = $1`, apiKeyID)
	if err != nil {
		return fmt.Errorf("revoking API key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

func (s *PostgresService) UpdateAPIKeyLastUsed(ctx context.Context, apiKeyID int64) error {
	if _, err := s.pool.Exec(ctx, `UPDATE api_keys SET last_used_at = NOW() WHERE id = $1`, apiKeyID); err != nil {
		return fmt.Errorf("updating API key last used: %w", err)
	}
	return nil
}

// HashSecret is the form in which API keys are stored and cached.
func HashSecret(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

const (
	apiKeyPrefix = "snz_"
	apiKeyLength = 32
)

func generateAPIKey() (string, error) {
	b := make([]byte, apiKeyLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random bytes: %w", err)
	}
	return apiKeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// IsAPIKey reports whether s has the shape of a generated key.
func IsAPIKey(s string) bool {
	encoded, ok := strings.CutPrefix(s, apiKeyPrefix)
	if !ok || encoded == "" {
		return false
	}
	b, err := base64.RawURLEncoding.DecodeString(encoded)
	return err == nil && len(b) == apiKeyLength
}
