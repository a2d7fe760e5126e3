package share

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	tokenBytes = 32

	DefaultExpiryDays = 7
	MaxExpiryDays     = 365

	pathPrefix = "/share/"
)

var (
	ErrInvalidExpiry = errors.New("invalid share expiry")
	ErrExpired       = errors.New("share link expired")
)

var sharePathPattern = regexp.MustCompile(`^/share/([a-f0-9]+)$`)

// Link grants read-only access to one user's sleep data until ExpiresAt.
type Link struct {
	ID        string    `json:"id"`
	Token     string    `json:"share_token"`
	UserID    string    `json:"user_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateToken returns 32 random bytes as lowercase hex.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewLink creates a link for userID that expires expiryDays after now.
// A zero expiryDays uses DefaultExpiryDays.
func NewLink(userID string, expiryDays int, now time.Time) (Link, error) {
	if expiryDays == 0 {
		expiryDays = DefaultExpiryDays
	}
	if expiryDays < 0 || expiryDays > MaxExpiryDays {
		return Link{}, fmt.Errorf("%w: %d days (must be 1-%d)", ErrInvalidExpiry, expiryDays, MaxExpiryDays)
	}

	token, err := GenerateToken()
	if err != nil {
		return Link{}, err
	}

	now = now.UTC()
	return Link{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.AddDate(0, 0, expiryDays),
		CreatedAt: now,
	}, nil
}

func (l Link) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// Check returns ErrExpired once the link is past its expiry.
func (l Link) Check(now time.Time) error {
	if l.Expired(now) {
		return ErrExpired
	}
	return nil
}

// URL is the public address of a share token under baseURL.
func URL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + pathPrefix + token
}

// ExtractToken returns the token of a /share/<token> path.
func ExtractToken(path string) (string, bool) {
	m := sharePathPattern.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func IsSharePath(path string) bool {
	return sharePathPattern.MatchString(path)
}

// TokenFromURL accepts either a full share URL or a bare token.
func TokenFromURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if IsValidToken(raw) {
		return raw, true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	return ExtractToken(u.Path)
}

func IsValidToken(s string) bool {
	if len(s) != tokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil && strings.ToLower(s) == s
}
