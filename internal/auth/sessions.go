package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

// ErrTokenNotFound is returned when a refresh or reset token is unknown,
// expired, or already consumed.
var ErrTokenNotFound = errors.New("token not found")

const (
	refreshKeyPrefix = "auth:refresh:"
	resetKeyPrefix   = "auth:reset:"
)

// SessionStore keeps opaque refresh and password-reset tokens in Valkey,
// keyed token → user id, expiring with the configured TTLs. Tokens are
// consumed atomically (GETDEL), so every use rotates them.
type SessionStore struct {
	client     valkey.Client
	refreshTTL time.Duration
	resetTTL   time.Duration
}

func NewSessionStore(client valkey.Client, refreshTTL, resetTTL time.Duration) *SessionStore {
	return &SessionStore{client: client, refreshTTL: refreshTTL, resetTTL: resetTTL}
}

// CreateRefreshToken mints a new opaque refresh token for the user.
func (s *SessionStore) CreateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.createToken(ctx, refreshKeyPrefix, userID, s.refreshTTL)
}

// ConsumeRefreshToken redeems a refresh token, removing it so it cannot be
// replayed. The caller issues a replacement.
func (s *SessionStore) ConsumeRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	return s.consumeToken(ctx, refreshKeyPrefix, token)
}

// RevokeRefreshToken deletes a refresh token (logout). Unknown tokens are not
// an error.
func (s *SessionStore) RevokeRefreshToken(ctx context.Context, token string) error {
	resp := s.client.Do(ctx, s.client.B().Del().Key(refreshKeyPrefix+token).Build())
	if err := resp.Error(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// CreateResetToken mints a password-reset token for the user.
func (s *SessionStore) CreateResetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.createToken(ctx, resetKeyPrefix, userID, s.resetTTL)
}

// ConsumeResetToken redeems a password-reset token.
func (s *SessionStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	return s.consumeToken(ctx, resetKeyPrefix, token)
}

func (s *SessionStore) createToken(ctx context.Context, prefix string, userID uuid.UUID, ttl time.Duration) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	resp := s.client.Do(ctx, s.client.B().Set().
		Key(prefix+token).Value(userID.String()).
		Ex(ttl).Build())
	if err := resp.Error(); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

func (s *SessionStore) consumeToken(ctx context.Context, prefix, token string) (uuid.UUID, error) {
	resp := s.client.Do(ctx, s.client.B().Getdel().Key(prefix+token).Build())
	if err := resp.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return uuid.Nil, ErrTokenNotFound
		}
		return uuid.Nil, fmt.Errorf("consume token: %w", err)
	}

	raw, err := resp.ToString()
	if err != nil {
		return uuid.Nil, fmt.Errorf("read token value: %w", err)
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token value: %w", err)
	}
	return userID, nil
}
