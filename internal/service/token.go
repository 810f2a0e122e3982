package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"blog_api/internal/models"
	"blog_api/internal/repository"
)

const (
	DefaultTokenTTL = time.Hour

	// tokens closer than this to expiry are replaced instead of reused
	tokenReuseMargin = 60 * time.Second
	tokenBytes       = 24
	revokeBackdate   = time.Second
)

// TokenManager issues and revokes the opaque bearer token stored on a user.
// Check-then-write is not atomic: concurrent issuers may both mint, last write wins.
type TokenManager struct {
	store  repository.TokenStore
	now    func() time.Time
	random io.Reader
}

func NewTokenManager(store repository.TokenStore) *TokenManager {
	return &TokenManager{
		store:  store,
		now:    time.Now,
		random: rand.Reader,
	}
}

// IssueOrReuse returns the user's token if it stays valid for more than a minute,
// otherwise mints and persists a new one valid for expiresIn (DefaultTokenTTL when <= 0).
func (m *TokenManager) IssueOrReuse(ctx context.Context, u *models.User, expiresIn time.Duration) (string, error) {
	now := m.now().UTC()
	if u.Token != "" && u.TokenExpiration.After(now.Add(tokenReuseMargin)) {
		return u.Token, nil
	}
	if expiresIn <= 0 {
		expiresIn = DefaultTokenTTL
	}

	token, err := m.newToken()
	if err != nil {
		return "", err
	}
	expiresAt := now.Add(expiresIn)
	if err := m.store.SaveToken(ctx, u.ID, token, expiresAt); err != nil {
		return "", err
	}

	u.Token = token
	u.TokenExpiration = expiresAt
	return token, nil
}

// Revoke expires the token one second in the past. The token string is kept.
func (m *TokenManager) Revoke(ctx context.Context, u *models.User) error {
	expiresAt := m.now().UTC().Add(-revokeBackdate)
	if err := m.store.SaveToken(ctx, u.ID, u.Token, expiresAt); err != nil {
		return err
	}
	u.TokenExpiration = expiresAt
	return nil
}

func (m *TokenManager) newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(m.random, buf); err != nil {
		return "", fmt.Errorf("read random token bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
