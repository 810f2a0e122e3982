package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"blog_api/internal/models"
	"blog_api/internal/repository"
)

// SignUpInput carries the fields needed to register a user.
type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
}

// AuthService handles user auth logic
type AuthService struct {
	users    repository.Users
	tokens   *TokenManager
	hasher   PasswordHasher
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(users repository.Users, tokens *TokenManager, hasher PasswordHasher, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// SignUp hashes password and creates a new user
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (int, error) {
	in = normalizeSignUp(in)
	if err := validateSignUp(in); err != nil {
		return 0, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, &ValidationError{Field: "password", Reason: err.Error()}
	}

	id, err := s.users.Create(ctx, &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, ErrUserExists
		}
		return 0, err
	}
	return id, nil
}

// SignIn validates credentials and returns the user's bearer token with its expiry.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (string, time.Time, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", time.Time{}, err
	}
	if u == nil {
		return "", time.Time{}, ErrUserNotFound
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return "", time.Time{}, ErrInvalidPassword
	}

	token, err := s.tokens.IssueOrReuse(ctx, u, s.tokenTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token for %q: %w", u.Username, err)
	}
	return token, u.TokenExpiration, nil
}

// SignOut revokes the token of userID.
func (s *AuthService) SignOut(ctx context.Context, userID int) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	return s.tokens.Revoke(ctx, u)
}

// Authenticate resolves a bearer token to its still-valid holder.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	u, err := s.users.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.HasValidToken(s.now().UTC()) {
		return nil, ErrInvalidToken
	}
	return u, nil
}

func normalizeSignUp(in SignUpInput) SignUpInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	return in
}

// column limits of the users table
const (
	maxNameLen     = 50
	maxEmailLen    = 75
	maxUsernameLen = 50
)

func validateSignUp(in SignUpInput) error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"firstName", in.FirstName, maxNameLen},
		{"lastName", in.LastName, maxNameLen},
		{"email", in.Email, maxEmailLen},
		{"username", in.Username, maxUsernameLen},
	} {
		if err := requireLen(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	if !strings.Contains(in.Email, "@") {
		return &ValidationError{Field: "email", Reason: "must contain @"}
	}
	return nil
}

func requireLen(field, value string, max int) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}
