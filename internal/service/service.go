package service

import (
	"context"
	"errors"
	"time"

	"blog_api/internal/models"
	"blog_api/internal/repository"
)

// Domain errors shared by all services.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("username or email already taken")
	ErrInvalidToken    = errors.New("invalid token")
	ErrPostNotFound    = errors.New("post not found")
	ErrForbidden       = errors.New("not the author of this post")
)

// ValidationError reports bad caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

type Authorization interface {
	SignUp(ctx context.Context, in SignUpInput) (int, error)
	SignIn(ctx context.Context, username, password string) (string, time.Time, error)
	SignOut(ctx context.Context, userID int) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type Users interface {
	GetUser(ctx context.Context, id int) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type Posts interface {
	CreatePost(ctx context.Context, authorID int, in PostInput) (*models.Post, error)
	GetPost(ctx context.Context, id int) (*models.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error)
	ListUserPosts(ctx context.Context, userID int) ([]models.Post, error)
	ListPostsSince(ctx context.Context, afterID, limit int) ([]models.Post, error)
	UpdatePost(ctx context.Context, actorID, id int, in PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, actorID, id int) error
}

type Service struct {
	Authorization
	Users
	Posts
}

// Options tunes the services built by NewService.
type Options struct {
	TokenTTL time.Duration
	ImageURL ImageURLFunc
}

func NewService(repos *repository.Repository, opts Options) *Service {
	tokens := NewTokenManager(repos.Users)
	return &Service{
		Authorization: NewAuthService(repos.Users, tokens, BcryptHasher{}, opts.TokenTTL),
		Users:         NewUserService(repos.Users),
		Posts:         NewPostService(repos.Posts, opts.ImageURL),
	}
}
