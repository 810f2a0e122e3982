package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"blog_api/internal/models"
)

var (
	// ErrDuplicate is returned when a UNIQUE constraint rejects a write.
	ErrDuplicate = errors.New("duplicate value")
	ErrNotFound  = errors.New("record not found")
)

type Users interface {
	Create(ctx context.Context, u *models.User) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByToken(ctx context.Context, token string) (*models.User, error)
	Delete(ctx context.Context, id int) (bool, error)
	TokenStore
}

// TokenStore persists the token pair of a single user.
type TokenStore interface {
	SaveToken(ctx context.Context, userID int, token string, expiresAt time.Time) error
}

type Posts interface {
	Create(ctx context.Context, p *models.Post) (int, error)
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]models.Post, error)
	ListByUser(ctx context.Context, userID int) ([]models.Post, error)
	ListSince(ctx context.Context, afterID, limit int) ([]models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id int) (bool, error)
}

type Repository struct {
	Users Users
	Posts Posts
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
		Posts: NewPostRepository(db),
	}
}

// isUniqueViolation matches the SQLite constraint message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
