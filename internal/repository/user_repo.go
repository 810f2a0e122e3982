package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog_api/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	userColumns = `id, first_name, last_name, email, username, password_hash, date_created, token, token_expiration`

	insertUserSQL = `INSERT INTO users (first_name, last_name, email, username, password_hash, date_created) VALUES (?, ?, ?, ?, ?, ?)`

	selectUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	selectUserByTokenSQL    = `SELECT ` + userColumns + ` FROM users WHERE token = ?`

	updateUserTokenSQL = `UPDATE users SET token = ?, token_expiration = ? WHERE id = ?`

	deleteUserPostsSQL = `DELETE FROM posts WHERE user_id = ?`
	deleteUserSQL      = `DELETE FROM users WHERE id = ?`
)

// Create inserts a new user and returns its ID. DateCreated is set when zero.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (int, error) {
	created := u.DateCreated
	if created.IsZero() {
		created = time.Now().UTC()
	} else {
		created = created.UTC()
	}

	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.FirstName, u.LastName, u.Email, u.Username, u.PasswordHash, created)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert user %q: %w", u.Username, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", u.Username, err)
	}
	u.ID = int(lastID)
	u.DateCreated = created
	return u.ID, nil
}

// GetByID fetches a user by primary key. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// GetByToken fetches the holder of a bearer token, expired or not. Returns (nil, nil) if not found.
func (r *UserRepository) GetByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByTokenSQL, token))
	if err != nil {
		return nil, fmt.Errorf("select user by token: %w", err)
	}
	return u, nil
}

// SaveToken writes the token pair. An empty token is stored as NULL.
func (r *UserRepository) SaveToken(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	var tok, exp any
	if token != "" {
		tok = token
	}
	if !expiresAt.IsZero() {
		exp = expiresAt.UTC()
	}

	res, err := r.db.ExecContext(ctx, updateUserTokenSQL, tok, exp, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update token for user %d: %w", userID, ErrDuplicate)
		}
		return fmt.Errorf("update token for user %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %d: %w", userID, err)
	}
	if n == 0 {
		return fmt.Errorf("update token for user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// Delete removes the user together with every post it owns.
func (r *UserRepository) Delete(ctx context.Context, id int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete user %d: %w", id, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, deleteUserPostsSQL, id); err != nil {
		return false, fmt.Errorf("delete posts of user %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, deleteUserSQL, id)
	if err != nil {
		return false, fmt.Errorf("delete user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for user %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete user %d: %w", id, err)
	}
	return n > 0, nil
}

// scanUser maps sql.ErrNoRows to (nil, nil).
func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u     models.User
		token sql.NullString
		exp   sql.NullTime
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Username,
		&u.PasswordHash, &u.DateCreated, &token, &exp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.DateCreated = u.DateCreated.UTC()
	if token.Valid {
		u.Token = token.String
	}
	if exp.Valid {
		u.TokenExpiration = exp.Time.UTC()
	}
	return &u, nil
}
