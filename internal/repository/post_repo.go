package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog_api/internal/models"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

var _ Posts = (*PostRepository)(nil)

const (
	defaultPostLimit = 50
	maxPostLimit     = 200
)

const (
	insertPostSQL = `INSERT INTO posts (title, body, image_url, date_created, user_id) VALUES (?, ?, ?, ?, ?)`

	selectPostsSQL = `SELECT p.id, p.title, p.body, p.image_url, p.date_created, p.user_id,
		u.id, u.first_name, u.last_name, u.email, u.username
		FROM posts p JOIN users u ON u.id = p.user_id`

	selectPostByIDSQL     = selectPostsSQL + ` WHERE p.id = ?`
	selectPostsPageSQL    = selectPostsSQL + ` ORDER BY p.date_created DESC, p.id DESC LIMIT ? OFFSET ?`
	selectPostsByUserSQL  = selectPostsSQL + ` WHERE p.user_id = ? ORDER BY p.date_created DESC, p.id DESC`
	selectPostsSinceIDSQL = selectPostsSQL + ` WHERE p.id > ? ORDER BY p.id ASC LIMIT ?`

	updatePostSQL = `UPDATE posts SET title = ?, body = ?, image_url = ? WHERE id = ?`
	deletePostSQL = `DELETE FROM posts WHERE id = ?`
)

// clampLimit keeps page sizes within [1, maxPostLimit].
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultPostLimit
	case limit > maxPostLimit:
		return maxPostLimit
	default:
		return limit
	}
}

// Create inserts a post and returns its ID. DateCreated is set when zero.
func (r *PostRepository) Create(ctx context.Context, p *models.Post) (int, error) {
	created := p.DateCreated
	if created.IsZero() {
		created = time.Now().UTC()
	} else {
		created = created.UTC()
	}

	res, err := r.db.ExecContext(ctx, insertPostSQL, p.Title, p.Body, p.ImageURL, created, p.UserID)
	if err != nil {
		return 0, fmt.Errorf("insert post %q: %w", p.Title, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for post %q: %w", p.Title, err)
	}
	p.ID = int(lastID)
	p.DateCreated = created
	return p.ID, nil
}

// GetByID returns the post with its author. Returns (nil, nil) if not found.
func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var p models.Post
	err := scanPost(r.db.QueryRowContext(ctx, selectPostByIDSQL, id), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select post %d: %w", id, err)
	}
	return &p, nil
}

// List returns posts newest first.
func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	if offset < 0 {
		offset = 0
	}
	return r.query(ctx, "list posts", selectPostsPageSQL, clampLimit(limit), offset)
}

func (r *PostRepository) ListByUser(ctx context.Context, userID int) ([]models.Post, error) {
	return r.query(ctx, fmt.Sprintf("list posts of user %d", userID), selectPostsByUserSQL, userID)
}

// ListSince returns posts with id > afterID in ascending id order.
func (r *PostRepository) ListSince(ctx context.Context, afterID, limit int) ([]models.Post, error) {
	return r.query(ctx, "list posts since", selectPostsSinceIDSQL, afterID, clampLimit(limit))
}

func (r *PostRepository) Update(ctx context.Context, p *models.Post) error {
	res, err := r.db.ExecContext(ctx, updatePostSQL, p.Title, p.Body, p.ImageURL, p.ID)
	if err != nil {
		return fmt.Errorf("update post %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for post %d: %w", p.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update post %d: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deletePostSQL, id)
	if err != nil {
		return false, fmt.Errorf("delete post %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for post %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *PostRepository) query(ctx context.Context, what, q string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, 16)
	for rows.Next() {
		var p models.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", what, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner, p *models.Post) error {
	if err := row.Scan(
		&p.ID, &p.Title, &p.Body, &p.ImageURL, &p.DateCreated, &p.UserID,
		&p.Author.ID, &p.Author.FirstName, &p.Author.LastName, &p.Author.Email, &p.Author.Username,
	); err != nil {
		return err
	}
	p.DateCreated = p.DateCreated.UTC()
	return nil
}
