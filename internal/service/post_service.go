package service

import (
	"context"
	"errors"
	"strings"

	"blog_api/internal/models"
	"blog_api/internal/repository"
)

const maxTitleLen = 50

// PostInput is used for create and update. On update, empty fields keep their value.
type PostInput struct {
	Title    string
	Body     string
	ImageURL string
}

type PostService struct {
	posts    repository.Posts
	imageURL ImageURLFunc
}

// NewPostService uses RandomPhoto when imageURL is nil.
func NewPostService(posts repository.Posts, imageURL ImageURLFunc) *PostService {
	if imageURL == nil {
		imageURL = RandomPhoto
	}
	return &PostService{posts: posts, imageURL: imageURL}
}

func (s *PostService) CreatePost(ctx context.Context, authorID int, in PostInput) (*models.Post, error) {
	in = trimPostInput(in)
	if err := requireLen("title", in.Title, maxTitleLen); err != nil {
		return nil, err
	}
	if in.Body == "" {
		return nil, &ValidationError{Field: "body", Reason: "is required"}
	}
	if in.ImageURL == "" {
		in.ImageURL = s.imageURL()
	}

	p := &models.Post{
		Title:    in.Title,
		Body:     in.Body,
		ImageURL: in.ImageURL,
		UserID:   authorID,
	}
	if _, err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	// reload to pick up the author columns
	return s.GetPost(ctx, p.ID)
}

func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.posts.List(ctx, limit, offset)
}

func (s *PostService) ListUserPosts(ctx context.Context, userID int) ([]models.Post, error) {
	return s.posts.ListByUser(ctx, userID)
}

func (s *PostService) ListPostsSince(ctx context.Context, afterID, limit int) ([]models.Post, error) {
	return s.posts.ListSince(ctx, afterID, limit)
}

func (s *PostService) UpdatePost(ctx context.Context, actorID, id int, in PostInput) (*models.Post, error) {
	p, err := s.ownedPost(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	in = trimPostInput(in)
	if in.Title != "" {
		if err := requireLen("title", in.Title, maxTitleLen); err != nil {
			return nil, err
		}
		p.Title = in.Title
	}
	if in.Body != "" {
		p.Body = in.Body
	}
	if in.ImageURL != "" {
		p.ImageURL = in.ImageURL
	}

	if err := s.posts.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PostService) DeletePost(ctx context.Context, actorID, id int) error {
	if _, err := s.ownedPost(ctx, actorID, id); err != nil {
		return err
	}
	deleted, err := s.posts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPostNotFound
	}
	return nil
}

func (s *PostService) ownedPost(ctx context.Context, actorID, id int) (*models.Post, error) {
	p, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != actorID {
		return nil, ErrForbidden
	}
	return p, nil
}

func trimPostInput(in PostInput) PostInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}
