package service

import (
	"context"

	"blog_api/internal/models"
	"blog_api/internal/repository"
)

type UserService struct {
	users repository.Users
}

func NewUserService(users repository.Users) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// DeleteUser removes the user and all posts it authored.
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}
