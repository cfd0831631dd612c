package service

import (
	"context"
	"fmt"

	"quickfix/internal/auth"
	"quickfix/internal/errors"
	"quickfix/internal/model"
	"quickfix/internal/repository"
)

// UserService exposes the admin user-moderation operations.
type UserService interface {
	ListUsers(ctx context.Context, ident auth.Identity) ([]model.UserSummary, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// ListUsers returns every account with its role. Admin only.
func (s *userService) ListUsers(ctx context.Context, ident auth.Identity) ([]model.UserSummary, error) {
	if ident.Role != model.RoleAdmin {
		return nil, errors.ErrForbidden
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	summaries := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, model.UserSummary{
			UserID:   u.ID,
			FullName: u.FullName,
			Email:    u.Email,
			Role:     u.Role,
		})
	}
	return summaries, nil
}
