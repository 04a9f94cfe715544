package service

import (
	"context"
	"fmt"

	"github.com/trackrec/records-backend-go/internal/models"
	"github.com/trackrec/records-backend-go/internal/repository"
)

// UserService handles user profile business logic
type UserService struct {
	users *repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Upsert creates or refreshes the profile of an external user
func (s *UserService) Upsert(ctx context.Context, profile models.User) (*models.User, error) {
	if profile.ExternalID == "" {
		return nil, fmt.Errorf("external id is required")
	}
	id, err := s.users.Upsert(ctx, profile)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}
