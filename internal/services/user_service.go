package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"rentals/internal/models"
	"rentals/internal/repositories"
)

// UserService handles account administration.
type UserService struct {
	repo repositories.UserRepository
	log  logrus.FieldLogger
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, log logrus.FieldLogger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// List retrieves every account.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// DeleteAccount removes the caller's own account and everything it owns.
func (s *UserService) DeleteAccount(ctx context.Context, caller *models.Identity) error {
	if err := s.repo.Delete(ctx, caller.ID); err != nil {
		return err
	}
	s.log.WithField("user_id", caller.ID).Info("Account deleted")
	return nil
}
