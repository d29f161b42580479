package services

import (
	"errors"

	"expense-tracker-api/internal/models"
	"expense-tracker-api/internal/repositories"
)

var ErrUserNotFound = errors.New("user not found")

type userService struct {
	userRepo repositories.UserRepositoryInterface
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepositoryInterface) UserServiceInterface {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
