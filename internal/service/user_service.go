package service

import (
	"context"
	"errors"
	"strings"

	"go-grocery-delivery/internal/model"
	"go-grocery-delivery/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	EnsureAdmin(ctx context.Context, email, password string, resetPassword bool) (*model.User, bool, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	response := user.ToResponse()
	return &response, nil
}

// EnsureAdmin creates the admin (vendor) account when missing. With
// resetPassword set, an existing account gets the given password again.
// The bool result reports whether anything was written.
func (s *userService) EnsureAdmin(ctx context.Context, email, password string, resetPassword bool) (*model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		return nil, false, validationError("admin email and a password of at least 6 characters are required")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !resetPassword {
			return existing, false, nil
		}
		if existing.Role != model.RoleAdmin {
			return nil, false, validationError("account exists but is not an admin")
		}
		if err := existing.SetPassword(password); err != nil {
			return nil, false, errors.New("failed to hash password")
		}
		existing.UpdatedBy = "system"
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, true, nil

	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	admin := &model.User{
		Name:  "Store Administrator",
		Email: email,
		Role:  model.RoleAdmin,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(password); err != nil {
		return nil, false, errors.New("failed to hash password")
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, false, err
	}
	return admin, true, nil
}
