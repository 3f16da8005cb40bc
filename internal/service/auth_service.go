package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-grocery-delivery/internal/model"
	"go-grocery-delivery/internal/repository"
	"go-grocery-delivery/pkg/jwt"
	"go-grocery-delivery/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrEmailExists        = fmt.Errorf("%w: email already exists", ErrValidation)
	ErrRoleNotAllowed     = fmt.Errorf("%w: role cannot be self-assigned", ErrValidation)
)

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type TokenValidationResponse struct {
	User model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	// 1. Validate request
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msg := validator.FirstError(req); msg != "" {
		return nil, validationError(msg)
	}

	// 2. Only customers and delivery partners sign themselves up
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, validationError(err.Error())
	}
	if role == model.RoleAdmin {
		return nil, ErrRoleNotAllowed
	}

	// 3. Check if email already exists
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{
		Name:  strings.TrimSpace(req.Name),
		Email: req.Email,
		Role:  role,
	}
	user.CreatedBy = "self"
	user.UpdatedBy = "self"

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	// A concurrent sign-up with the same email can still win the unique index
	if err := s.userRepo.Create(ctx, user); err != nil {
		if s.emailTaken(ctx, req.Email, err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) emailTaken(ctx context.Context, email string, createErr error) bool {
	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		return true
	}
	existing, err := s.userRepo.FindByEmail(ctx, email)
	return err == nil && existing != nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if email == "" || password == "" {
		return nil, validationError("email and password are required")
	}

	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Generate JWT token
	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	// 1. Validate JWT token
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// 2. Find user by ID from token claims
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &TokenValidationResponse{User: user.ToResponse()}, nil
}
