package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/auth"
	"docvault/internal/domain"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.LocalTokenService
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.LocalTokenService,
	logger *slog.Logger,
) services.AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, logger: logger}
}

// Login verifies credentials and issues a bearer token. Unknown accounts and
// wrong passwords produce the same error so the endpoint does not leak which
// emails exist.
func (s *authService) Login(ctx context.Context, req *services.LoginRequest) (*services.LoginResult, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, validation.Length(3, 254)),
		validation.Field(&req.Password, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.UnauthorizedError{Message: "invalid email or password"}
		}
		return nil, err
	}

	if !auth.CheckPassword(user.HashedPassword, req.Password) {
		s.logger.Warn("failed login attempt", "email", req.Email)
		return nil, &domain.UnauthorizedError{Message: "invalid email or password"}
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &services.LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}
