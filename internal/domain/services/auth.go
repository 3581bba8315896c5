package services

import (
	"context"

	"docvault/internal/domain/models"
)

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the issued bearer token and the authenticated user.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// AuthService authenticates accounts and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
}
