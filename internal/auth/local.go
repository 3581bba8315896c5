package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
)

// LocalTokenService issues and verifies HS256 tokens with a shared secret.
// This is the default mode: the server is its own identity provider.
type LocalTokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewLocalTokenService creates the HS256 token service.
func NewLocalTokenService(secret, issuer string, ttl time.Duration, logger *slog.Logger) (*LocalTokenService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &LocalTokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// IssueToken signs a token for the user.
func (s *LocalTokenService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		DepartmentID:   user.DepartmentID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates an HS256 token.
func (s *LocalTokenService) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(t *jwt.Token) (interface{}, error) {
		// reject anything but our own algorithm
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Close implements TokenVerifier; nothing to release for the local service.
func (s *LocalTokenService) Close() error { return nil }

var _ TokenVerifier = (*LocalTokenService)(nil)
