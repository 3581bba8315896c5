package auth

import "docvault/internal/domain/models"

// TokenVerifier validates a bearer token and returns its claims. The
// middleware only depends on this interface, so deployments can swap the
// local HS256 verifier for a JWKS-backed one without touching handlers.
type TokenVerifier interface {
	// VerifyToken validates a JWT string and returns the parsed claims.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases resources held by the verifier.
	Close() error
}
