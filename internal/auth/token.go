package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"loom/internal/domain"
	"loom/internal/domain/models"
)

// TokenManager issues and verifies HS256 bearer tokens. The subject claim
// carries the user's email; userId and role travel as custom claims.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager. The secret must be non-empty.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token for the given user.
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: user.ID,
		Role:   user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token, returning the caller's identity.
// Any parse or validation failure maps to ErrUnauthorized; callers decide
// whether that degrades the request to anonymous or rejects it.
func (m *TokenManager) Verify(tokenString string) (models.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || claims.UserID == "" || !claims.Role.Valid() {
		return models.Identity{}, domain.ErrUnauthorized
	}

	return models.Identity{
		UserID: claims.UserID,
		Email:  claims.Subject,
		Role:   claims.Role,
	}, nil
}
