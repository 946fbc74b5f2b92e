package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims are the JWT claims carried by a bearer token. Subject holds
// the user's email, matching what the issuing side writes.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

// Identity is the authenticated caller extracted from a verified token.
// A zero Identity means the request is anonymous.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// IsAnonymous reports whether no authenticated user is attached.
func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}
