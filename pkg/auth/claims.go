package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims is the JWT claim set carried by every API request.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"uid"`
	Login  string    `json:"login,omitempty"`
	jwt.RegisteredClaims
}

// AccessTokenPayload is the input used to mint an access token.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Login  string
	JTI    string
}
