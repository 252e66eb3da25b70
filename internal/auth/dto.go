package auth

import (
	"github.com/monoshelf/monoshelf-backend/internal/users"
)

// SignInRequest carries the GitHub OAuth authorization code from the frontend callback.
type SignInRequest struct {
	Code string `json:"code" validate:"required"`
}

// SignInResponse contains the token pair and user produced by a successful sign-in.
type SignInResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest rotates an expired access token using the paired refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse mirrors SignInResponse without re-fetching the profile.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
