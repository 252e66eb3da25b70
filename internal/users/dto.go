package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
)

// UserDTO is the transport shape for the authenticated user profile.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Login       string     `json:"login"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// GitHubProfile carries the identity fields synced from GitHub on sign-in.
type GitHubProfile struct {
	GitHubID  int64
	Login     string
	Name      string
	Email     string
	AvatarURL string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Login:       u.Login,
		Name:        u.Name,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
