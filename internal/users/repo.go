package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByGitHubID retrieves the user matching the provided GitHub account ID.
func (r *Repository) FindByGitHubID(ctx context.Context, githubID int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("github_id = ?", githubID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertFromGitHub creates the user on first sign-in and refreshes the synced
// profile fields on every subsequent one.
func (r *Repository) UpsertFromGitHub(ctx context.Context, profile GitHubProfile, now time.Time) (*models.User, error) {
	existing, err := r.FindByGitHubID(ctx, profile.GitHubID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing == nil {
		user := &models.User{
			ID:          uuid.New(),
			GitHubID:    profile.GitHubID,
			Login:       profile.Login,
			Name:        profile.Name,
			Email:       profile.Email,
			AvatarURL:   optionalString(profile.AvatarURL),
			LastLoginAt: &now,
		}
		if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
			return nil, err
		}
		return user, nil
	}

	updates := map[string]any{
		"login":         profile.Login,
		"name":          profile.Name,
		"email":         profile.Email,
		"avatar_url":    optionalString(profile.AvatarURL),
		"last_login_at": now,
	}
	if err := r.db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.FindByGitHubID(ctx, profile.GitHubID)
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
