package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity anchor created on first OAuth sign-in.
type User struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GitHubID    int64      `gorm:"column:github_id;not null;uniqueIndex"`
	Login       string     `gorm:"column:login;not null"`
	Name        string     `gorm:"column:name;not null"`
	Email       string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	AvatarURL   *string    `gorm:"column:avatar_url"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
