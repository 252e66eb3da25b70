package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageLog records a single usage event for a product.
type UsageLog struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:usage_logs_product_id_idx"`
	Date            time.Time `gorm:"column:date;not null"`
	DurationMinutes *int      `gorm:"column:duration_minutes"`
	Notes           *string   `gorm:"column:notes"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
