package models

import (
	"time"

	"github.com/google/uuid"
)

// IncidentReport records a single incident or review event for a product.
type IncidentReport struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:incident_reports_product_id_idx"`
	Date        time.Time `gorm:"column:date;not null"`
	Description string    `gorm:"column:description;not null"`
	Severity    *string   `gorm:"column:severity"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
