package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a registered belonging. Every product belongs to exactly one
// user; usage logs and incident reports hang off it with cascade delete.
type Product struct {
	ID                    uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index:products_user_id_idx"`
	Name                  string           `gorm:"column:name;not null"`
	ModelNumber           *string          `gorm:"column:model_number"`
	PurchaseDate          *time.Time       `gorm:"column:purchase_date"`
	Category              *string          `gorm:"column:category"`
	Manufacturer          *string          `gorm:"column:manufacturer"`
	WarrantyMonths        *int             `gorm:"column:warranty_months"`
	ExpectedLifespanYears *int             `gorm:"column:expected_lifespan_years"`
	ExpectedUsageHours    *int             `gorm:"column:expected_usage_hours"`
	Notes                 *string          `gorm:"column:notes"`
	PurchasePrice         *decimal.Decimal `gorm:"column:purchase_price;type:numeric(12,2)"`
	ImageURL              *string          `gorm:"column:image_url"`
	ManualURL             *string          `gorm:"column:manual_url"`
	UsageLogs             []UsageLog       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	IncidentReports       []IncidentReport `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
