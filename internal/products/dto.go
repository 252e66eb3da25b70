package products

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/monoshelf/monoshelf-backend/internal/lifecycle"
	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
	"github.com/monoshelf/monoshelf-backend/pkg/types"
)

// ProductInput is the write payload for create and update. Every field is an
// OptionalString so the service can tell "absent" (keep prior value) apart
// from "present but null or blank" (clear to absent). Numeric fields arrive
// as strings and are parsed per field.
type ProductInput struct {
	Name                  types.OptionalString `json:"name"`
	ModelNumber           types.OptionalString `json:"model_number"`
	PurchaseDate          types.OptionalString `json:"purchase_date"`
	Category              types.OptionalString `json:"category"`
	Manufacturer          types.OptionalString `json:"manufacturer"`
	WarrantyMonths        types.OptionalString `json:"warranty_months"`
	ExpectedLifespanYears types.OptionalString `json:"expected_lifespan_years"`
	ExpectedUsageHours    types.OptionalString `json:"expected_usage_hours"`
	PurchasePrice         types.OptionalString `json:"purchase_price"`
	Notes                 types.OptionalString `json:"notes"`
	ImageURL              types.OptionalString `json:"image_url"`
	ManualURL             types.OptionalString `json:"manual_url"`
}

// ProductDTO is the transport shape for a stored product.
type ProductDTO struct {
	ID                    uuid.UUID        `json:"id"`
	Name                  string           `json:"name"`
	ModelNumber           *string          `json:"model_number,omitempty"`
	PurchaseDate          *time.Time       `json:"purchase_date,omitempty"`
	Category              *string          `json:"category,omitempty"`
	Manufacturer          *string          `json:"manufacturer,omitempty"`
	WarrantyMonths        *int             `json:"warranty_months,omitempty"`
	ExpectedLifespanYears *int             `json:"expected_lifespan_years,omitempty"`
	ExpectedUsageHours    *int             `json:"expected_usage_hours,omitempty"`
	PurchasePrice         *decimal.Decimal `json:"purchase_price,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	ImageURL              *string          `json:"image_url,omitempty"`
	ManualURL             *string          `json:"manual_url,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// ProductDetailDTO pairs a product with its derived lifecycle metrics.
type ProductDetailDTO struct {
	Product ProductDTO        `json:"product"`
	Metrics lifecycle.Summary `json:"metrics"`
}

// ProductsPageDTO is a cursor page of products.
type ProductsPageDTO struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

func FromModel(p *models.Product) ProductDTO {
	if p == nil {
		return ProductDTO{}
	}
	return ProductDTO{
		ID:                    p.ID,
		Name:                  p.Name,
		ModelNumber:           p.ModelNumber,
		PurchaseDate:          p.PurchaseDate,
		Category:              p.Category,
		Manufacturer:          p.Manufacturer,
		WarrantyMonths:        p.WarrantyMonths,
		ExpectedLifespanYears: p.ExpectedLifespanYears,
		ExpectedUsageHours:    p.ExpectedUsageHours,
		PurchasePrice:         p.PurchasePrice,
		Notes:                 p.Notes,
		ImageURL:              p.ImageURL,
		ManualURL:             p.ManualURL,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

// dateLayouts are accepted purchase date formats, most specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field).
		WithDetails(map[string]any{"field": field, "reason": message})
}

// text unwraps an optional field; absent, explicit null, and blank all come
// back as the empty string.
func text(value types.OptionalString) string {
	if value.Value == nil {
		return ""
	}
	return strings.TrimSpace(*value.Value)
}

func parseOptionalInt(field string, value types.OptionalString) (*int, error) {
	raw := text(value)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fieldError(field, "must be a whole number")
	}
	if parsed < 0 {
		return nil, fieldError(field, "must not be negative")
	}
	return &parsed, nil
}

func parseOptionalDecimal(field string, value types.OptionalString) (*decimal.Decimal, error) {
	raw := text(value)
	if raw == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fieldError(field, "must be a decimal number")
	}
	if parsed.IsNegative() {
		return nil, fieldError(field, "must not be negative")
	}
	return &parsed, nil
}

func parseOptionalDate(field string, value types.OptionalString) (*time.Time, error) {
	raw := text(value)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, fieldError(field, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

func optionalText(value types.OptionalString) *string {
	trimmed := text(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
