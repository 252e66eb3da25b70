package lifecycle

import (
	"math"
	"time"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
)

// Summary bundles the derived lifecycle metrics returned with a product.
// Everything here is recomputed on read; nothing is persisted.
type Summary struct {
	WarrantyEndDate       *time.Time `json:"warranty_end_date,omitempty"`
	DaysUntilWarrantyEnd  *int       `json:"days_until_warranty_end,omitempty"`
	ExpectedEndOfLifeDate *time.Time `json:"expected_end_of_life_date,omitempty"`
	DaysUntilEndOfLife    *int       `json:"days_until_end_of_life,omitempty"`
	TotalUsageMinutes     int        `json:"total_usage_minutes"`
	UsageProgressPercent  int        `json:"usage_progress_percent"`
}

// Compute derives the full metric summary for a product and its usage history.
func Compute(product *models.Product, logs []models.UsageLog, now time.Time) Summary {
	summary := Summary{}
	if product == nil {
		return summary
	}

	summary.WarrantyEndDate = WarrantyEndDate(product)
	summary.DaysUntilWarrantyEnd = DaysUntil(summary.WarrantyEndDate, now)
	summary.ExpectedEndOfLifeDate = ExpectedEndOfLifeDate(product)
	summary.DaysUntilEndOfLife = DaysUntil(summary.ExpectedEndOfLifeDate, now)
	summary.TotalUsageMinutes = TotalUsageMinutes(logs)
	summary.UsageProgressPercent = UsageLifespanProgressPercent(product, summary.TotalUsageMinutes)
	return summary
}

// WarrantyEndDate is the purchase date advanced by the warranty period, or nil
// when either input is absent.
func WarrantyEndDate(product *models.Product) *time.Time {
	if product == nil || product.PurchaseDate == nil || product.WarrantyMonths == nil {
		return nil
	}
	end := product.PurchaseDate.AddDate(0, *product.WarrantyMonths, 0)
	return &end
}

// ExpectedEndOfLifeDate is the purchase date advanced by the expected lifespan,
// or nil when either input is absent.
func ExpectedEndOfLifeDate(product *models.Product) *time.Time {
	if product == nil || product.PurchaseDate == nil || product.ExpectedLifespanYears == nil {
		return nil
	}
	end := product.PurchaseDate.AddDate(*product.ExpectedLifespanYears, 0, 0)
	return &end
}

// DaysUntil counts whole days from reference to target, rounding up. Past
// targets yield negative counts. Nil target yields nil.
func DaysUntil(target *time.Time, reference time.Time) *int {
	if target == nil {
		return nil
	}
	days := int(math.Ceil(target.Sub(reference).Hours() / 24))
	return &days
}

// TotalUsageMinutes sums log durations, counting logs without a duration as zero.
func TotalUsageMinutes(logs []models.UsageLog) int {
	total := 0
	for _, log := range logs {
		if log.DurationMinutes != nil {
			total += *log.DurationMinutes
		}
	}
	return total
}

// UsageLifespanProgressPercent reports how much of the expected usage budget has
// been consumed, rounded to the nearest percent and capped at 100. Products
// without a usage budget, a zero budget, or no recorded usage report 0.
func UsageLifespanProgressPercent(product *models.Product, totalUsageMinutes int) int {
	if product == nil || product.ExpectedUsageHours == nil || *product.ExpectedUsageHours == 0 {
		return 0
	}
	if totalUsageMinutes <= 0 {
		return 0
	}
	budget := float64(*product.ExpectedUsageHours) * 60
	percent := int(math.Round(float64(totalUsageMinutes) / budget * 100))
	if percent > 100 {
		return 100
	}
	return percent
}
