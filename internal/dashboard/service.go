package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/monoshelf/monoshelf-backend/internal/lifecycle"
	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
	"github.com/monoshelf/monoshelf-backend/pkg/pagination"
)

// warrantyAttentionWindow is how far ahead the dashboard warns about expiring warranties.
const warrantyAttentionWindow = 30

// ProductHighlight is a dashboard row for a product that needs attention.
type ProductHighlight struct {
	ProductID            uuid.UUID  `json:"product_id"`
	Name                 string     `json:"name"`
	WarrantyEndDate      *time.Time `json:"warranty_end_date,omitempty"`
	DaysUntilWarrantyEnd *int       `json:"days_until_warranty_end,omitempty"`
	UsageProgressPercent int        `json:"usage_progress_percent"`
}

// SummaryDTO aggregates the caller's whole shelf into one payload.
type SummaryDTO struct {
	TotalProducts      int                `json:"total_products"`
	TotalUsageMinutes  int                `json:"total_usage_minutes"`
	TotalIncidents     int64              `json:"total_incidents"`
	ActiveWarranties   int                `json:"active_warranties"`
	ExpiringWarranties []ProductHighlight `json:"expiring_warranties"`
}

// Service computes the cross-product dashboard summary.
type Service interface {
	Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error)
}

type productLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Product, *string, error)
}

type usageLogLister interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.UsageLog, error)
}

type incidentCounter interface {
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type service struct {
	products  productLister
	usageLogs usageLogLister
	incidents incidentCounter
}

// ServiceParams groups dependencies for the dashboard service.
type ServiceParams struct {
	Products  productLister
	UsageLogs usageLogLister
	Incidents incidentCounter
}

// NewService builds a dashboard service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, fmt.Errorf("product lister is required")
	}
	if params.UsageLogs == nil {
		return nil, fmt.Errorf("usage log lister is required")
	}
	if params.Incidents == nil {
		return nil, fmt.Errorf("incident counter is required")
	}
	return &service{
		products:  params.Products,
		usageLogs: params.UsageLogs,
		incidents: params.Incidents,
	}, nil
}

// Summary walks every owned product and folds its usage and incident data into
// one aggregate. Per-product load failures are combined and surfaced together.
func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	products, _, err := s.products.ListByUser(ctx, userID, pagination.Params{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	now := time.Now().UTC()
	summary := &SummaryDTO{
		TotalProducts:      len(products),
		ExpiringWarranties: []ProductHighlight{},
	}

	var loadErrs error
	for i := range products {
		product := &products[i]

		logs, err := s.usageLogs.ListByProduct(ctx, product.ID)
		if err != nil {
			loadErrs = multierr.Append(loadErrs, fmt.Errorf("usage logs for %s: %w", product.ID, err))
			continue
		}
		incidentCount, err := s.incidents.CountByProduct(ctx, product.ID)
		if err != nil {
			loadErrs = multierr.Append(loadErrs, fmt.Errorf("incidents for %s: %w", product.ID, err))
			continue
		}

		metrics := lifecycle.Compute(product, logs, now)
		summary.TotalUsageMinutes += metrics.TotalUsageMinutes
		summary.TotalIncidents += incidentCount

		if metrics.DaysUntilWarrantyEnd == nil {
			continue
		}
		remaining := *metrics.DaysUntilWarrantyEnd
		if remaining >= 0 {
			summary.ActiveWarranties++
		}
		if remaining >= 0 && remaining <= warrantyAttentionWindow {
			summary.ExpiringWarranties = append(summary.ExpiringWarranties, ProductHighlight{
				ProductID:            product.ID,
				Name:                 product.Name,
				WarrantyEndDate:      metrics.WarrantyEndDate,
				DaysUntilWarrantyEnd: metrics.DaysUntilWarrantyEnd,
				UsageProgressPercent: metrics.UsageProgressPercent,
			})
		}
	}

	if loadErrs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, loadErrs, "aggregate dashboard")
	}
	return summary, nil
}
