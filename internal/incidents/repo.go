package incidents

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	"github.com/monoshelf/monoshelf-backend/pkg/pagination"
)

// Repository encapsulates incident report persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an incidents repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListPageByProduct returns a cursor page of incidents, newest date first.
func (r *Repository) ListPageByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.IncidentReport, *string, error) {
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("date DESC").
		Order("id DESC")

	if decodedCursor != nil {
		query = query.Where(
			"(date < ?) OR (date = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID,
		)
	}

	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	if limitWithBuffer > 0 {
		query = query.Limit(limitWithBuffer)
	}

	var rows []models.IncidentReport
	if err := query.Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if params.Unbounded() || len(rows) < limitWithBuffer {
		return rows, nil, nil
	}

	rows = rows[:limitWithBuffer-1]
	last := rows[len(rows)-1]
	next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.Date, ID: last.ID})
	return rows, &next, nil
}

// CountByProduct reports how many incidents a product has accumulated.
func (r *Repository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.IncidentReport{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// Create inserts the incident report, generating an ID when the caller left it zero.
func (r *Repository) Create(ctx context.Context, incident *models.IncidentReport) error {
	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(incident).Error
}
