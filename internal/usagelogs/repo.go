package usagelogs

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	"github.com/monoshelf/monoshelf-backend/pkg/pagination"
)

// Repository encapsulates usage log persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a usage log repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByProduct returns the full usage history for a product, newest date first.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.UsageLog, error) {
	var rows []models.UsageLog
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("date DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPageByProduct returns a cursor page of usage logs, newest created first.
func (r *Repository) ListPageByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.UsageLog, *string, error) {
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

	var rows []models.UsageLog
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

// Create inserts the usage log, generating an ID when the caller left it zero.
func (r *Repository) Create(ctx context.Context, log *models.UsageLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(log).Error
}
