package products

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	"github.com/monoshelf/monoshelf-backend/pkg/pagination"
)

// Repository encapsulates product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a product regardless of owner. Ownership checks live in the
// guard, which needs to see foreign products to tell forbidden from missing.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByUser returns the user's products newest first. A zero limit returns
// the full list; otherwise a cursor page plus the next cursor when more rows exist.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Product, *string, error) {
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")

	if decodedCursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID,
		)
	}

	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	if limitWithBuffer > 0 {
		query = query.Limit(limitWithBuffer)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if params.Unbounded() || len(rows) < limitWithBuffer {
		return rows, nil, nil
	}

	rows = rows[:limitWithBuffer-1]
	last := rows[len(rows)-1]
	next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	return rows, &next, nil
}

// Create inserts the product, generating an ID when the caller left it zero.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateFields applies the supplied column updates and returns the fresh row.
// The write clause is scoped to the owner even though the guard already ran.
func (r *Repository) UpdateFields(ctx context.Context, userID, productID uuid.UUID, updates map[string]any) (*models.Product, error) {
	if len(updates) == 0 {
		updates = map[string]any{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}

	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND user_id = ?", productID, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, productID)
}

// Delete removes the product and its usage logs and incident reports in one
// transaction. The product delete is scoped to the owner.
func (r *Repository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.UsageLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.IncidentReport{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ?", productID, userID).Delete(&models.Product{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
