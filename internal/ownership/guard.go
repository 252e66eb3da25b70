package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
)

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Guard enforces per-user access to products and everything hanging off them.
// A missing product reads as not-found; a product owned by someone else reads
// as forbidden, never as not-found.
type Guard struct {
	products productFinder
}

// NewGuard builds the ownership guard over the product lookup.
func NewGuard(products productFinder) (*Guard, error) {
	if products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	return &Guard{products: products}, nil
}

// RequireOwner loads the product and verifies the caller owns it. The loaded
// product is returned so callers avoid a second lookup.
func (g *Guard) RequireOwner(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := g.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if product.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another user")
	}
	return product, nil
}
