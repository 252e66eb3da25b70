package ownership

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
)

type fakeFinder struct {
	products map[uuid.UUID]*models.Product
	err      error
}

func (f *fakeFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func codeOf(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	domainErr := pkgerrors.As(err)
	if domainErr == nil {
		t.Fatalf("expected domain error, got %v", err)
	}
	return domainErr.Code()
}

func TestRequireOwnerReturnsOwnedProduct(t *testing.T) {
	owner := uuid.New()
	productID := uuid.New()
	guard, err := NewGuard(&fakeFinder{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, UserID: owner, Name: "Washing Machine"},
	}})
	if err != nil {
		t.Fatalf("new guard failed: %v", err)
	}

	product, err := guard.RequireOwner(context.Background(), owner, productID)
	if err != nil {
		t.Fatalf("expected access, got %v", err)
	}
	if product.ID != productID {
		t.Fatalf("wrong product returned: %s", product.ID)
	}
}

func TestRequireOwnerMissingProductReadsAsNotFound(t *testing.T) {
	guard, _ := NewGuard(&fakeFinder{products: map[uuid.UUID]*models.Product{}})

	_, err := guard.RequireOwner(context.Background(), uuid.New(), uuid.New())
	if codeOf(t, err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRequireOwnerForeignProductReadsAsForbidden(t *testing.T) {
	productID := uuid.New()
	guard, _ := NewGuard(&fakeFinder{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, UserID: uuid.New()},
	}})

	_, err := guard.RequireOwner(context.Background(), uuid.New(), productID)
	if codeOf(t, err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRequireOwnerValidatesIdentifiers(t *testing.T) {
	guard, _ := NewGuard(&fakeFinder{})

	_, err := guard.RequireOwner(context.Background(), uuid.Nil, uuid.New())
	if codeOf(t, err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for missing user, got %v", err)
	}

	_, err = guard.RequireOwner(context.Background(), uuid.New(), uuid.Nil)
	if codeOf(t, err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for missing product id, got %v", err)
	}
}
