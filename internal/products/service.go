package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monoshelf/monoshelf-backend/internal/lifecycle"
	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
	"github.com/monoshelf/monoshelf-backend/pkg/pagination"
	"github.com/monoshelf/monoshelf-backend/pkg/types"
)

// Service exposes the product operations behind the API.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (ProductsPageDTO, error)
	Get(ctx context.Context, userID, productID uuid.UUID) (*ProductDetailDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input ProductInput) (*ProductDTO, error)
	Update(ctx context.Context, userID, productID uuid.UUID, input ProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, userID, productID uuid.UUID) error
}

type repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Product, *string, error)
	Create(ctx context.Context, product *models.Product) error
	UpdateFields(ctx context.Context, userID, productID uuid.UUID, updates map[string]any) (*models.Product, error)
	Delete(ctx context.Context, userID, productID uuid.UUID) error
}

type ownerGuard interface {
	RequireOwner(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error)
}

type usageLogLister interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.UsageLog, error)
}

type service struct {
	repo      repository
	guard     ownerGuard
	usageLogs usageLogLister
}

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo      repository
	Guard     ownerGuard
	UsageLogs usageLogLister
}

// NewService builds a product service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("ownership guard is required")
	}
	if params.UsageLogs == nil {
		return nil, fmt.Errorf("usage log lister is required")
	}
	return &service{
		repo:      params.Repo,
		guard:     params.Guard,
		usageLogs: params.UsageLogs,
	}, nil
}

// List returns the caller's products newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (ProductsPageDTO, error) {
	if userID == uuid.Nil {
		return ProductsPageDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	rows, nextCursor, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		if domainErr := pkgerrors.As(err); domainErr != nil {
			return ProductsPageDTO{}, domainErr
		}
		return ProductsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return ProductsPageDTO{Products: dtos, NextCursor: nextCursor}, nil
}

// Get loads an owned product together with its derived lifecycle metrics.
func (s *service) Get(ctx context.Context, userID, productID uuid.UUID) (*ProductDetailDTO, error) {
	product, err := s.guard.RequireOwner(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	logs, err := s.usageLogs.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load usage history")
	}

	return &ProductDetailDTO{
		Product: FromModel(product),
		Metrics: lifecycle.Compute(product, logs, time.Now().UTC()),
	}, nil
}

// Create validates the payload and persists a product owned by the caller.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	name := text(input.Name)
	if name == "" {
		return nil, fieldError("name", "is required")
	}

	product := &models.Product{
		UserID: userID,
		Name:   name,
	}
	if err := applyParsedFields(product, input); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	dto := FromModel(product)
	return &dto, nil
}

// Update applies only the supplied fields after the ownership check passes.
func (s *service) Update(ctx context.Context, userID, productID uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if _, err := s.guard.RequireOwner(ctx, userID, productID); err != nil {
		return nil, err
	}

	updates, err := buildUpdates(input)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateFields(ctx, userID, productID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	dto := FromModel(updated)
	return &dto, nil
}

// Delete removes the product and all dependent records.
func (s *service) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.guard.RequireOwner(ctx, userID, productID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// applyParsedFields parses every supplied optional field onto a fresh model.
func applyParsedFields(product *models.Product, input ProductInput) error {
	var err error
	if product.PurchaseDate, err = parseOptionalDate("purchase_date", input.PurchaseDate); err != nil {
		return err
	}
	if product.WarrantyMonths, err = parseOptionalInt("warranty_months", input.WarrantyMonths); err != nil {
		return err
	}
	if product.ExpectedLifespanYears, err = parseOptionalInt("expected_lifespan_years", input.ExpectedLifespanYears); err != nil {
		return err
	}
	if product.ExpectedUsageHours, err = parseOptionalInt("expected_usage_hours", input.ExpectedUsageHours); err != nil {
		return err
	}
	if product.PurchasePrice, err = parseOptionalDecimal("purchase_price", input.PurchasePrice); err != nil {
		return err
	}
	product.ModelNumber = optionalText(input.ModelNumber)
	product.Category = optionalText(input.Category)
	product.Manufacturer = optionalText(input.Manufacturer)
	product.Notes = optionalText(input.Notes)
	product.ImageURL = optionalText(input.ImageURL)
	product.ManualURL = optionalText(input.ManualURL)
	return nil
}

// buildUpdates maps only the supplied fields to column updates. A supplied but
// null or blank optional field clears the column; an absent field is left
// alone.
func buildUpdates(input ProductInput) (map[string]any, error) {
	updates := map[string]any{}

	if input.Name.Set {
		trimmed := text(input.Name)
		if trimmed == "" {
			return nil, fieldError("name", "must not be empty")
		}
		updates["name"] = trimmed
	}

	if input.PurchaseDate.Set {
		parsed, err := parseOptionalDate("purchase_date", input.PurchaseDate)
		if err != nil {
			return nil, err
		}
		updates["purchase_date"] = parsed
	}
	if input.WarrantyMonths.Set {
		parsed, err := parseOptionalInt("warranty_months", input.WarrantyMonths)
		if err != nil {
			return nil, err
		}
		updates["warranty_months"] = parsed
	}
	if input.ExpectedLifespanYears.Set {
		parsed, err := parseOptionalInt("expected_lifespan_years", input.ExpectedLifespanYears)
		if err != nil {
			return nil, err
		}
		updates["expected_lifespan_years"] = parsed
	}
	if input.ExpectedUsageHours.Set {
		parsed, err := parseOptionalInt("expected_usage_hours", input.ExpectedUsageHours)
		if err != nil {
			return nil, err
		}
		updates["expected_usage_hours"] = parsed
	}
	if input.PurchasePrice.Set {
		parsed, err := parseOptionalDecimal("purchase_price", input.PurchasePrice)
		if err != nil {
			return nil, err
		}
		updates["purchase_price"] = parsed
	}

	for column, value := range map[string]types.OptionalString{
		"model_number": input.ModelNumber,
		"category":     input.Category,
		"manufacturer": input.Manufacturer,
		"notes":        input.Notes,
		"image_url":    input.ImageURL,
		"manual_url":   input.ManualURL,
	} {
		if value.Set {
			updates[column] = optionalText(value)
		}
	}

	return updates, nil
}
