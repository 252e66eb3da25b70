package usagelogs

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
	"github.com/monoshelf/monoshelf-backend/pkg/pagination"
)

// Service exposes usage log operations behind the API.
type Service interface {
	List(ctx context.Context, userID, productID uuid.UUID, params pagination.Params) (UsageLogsPageDTO, error)
	Create(ctx context.Context, userID, productID uuid.UUID, input UsageLogInput) (*UsageLogDTO, error)
}

type repository interface {
	ListPageByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.UsageLog, *string, error)
	Create(ctx context.Context, log *models.UsageLog) error
}

type ownerGuard interface {
	RequireOwner(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error)
}

type service struct {
	repo  repository
	guard ownerGuard
}

// ServiceParams groups dependencies for the usage log service.
type ServiceParams struct {
	Repo  repository
	Guard ownerGuard
}

// NewService builds a usage log service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("usage log repository is required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("ownership guard is required")
	}
	return &service{repo: params.Repo, guard: params.Guard}, nil
}

// List returns the product's usage history after the ownership check passes.
func (s *service) List(ctx context.Context, userID, productID uuid.UUID, params pagination.Params) (UsageLogsPageDTO, error) {
	if _, err := s.guard.RequireOwner(ctx, userID, productID); err != nil {
		return UsageLogsPageDTO{}, err
	}

	rows, nextCursor, err := s.repo.ListPageByProduct(ctx, productID, params)
	if err != nil {
		if domainErr := pkgerrors.As(err); domainErr != nil {
			return UsageLogsPageDTO{}, domainErr
		}
		return UsageLogsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list usage logs")
	}

	dtos := make([]UsageLogDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return UsageLogsPageDTO{UsageLogs: dtos, NextCursor: nextCursor}, nil
}

// Create validates the payload and records a usage session for an owned product.
func (s *service) Create(ctx context.Context, userID, productID uuid.UUID, input UsageLogInput) (*UsageLogDTO, error) {
	if _, err := s.guard.RequireOwner(ctx, userID, productID); err != nil {
		return nil, err
	}

	date, err := parseRequiredDate("date", input.Date)
	if err != nil {
		return nil, err
	}
	minutes, err := parseOptionalMinutes("duration_minutes", input.DurationMinutes)
	if err != nil {
		return nil, err
	}

	log := &models.UsageLog{
		ProductID:       productID,
		Date:            date,
		DurationMinutes: minutes,
		Notes:           optionalText(input.Notes),
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create usage log")
	}

	dto := FromModel(log)
	return &dto, nil
}
