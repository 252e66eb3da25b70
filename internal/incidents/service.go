package incidents

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/monoshelf/monoshelf-backend/pkg/db/models"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
	"github.com/monoshelf/monoshelf-backend/pkg/pagination"
)

// Service exposes incident report operations behind the API.
type Service interface {
	List(ctx context.Context, userID, productID uuid.UUID, params pagination.Params) (IncidentsPageDTO, error)
	Create(ctx context.Context, userID, productID uuid.UUID, input IncidentInput) (*IncidentDTO, error)
}

type repository interface {
	ListPageByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.IncidentReport, *string, error)
	Create(ctx context.Context, incident *models.IncidentReport) error
}

type ownerGuard interface {
	RequireOwner(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error)
}

type service struct {
	repo  repository
	guard ownerGuard
}

// ServiceParams groups dependencies for the incident service.
type ServiceParams struct {
	Repo  repository
	Guard ownerGuard
}

// NewService builds an incident service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("incident repository is required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("ownership guard is required")
	}
	return &service{repo: params.Repo, guard: params.Guard}, nil
}

// List returns the product's incident history after the ownership check passes.
func (s *service) List(ctx context.Context, userID, productID uuid.UUID, params pagination.Params) (IncidentsPageDTO, error) {
	if _, err := s.guard.RequireOwner(ctx, userID, productID); err != nil {
		return IncidentsPageDTO{}, err
	}

	rows, nextCursor, err := s.repo.ListPageByProduct(ctx, productID, params)
	if err != nil {
		if domainErr := pkgerrors.As(err); domainErr != nil {
			return IncidentsPageDTO{}, domainErr
		}
		return IncidentsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list incidents")
	}

	dtos := make([]IncidentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return IncidentsPageDTO{Incidents: dtos, NextCursor: nextCursor}, nil
}

// Create validates the payload and records an incident for an owned product.
func (s *service) Create(ctx context.Context, userID, productID uuid.UUID, input IncidentInput) (*IncidentDTO, error) {
	if _, err := s.guard.RequireOwner(ctx, userID, productID); err != nil {
		return nil, err
	}

	date, err := parseRequiredDate("date", input.Date)
	if err != nil {
		return nil, err
	}
	description, err := requiredText("description", input.Description)
	if err != nil {
		return nil, err
	}

	incident := &models.IncidentReport{
		ProductID:   productID,
		Date:        date,
		Description: description,
		Severity:    optionalText(input.Severity),
	}
	if err := s.repo.Create(ctx, incident); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create incident")
	}

	dto := FromModel(incident)
	return &dto, nil
}
