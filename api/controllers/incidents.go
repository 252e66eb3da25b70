package controllers

import (
	"net/http"

	"github.com/monoshelf/monoshelf-backend/api/responses"
	"github.com/monoshelf/monoshelf-backend/api/validators"
	incidentsvc "github.com/monoshelf/monoshelf-backend/internal/incidents"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
	"github.com/monoshelf/monoshelf-backend/pkg/logger"
)

// IncidentsList returns a product's incident reports, newest first.
func IncidentsList(svc incidentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "incident service unavailable"))
			return
		}

		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params, err := listParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.List(ctx, userID, productID, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// IncidentCreate records a malfunction or damage report for an owned product.
func IncidentCreate(svc incidentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "incident service unavailable"))
			return
		}

		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input incidentsvc.IncidentInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		incident, err := svc.Create(ctx, userID, productID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, incident)
	}
}
