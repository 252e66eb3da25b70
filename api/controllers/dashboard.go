package controllers

import (
	"net/http"

	"github.com/monoshelf/monoshelf-backend/api/responses"
	"github.com/monoshelf/monoshelf-backend/internal/dashboard"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
	"github.com/monoshelf/monoshelf-backend/pkg/logger"
)

// DashboardSummary aggregates warranty and usage stats across the caller's shelf.
func DashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.Summary(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
