package controllers

import (
	"net/http"

	"github.com/dishcovery-app/dishcovery-backend/api/responses"
	"github.com/dishcovery-app/dishcovery-backend/api/validators"
	"github.com/dishcovery-app/dishcovery-backend/internal/discovery"
	pkgerrors "github.com/dishcovery-app/dishcovery-backend/pkg/errors"
	"github.com/dishcovery-app/dishcovery-backend/pkg/logger"
)

// FindCafes searches for cafes near the supplied coordinates and annotates each
// with dishes recommended by its reviews.
func FindCafes(svc discovery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discovery service unavailable"))
			return
		}

		var body discovery.FindCafesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.FindCafes(ctx, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
