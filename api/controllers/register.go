package controllers

import (
	"net/http"

	"github.com/dishcovery-app/dishcovery-backend/api/responses"
	"github.com/dishcovery-app/dishcovery-backend/api/validators"
	"github.com/dishcovery-app/dishcovery-backend/internal/auth"
	pkgerrors "github.com/dishcovery-app/dishcovery-backend/pkg/errors"
	"github.com/dishcovery-app/dishcovery-backend/pkg/logger"
)

// AuthRegister creates a new account and returns the tokens for its first session.
func AuthRegister(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := reg.Register(r.Context(), body)
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "register failed", err)
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
