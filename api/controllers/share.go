package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dishcovery-app/dishcovery-backend/api/middleware"
	"github.com/dishcovery-app/dishcovery-backend/api/responses"
	"github.com/dishcovery-app/dishcovery-backend/api/validators"
	"github.com/dishcovery-app/dishcovery-backend/internal/share"
	pkgerrors "github.com/dishcovery-app/dishcovery-backend/pkg/errors"
	"github.com/dishcovery-app/dishcovery-backend/pkg/logger"
)

// WishlistShare mints a shareable link for the authenticated user's wishlist.
func WishlistShare(svc share.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "share service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		username := middleware.UsernameFromContext(ctx)

		var body share.CreateShareRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Create(ctx, userID, username, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// SharedWishlist resolves a public share link to the owner's current wishlist.
func SharedWishlist(svc share.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "share service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "shareID"))
		shareID, err := uuid.Parse(raw)
		if err != nil {
			// Malformed ids look the same as unknown ones to the caller.
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "shared wishlist not found"))
			return
		}

		if logg != nil {
			ctx = logg.WithShareID(ctx, shareID.String())
		}

		result, err := svc.Resolve(ctx, shareID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
