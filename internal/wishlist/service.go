package wishlist

import (
	"context"
	"strings"

	"github.com/dishcovery-app/dishcovery-backend/pkg/db"
	"github.com/dishcovery-app/dishcovery-backend/pkg/db/models"
	pkgerrors "github.com/dishcovery-app/dishcovery-backend/pkg/errors"
	"github.com/google/uuid"
)

type repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	Create(ctx context.Context, item *models.WishlistItem) error
	Delete(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo repository
}

// Service exposes business rules for wishlist management.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
	Sync(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
}

type service struct {
	repo repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// List returns the user's saved dishes, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlist")
	}
	return itemsFromModels(items), nil
}

// Create saves a dish for the user, rejecting duplicates of the same dish at the same cafe.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	dishName := strings.TrimSpace(req.DishName)
	cafeName := strings.TrimSpace(req.CafeName)
	if dishName == "" || cafeName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish_name and cafe_name are required")
	}

	item := &models.WishlistItem{
		UserID:      userID,
		DishName:    dishName,
		CafeName:    cafeName,
		CafeAddress: strings.TrimSpace(req.CafeAddress),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "dish already in wishlist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create wishlist item")
	}

	dto := itemFromModel(*item)
	return &dto, nil
}

// Delete removes an item the user owns.
func (s *service) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and item id are required")
	}
	deleted, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete wishlist item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	return nil
}

// Sync returns the same representation as List so clients can rebuild local state.
func (s *service) Sync(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	return s.List(ctx, userID)
}
