package share

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dishcovery-app/dishcovery-backend/internal/wishlist"
	"github.com/dishcovery-app/dishcovery-backend/pkg/db/models"
	pkgerrors "github.com/dishcovery-app/dishcovery-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository interface {
	Create(ctx context.Context, link *models.ShareableWishlist) error
	FindActiveByShareID(ctx context.Context, shareID uuid.UUID) (*models.ShareableWishlist, error)
}

type wishlistLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]wishlist.ItemDTO, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams groups dependencies for the share service.
type ServiceParams struct {
	Repo     repository
	Wishlist wishlistLister
	Users    userFinder
}

// Service exposes shareable wishlist link management and resolution.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, username string, req CreateShareRequest) (*ShareDTO, error)
	Resolve(ctx context.Context, shareID uuid.UUID) (*SharedWishlistDTO, error)
}

type service struct {
	repo     repository
	wishlist wishlistLister
	users    userFinder
}

// NewService builds a share service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "share repo is required")
	}
	if params.Wishlist == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist service is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	return &service{
		repo:     params.Repo,
		wishlist: params.Wishlist,
		users:    params.Users,
	}, nil
}

// Create mints a new share link for the caller's wishlist.
func (s *service) Create(ctx context.Context, userID uuid.UUID, username string, req CreateShareRequest) (*ShareDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = fmt.Sprintf("%s's Wishlist", username)
	}

	link := &models.ShareableWishlist{
		UserID:   userID,
		ShareID:  uuid.New(),
		Title:    title,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create share link")
	}

	items, err := s.wishlist.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ShareDTO{
		ShareID:       link.ShareID,
		Title:         link.Title,
		IsActive:      link.IsActive,
		ExpiresAt:     link.ExpiresAt,
		CreatedAt:     link.CreatedAt,
		WishlistItems: items,
	}, nil
}

// Resolve returns the owner's live wishlist for an active share link.
// Expired-but-active links still resolve; only is_active gates access.
func (s *service) Resolve(ctx context.Context, shareID uuid.UUID) (*SharedWishlistDTO, error) {
	if shareID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shared wishlist not found")
	}

	link, err := s.repo.FindActiveByShareID(ctx, shareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shared wishlist not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load share link")
	}

	owner, err := s.users.FindByID(ctx, link.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shared wishlist not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load link owner")
	}

	items, err := s.wishlist.List(ctx, link.UserID)
	if err != nil {
		return nil, err
	}

	return &SharedWishlistDTO{
		Title:     link.Title,
		Username:  owner.Username,
		Items:     items,
		CreatedAt: link.CreatedAt,
	}, nil
}
