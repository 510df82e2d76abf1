package share

import (
	"context"

	"github.com/dishcovery-app/dishcovery-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates shareable wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a share repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new shareable link.
func (r *Repository) Create(ctx context.Context, link *models.ShareableWishlist) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// FindActiveByShareID loads an active link by its public share token.
// Inactive links surface as gorm.ErrRecordNotFound so callers cannot tell
// revoked and nonexistent apart.
func (r *Repository) FindActiveByShareID(ctx context.Context, shareID uuid.UUID) (*models.ShareableWishlist, error) {
	var link models.ShareableWishlist
	err := r.db.WithContext(ctx).
		Where("share_id = ? AND is_active = ?", shareID, true).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}
