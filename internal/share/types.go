package share

import (
	"time"

	"github.com/dishcovery-app/dishcovery-backend/internal/wishlist"
	"github.com/google/uuid"
)

// CreateShareRequest captures the optional settings for a new shared link.
type CreateShareRequest struct {
	Title string `json:"title" validate:"omitempty,max=200"`
}

// ShareDTO is returned to the owner after creating a link. WishlistItems is the
// owner's list at response time; it is not snapshotted with the link.
type ShareDTO struct {
	ShareID       uuid.UUID          `json:"share_id"`
	Title         string             `json:"title"`
	IsActive      bool               `json:"is_active"`
	ExpiresAt     *time.Time         `json:"expires_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	WishlistItems []wishlist.ItemDTO `json:"wishlist_items"`
}

// SharedWishlistDTO is the public view resolved from a share link.
type SharedWishlistDTO struct {
	Title     string             `json:"title"`
	Username  string             `json:"username"`
	Items     []wishlist.ItemDTO `json:"wishlist_items"`
	CreatedAt time.Time          `json:"created_at"`
}
