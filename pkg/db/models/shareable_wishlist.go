package models

import (
	"time"

	"github.com/google/uuid"
)

// ShareableWishlist is a public, token-addressed read view into one user's
// current wishlist. It does not snapshot items; resolution re-reads the
// owner's live rows. ExpiresAt is stored but only is_active gates
// visibility; deactivation is manual.
type ShareableWishlist struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index:shareable_wishlists_user_id_idx"`
	ShareID   uuid.UUID  `gorm:"column:share_id;type:uuid;not null;uniqueIndex:shareable_wishlists_share_id_key"`
	Title     string     `gorm:"column:title;type:varchar(200);not null"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
