package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem is a saved dish+cafe pairing owned by one user. The
// (user_id, dish_name, cafe_name) triple is unique; duplicate saves are
// rejected at the storage layer, never merged.
type WishlistItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:wishlist_items_user_id_idx;uniqueIndex:wishlist_items_user_dish_cafe_key"`
	DishName    string    `gorm:"column:dish_name;type:varchar(200);not null;uniqueIndex:wishlist_items_user_dish_cafe_key"`
	CafeName    string    `gorm:"column:cafe_name;type:varchar(200);not null;uniqueIndex:wishlist_items_user_dish_cafe_key"`
	CafeAddress string    `gorm:"column:cafe_address;type:text;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
