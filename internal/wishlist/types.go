package wishlist

import (
	"time"

	"github.com/dishcovery-app/dishcovery-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ItemDTO is the transport shape for a single wishlist row.
type ItemDTO struct {
	ID          uuid.UUID `json:"id"`
	DishName    string    `json:"dish_name"`
	CafeName    string    `json:"cafe_name"`
	CafeAddress string    `json:"cafe_address"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateItemRequest captures the payload for saving a dish.
type CreateItemRequest struct {
	DishName    string `json:"dish_name" validate:"required,max=200"`
	CafeName    string `json:"cafe_name" validate:"required,max=200"`
	CafeAddress string `json:"cafe_address" validate:"omitempty"`
}

func itemFromModel(m models.WishlistItem) ItemDTO {
	return ItemDTO{
		ID:          m.ID,
		DishName:    m.DishName,
		CafeName:    m.CafeName,
		CafeAddress: m.CafeAddress,
		CreatedAt:   m.CreatedAt,
	}
}

func itemsFromModels(ms []models.WishlistItem) []ItemDTO {
	items := make([]ItemDTO, 0, len(ms))
	for _, m := range ms {
		items = append(items, itemFromModel(m))
	}
	return items
}
