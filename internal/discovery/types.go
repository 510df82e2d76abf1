package discovery

// FindCafesRequest carries the caller's location.
type FindCafesRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CafeDTO is one recommended cafe in the discovery response.
type CafeDTO struct {
	Name              string `json:"name"`
	Rating            string `json:"rating"`
	Address           string `json:"address"`
	RecommendedDishes string `json:"recommended_dishes"`
}

// FindCafesResponse wraps the assembled cafe list.
type FindCafesResponse struct {
	Cafes []CafeDTO `json:"cafes"`
}
