package request

import (
	"encoding/json"
	"strings"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/usecase"
)

// ListingRequest is the payload for creating and updating listings.
//
// `price` accepts a JSON number or a decimal string ("150.00").
type ListingRequest struct {
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	Price       json.Number `json:"price" binding:"required"`
	Location    string      `json:"location" binding:"required"`
	ListingType string      `json:"listing_type" binding:"required"`
	Bedrooms    int         `json:"bedrooms"`
	Bathrooms   int         `json:"bathrooms"`
	MaxGuests   int         `json:"max_guests"`
	Amenities   []string    `json:"amenities"`
	IsAvailable *bool       `json:"is_available"`
}

func (r ListingRequest) ToInput() usecase.ListingInput {
	return usecase.ListingInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price.String(),
		Location:    r.Location,
		Type:        entities.ListingType(strings.ToLower(strings.TrimSpace(r.ListingType))),
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		MaxGuests:   r.MaxGuests,
		Amenities:   r.Amenities,
		IsAvailable: r.IsAvailable,
	}
}
