package entities

import (
	"strings"
	"time"

	"alx_travel_app/internal/domain/money"
)

type ListingType string

const (
	ListingTypeHotel     ListingType = "hotel"
	ListingTypeApartment ListingType = "apartment"
	ListingTypeVilla     ListingType = "villa"
	ListingTypeResort    ListingType = "resort"
	ListingTypeCabin     ListingType = "cabin"
)

func (t ListingType) Valid() bool {
	switch t {
	case ListingTypeHotel, ListingTypeApartment, ListingTypeVilla, ListingTypeResort, ListingTypeCabin:
		return true
	}
	return false
}

// Listing is a rentable property.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (owner_id-index): owner_id
type Listing struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       money.Money `json:"price"`
	Location    string      `json:"location"`
	Type        ListingType `json:"listing_type"`
	Bedrooms    int         `json:"bedrooms"`
	Bathrooms   int         `json:"bathrooms"`
	MaxGuests   int         `json:"max_guests"`
	Amenities   []string    `json:"amenities,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	OwnerID     string      `json:"owner_id"`
	IsAvailable bool        `json:"is_available"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Matches reports whether the free-text query appears in the title,
// description, location or listing type (case-insensitive).
func (l Listing) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{l.Title, l.Description, l.Location, string(l.Type)} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
