package response

import (
	"time"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/usecase"
)

type ListingResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Currency    string    `json:"currency"`
	Location    string    `json:"location"`
	ListingType string    `json:"listing_type"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	MaxGuests   int       `json:"max_guests"`
	Amenities   []string  `json:"amenities"`
	ImageURL    string    `json:"image_url,omitempty"`
	OwnerID     string    `json:"owner_id"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListingPageResponse struct {
	Results  []ListingResponse `json:"results"`
	Count    int               `json:"count"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	HasNext  bool              `json:"has_next"`
}

func FromListing(l entities.Listing) ListingResponse {
	amenities := l.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return ListingResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price.Decimal(),
		Currency:    l.Price.Currency,
		Location:    l.Location,
		ListingType: string(l.Type),
		Bedrooms:    l.Bedrooms,
		Bathrooms:   l.Bathrooms,
		MaxGuests:   l.MaxGuests,
		Amenities:   amenities,
		ImageURL:    l.ImageURL,
		OwnerID:     l.OwnerID,
		IsAvailable: l.IsAvailable,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func FromListings(ls []entities.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, FromListing(l))
	}
	return out
}

func FromListingPage(p usecase.ListingPage) ListingPageResponse {
	return ListingPageResponse{
		Results:  FromListings(p.Items),
		Count:    p.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
		HasNext:  p.HasNext,
	}
}
