package interfaces

import (
	"context"

	"alx_travel_app/internal/domain/entities"
)

// IListingRepository abstracts DynamoDB persistence for Listing.
//
// Lookups return a zero-value Listing (empty ID) when nothing matches.
type IListingRepository interface {
	Create(ctx context.Context, l entities.Listing) (entities.Listing, error)
	GetByID(ctx context.Context, id string) (entities.Listing, error)
	Update(ctx context.Context, l entities.Listing) (entities.Listing, error)
	Delete(ctx context.Context, id string) error
	ListAvailable(ctx context.Context) ([]entities.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Listing, error)
}
