package interfaces

import (
	"context"

	"alx_travel_app/internal/domain/entities"
)

// IBookingRepository abstracts DynamoDB persistence for Booking.
//
// Booking status is never written here: confirmation happens atomically
// with payment completion through IPaymentRepository.Settle.
type IBookingRepository interface {
	Create(ctx context.Context, b entities.Booking) (entities.Booking, error)
	GetByID(ctx context.Context, id string) (entities.Booking, error)
	ListByUserID(ctx context.Context, userID string) ([]entities.Booking, error)
}
