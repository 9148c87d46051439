package interfaces

import (
	"context"
	"errors"
	"time"

	"alx_travel_app/internal/domain/entities"
)

var (
	ErrPaymentAlreadyExists       = errors.New("payment already exists for booking")
	ErrPaymentAlreadySettled      = errors.New("payment already completed")
	ErrNotificationAlreadyClaimed = errors.New("payment notification already claimed")
)

// IPaymentRepository abstracts DynamoDB persistence for Payment.
//
// Every write except Create is conditioned on the stored payment not being
// completed, so a completed payment is terminal. Conditional failures are
// reported as ErrPaymentAlreadySettled.
type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByBookingID(ctx context.Context, bookingID string) (entities.Payment, error)
	GetByReference(ctx context.Context, reference string) (entities.Payment, error)
	Update(ctx context.Context, p entities.Payment) (entities.Payment, error)
	MarkFailed(ctx context.Context, bookingID, reason string) (entities.Payment, error)

	// Settle completes the payment and confirms its booking in one transaction.
	Settle(ctx context.Context, p entities.Payment) (entities.Payment, error)

	// ClaimNotification records notified_at only if it is not set yet.
	ClaimNotification(ctx context.Context, bookingID string, at time.Time) error
	ReleaseNotification(ctx context.Context, bookingID string) error

	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]entities.Payment, error)
}
