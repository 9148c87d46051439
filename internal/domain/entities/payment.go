package entities

import (
	"time"

	"alx_travel_app/internal/domain/money"
)

// PaymentStatus represents the payment processing outcome.
//
// Only the verification step moves a payment out of pending. Refunded is
// part of the persisted vocabulary but nothing in this service sets it.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

const DefaultPaymentMethod = "chapa"

// Payment is the single payment attempt attached to a booking.
//
// Storage model (DynamoDB):
//   - PK: booking_id (one payment per booking)
//   - GSI1 (reference-index): reference, the correlation token echoed by the gateway
//   - GSI2 (status-updated_at-index): status + updated_at, used by the reconciler
//
// Amount is copied from Booking.TotalPrice at creation and never recomputed.
type Payment struct {
	ID                    string        `json:"id"`
	BookingID             string        `json:"booking_id"`
	Amount                money.Money   `json:"amount"`
	Reference             string        `json:"reference"`
	ProviderTransactionID string        `json:"provider_transaction_id,omitempty"`
	CheckoutURL           string        `json:"checkout_url,omitempty"`
	Status                PaymentStatus `json:"status"`
	Method                string        `json:"method"`
	FailureReason         string        `json:"failure_reason,omitempty"`
	NotifiedAt            *time.Time    `json:"notified_at,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

func (p Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
