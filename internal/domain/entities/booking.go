package entities

import (
	"time"

	"alx_travel_app/internal/domain/money"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking reserves a listing for a date range.
//
// Bookings are created pending and only become confirmed together with the
// completion of their payment (see PaymentStatusCompleted).
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (user_id-index): user_id
type Booking struct {
	ID         string        `json:"id"`
	Reference  string        `json:"reference"`
	ListingID  string        `json:"listing_id"`
	UserID     string        `json:"user_id"`
	UserEmail  string        `json:"user_email"`
	CheckIn    time.Time     `json:"check_in"`
	CheckOut   time.Time     `json:"check_out"`
	Guests     int           `json:"guests"`
	TotalPrice money.Money   `json:"total_price"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
