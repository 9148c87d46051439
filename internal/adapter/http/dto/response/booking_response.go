package response

import (
	"time"

	"alx_travel_app/internal/domain/entities"
)

type BookingResponse struct {
	ID         string    `json:"id"`
	Reference  string    `json:"reference"`
	ListingID  string    `json:"listing_id"`
	UserID     string    `json:"user_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Guests     int       `json:"guests"`
	TotalPrice string    `json:"total_price"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromBooking(b entities.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		Reference:  b.Reference,
		ListingID:  b.ListingID,
		UserID:     b.UserID,
		CheckIn:    b.CheckIn.Format(time.DateOnly),
		CheckOut:   b.CheckOut.Format(time.DateOnly),
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice.Decimal(),
		Currency:   b.TotalPrice.Currency,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func FromBookings(bs []entities.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, FromBooking(b))
	}
	return out
}
