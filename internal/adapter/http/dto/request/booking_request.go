package request

import (
	"errors"
	"strings"
	"time"

	"alx_travel_app/internal/usecase"
)

var ErrInvalidDate = errors.New("dates must use the YYYY-MM-DD format")

// BookingRequest reserves a listing. Dates are calendar days (YYYY-MM-DD).
type BookingRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
	CheckIn   string `json:"check_in" binding:"required"`
	CheckOut  string `json:"check_out" binding:"required"`
	Guests    int    `json:"guests"`
}

func (r BookingRequest) ToInput() (usecase.CreateBookingInput, error) {
	checkIn, err := parseDay(r.CheckIn)
	if err != nil {
		return usecase.CreateBookingInput{}, err
	}
	checkOut, err := parseDay(r.CheckOut)
	if err != nil {
		return usecase.CreateBookingInput{}, err
	}
	guests := r.Guests
	if guests == 0 {
		guests = 1
	}
	return usecase.CreateBookingInput{
		ListingID: strings.TrimSpace(r.ListingID),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    guests,
	}, nil
}

func parseDay(v string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
