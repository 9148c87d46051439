package pricing

import (
	"errors"
	"time"

	"alx_travel_app/internal/domain/money"
)

var (
	ErrInvalidDateRange = errors.New("pricing: check-out must be after check-in")
	ErrNegativeRate     = errors.New("pricing: nightly rate must not be negative")
)

// Nights returns the number of whole calendar nights between check-in and
// check-out. Both dates are reduced to their UTC calendar day first, so the
// time of day never produces fractional nights.
func Nights(checkIn, checkOut time.Time) (int64, error) {
	in := dayStart(checkIn)
	out := dayStart(checkOut)
	if !out.After(in) {
		return 0, ErrInvalidDateRange
	}
	return int64(out.Sub(in).Hours() / 24), nil
}

// Total computes nightly rate × nights.
func Total(rate money.Money, checkIn, checkOut time.Time) (money.Money, error) {
	if rate.IsNegative() {
		return money.Money{}, ErrNegativeRate
	}
	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return money.Money{}, err
	}
	return rate.Multiply(nights), nil
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
