package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/domain/pricing"
	"alx_travel_app/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingForbidden   = errors.New("booking belongs to another user")
	ErrInvalidBookingID   = errors.New("invalid booking id")
	ErrInvalidGuestCount  = errors.New("guest count must be between 1 and the listing capacity")
	ErrListingUnavailable = errors.New("listing is not available")
	ErrRequesterRequired  = errors.New("authenticated requester required")
)

type CreateBookingInput struct {
	ListingID string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
}

// IBookingUseCase reserves listings for a date range.
//
// Overlapping bookings on the same listing are accepted: availability is a
// per-listing flag, not a calendar.
type IBookingUseCase interface {
	Create(ctx context.Context, in CreateBookingInput, requester entities.Requester) (entities.Booking, error)
	GetByID(ctx context.Context, id string, requester entities.Requester) (entities.Booking, error)
	ListByUser(ctx context.Context, requester entities.Requester) ([]entities.Booking, error)
}

type BookingUseCase struct {
	repo        interfaces.IBookingRepository
	listingRepo interfaces.IListingRepository
	now         func() time.Time
}

var _ IBookingUseCase = (*BookingUseCase)(nil)

func NewBookingUseCase(repo interfaces.IBookingRepository, listingRepo interfaces.IListingRepository) *BookingUseCase {
	return &BookingUseCase{repo: repo, listingRepo: listingRepo, now: func() time.Time { return time.Now().UTC() }}
}

func (u *BookingUseCase) Create(ctx context.Context, in CreateBookingInput, requester entities.Requester) (entities.Booking, error) {
	if requester.IsZero() {
		return entities.Booking{}, ErrRequesterRequired
	}
	listingID := strings.TrimSpace(in.ListingID)
	if listingID == "" {
		return entities.Booking{}, ErrInvalidListingID
	}
	if in.Guests < 1 {
		return entities.Booking{}, ErrInvalidGuestCount
	}

	slog.InfoContext(ctx, "[booking][usecase] create start", "listing_id", listingID, "user_id", requester.ID)
	listing, err := u.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		slog.ErrorContext(ctx, "[booking][usecase] failed loading listing", "listing_id", listingID, "err", err)
		return entities.Booking{}, err
	}
	if listing.ID == "" {
		return entities.Booking{}, ErrListingNotFound
	}
	if !listing.IsAvailable {
		return entities.Booking{}, ErrListingUnavailable
	}
	if listing.MaxGuests > 0 && in.Guests > listing.MaxGuests {
		return entities.Booking{}, ErrInvalidGuestCount
	}

	total, err := pricing.Total(listing.Price, in.CheckIn, in.CheckOut)
	if err != nil {
		return entities.Booking{}, err
	}

	now := u.now()
	b := entities.Booking{
		ID:         uuid.NewString(),
		Reference:  uuid.NewString(),
		ListingID:  listing.ID,
		UserID:     requester.ID,
		UserEmail:  requester.Email,
		CheckIn:    in.CheckIn.UTC(),
		CheckOut:   in.CheckOut.UTC(),
		Guests:     in.Guests,
		TotalPrice: total,
		Status:     entities.BookingStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := u.repo.Create(ctx, b)
	if err != nil {
		slog.ErrorContext(ctx, "[booking][usecase] repository create failed", "listing_id", listingID, "err", err)
		return entities.Booking{}, err
	}
	slog.InfoContext(ctx, "[booking][usecase] create success", "booking_id", created.ID, "total", created.TotalPrice.String())
	return created, nil
}

func (u *BookingUseCase) GetByID(ctx context.Context, id string, requester entities.Requester) (entities.Booking, error) {
	if requester.IsZero() {
		return entities.Booking{}, ErrRequesterRequired
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Booking{}, ErrInvalidBookingID
	}

	b, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Booking{}, err
	}
	if b.ID == "" {
		return entities.Booking{}, ErrBookingNotFound
	}
	if b.UserID != requester.ID {
		return entities.Booking{}, ErrBookingForbidden
	}
	return b, nil
}

func (u *BookingUseCase) ListByUser(ctx context.Context, requester entities.Requester) ([]entities.Booking, error) {
	if requester.IsZero() {
		return nil, ErrRequesterRequired
	}
	return u.repo.ListByUserID(ctx, requester.ID)
}
