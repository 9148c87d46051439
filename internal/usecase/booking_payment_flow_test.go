package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/domain/money"
	"alx_travel_app/internal/usecase/interfaces"
	mock_interfaces "alx_travel_app/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

// memStore keeps bookings and payments together so settle can update both.
type memStore struct {
	mu       sync.Mutex
	bookings map[string]entities.Booking
	payments map[string]entities.Payment
}

func newMemStore() *memStore {
	return &memStore{bookings: map[string]entities.Booking{}, payments: map[string]entities.Payment{}}
}

type memBookingRepo struct{ s *memStore }

func (r memBookingRepo) Create(_ context.Context, b entities.Booking) (entities.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[b.ID] = b
	return b, nil
}

func (r memBookingRepo) GetByID(_ context.Context, id string) (entities.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.bookings[id], nil
}

func (r memBookingRepo) ListByUserID(_ context.Context, userID string) ([]entities.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.Booking
	for _, b := range r.s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type memPaymentRepo struct{ s *memStore }

func (r memPaymentRepo) Create(_ context.Context, p entities.Payment) (entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[p.BookingID]; ok {
		return entities.Payment{}, interfaces.ErrPaymentAlreadyExists
	}
	r.s.payments[p.BookingID] = p
	return p, nil
}

func (r memPaymentRepo) GetByBookingID(_ context.Context, bookingID string) (entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.payments[bookingID], nil
}

func (r memPaymentRepo) GetByReference(_ context.Context, reference string) (entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.Reference == reference {
			return p, nil
		}
	}
	return entities.Payment{}, nil
}

func (r memPaymentRepo) Update(_ context.Context, p entities.Payment) (entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.payments[p.BookingID].IsCompleted() {
		return entities.Payment{}, interfaces.ErrPaymentAlreadySettled
	}
	r.s.payments[p.BookingID] = p
	return p, nil
}

func (r memPaymentRepo) MarkFailed(_ context.Context, bookingID, reason string) (entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.s.payments[bookingID]
	if p.IsCompleted() {
		return entities.Payment{}, interfaces.ErrPaymentAlreadySettled
	}
	p.Status = entities.PaymentStatusFailed
	p.FailureReason = reason
	r.s.payments[bookingID] = p
	return p, nil
}

func (r memPaymentRepo) Settle(_ context.Context, p entities.Payment) (entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur := r.s.payments[p.BookingID]
	if cur.IsCompleted() || cur.Reference != p.Reference {
		return entities.Payment{}, interfaces.ErrPaymentAlreadySettled
	}
	r.s.payments[p.BookingID] = p
	b := r.s.bookings[p.BookingID]
	b.Status = entities.BookingStatusConfirmed
	r.s.bookings[p.BookingID] = b
	return p, nil
}

func (r memPaymentRepo) ClaimNotification(_ context.Context, bookingID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.s.payments[bookingID]
	if p.NotifiedAt != nil {
		return interfaces.ErrNotificationAlreadyClaimed
	}
	p.NotifiedAt = &at
	r.s.payments[bookingID] = p
	return nil
}

func (r memPaymentRepo) ReleaseNotification(_ context.Context, bookingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.s.payments[bookingID]
	p.NotifiedAt = nil
	r.s.payments[bookingID] = p
	return nil
}

func (r memPaymentRepo) ListPendingBefore(_ context.Context, cutoff time.Time) ([]entities.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.Payment
	for _, p := range r.s.payments {
		if p.Status == entities.PaymentStatusPending && p.UpdatedAt.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestBookingPaymentFlow_ThreeNightsAtHundred(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := newMemStore()
	listingRepo := mock_interfaces.NewMockIListingRepository(ctrl)
	gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
	notifier := mock_interfaces.NewMockINotifier(ctrl)

	listing := availableListing()
	listing.Price = money.Must(10000, "ETB")
	listingRepo.EXPECT().GetByID(gomock.Any(), "l-1").Return(listing, nil).AnyTimes()
	gateway.EXPECT().Name().Return("chapa").AnyTimes()

	bookings := NewBookingUseCase(memBookingRepo{store}, listingRepo)
	payments := NewPaymentUseCase(memPaymentRepo{store}, memBookingRepo{store}, listingRepo, gateway, notifier, PaymentSettings{
		PublicBaseURL: "https://api.example.com",
		FromEmail:     "noreply@example.com",
	})

	booking, err := bookings.Create(context.Background(), bookingInput(), guest)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if booking.TotalPrice.Decimal() != "300.00" || booking.Status != entities.BookingStatusPending {
		t.Fatalf("unexpected booking %+v", booking)
	}

	gateway.EXPECT().Initialize(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req interfaces.InitializeRequest) (interfaces.InitializeResult, error) {
		if req.Amount.Decimal() != "300.00" {
			t.Fatalf("expected 300.00 sent to gateway, got %s", req.Amount.Decimal())
		}
		return interfaces.InitializeResult{TxRef: req.TxRef, CheckoutURL: "https://checkout.example/" + req.TxRef}, nil
	})
	initiated, err := payments.Initiate(context.Background(), booking.ID, guest)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	token := initiated.Payment.Reference

	gateway.EXPECT().Verify(gomock.Any(), token).Return(interfaces.VerifyResult{TxRef: token, Amount: "300", Currency: "ETB"}, nil).Times(1)
	notifier.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg entities.EmailMessage) error {
		if len(msg.To) != 1 || msg.To[0] != guest.Email {
			t.Fatalf("unexpected recipients %v", msg.To)
		}
		return nil
	}).Times(1)

	first, err := payments.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if first.Payment.Status != entities.PaymentStatusCompleted || first.Booking.Status != entities.BookingStatusConfirmed || !first.Notified {
		t.Fatalf("unexpected first verification %+v", first)
	}

	second, err := payments.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if !second.AlreadySettled || second.Notified {
		t.Fatalf("expected idempotent second verification, got %+v", second)
	}
	if store.payments[booking.ID].Status != entities.PaymentStatusCompleted || store.bookings[booking.ID].Status != entities.BookingStatusConfirmed {
		t.Fatalf("unexpected stored state")
	}
}

func TestBookingPaymentFlow_ReinitiateAfterPaidCheckout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := newMemStore()
	listingRepo := mock_interfaces.NewMockIListingRepository(ctrl)
	gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
	notifier := mock_interfaces.NewMockINotifier(ctrl)

	listing := availableListing()
	listing.Price = money.Must(10000, "ETB")
	listingRepo.EXPECT().GetByID(gomock.Any(), "l-1").Return(listing, nil).AnyTimes()
	gateway.EXPECT().Name().Return("chapa").AnyTimes()

	bookings := NewBookingUseCase(memBookingRepo{store}, listingRepo)
	payments := NewPaymentUseCase(memPaymentRepo{store}, memBookingRepo{store}, listingRepo, gateway, notifier, PaymentSettings{
		PublicBaseURL: "https://api.example.com",
		FromEmail:     "noreply@example.com",
	})

	booking, err := bookings.Create(context.Background(), bookingInput(), guest)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	gateway.EXPECT().Initialize(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req interfaces.InitializeRequest) (interfaces.InitializeResult, error) {
		return interfaces.InitializeResult{TxRef: req.TxRef, CheckoutURL: "https://checkout.example/" + req.TxRef}, nil
	}).Times(1)
	first, err := payments.Initiate(context.Background(), booking.ID, guest)
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
	token := first.Payment.Reference

	// The guest pays checkout #1 but the callback has not arrived yet.
	gateway.EXPECT().Verify(gomock.Any(), token).Return(interfaces.VerifyResult{TxRef: token, Amount: "300", Currency: "ETB"}, nil).Times(1)
	notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	second, err := payments.Initiate(context.Background(), booking.ID, guest)
	if !errors.Is(err, ErrBookingAlreadyPaid) {
		t.Fatalf("expected ErrBookingAlreadyPaid, got %v", err)
	}
	if second.Payment.Reference != token {
		t.Fatalf("expected token %q kept, got %q", token, second.Payment.Reference)
	}

	stored := store.payments[booking.ID]
	if stored.Status != entities.PaymentStatusCompleted || store.bookings[booking.ID].Status != entities.BookingStatusConfirmed {
		t.Fatalf("expected completed/confirmed, got %s/%s", stored.Status, store.bookings[booking.ID].Status)
	}

	late, err := payments.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("late callback for checkout #1: %v", err)
	}
	if !late.AlreadySettled || late.Notified {
		t.Fatalf("expected idempotent late callback, got %+v", late)
	}
}
