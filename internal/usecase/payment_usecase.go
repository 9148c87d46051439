package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/domain/money"
	"alx_travel_app/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound           = errors.New("payment not found")
	ErrBookingAlreadyPaid        = errors.New("booking already paid")
	ErrBookingCancelled          = errors.New("booking is cancelled")
	ErrPaymentGatewayRejected    = errors.New("payment gateway rejected the transaction")
	ErrPaymentGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
)

const (
	initialReferencePrefix = "pay-"
	correlationTokenPrefix = "tx-"
)

// PaymentSettings is the static configuration the payment flow needs.
type PaymentSettings struct {
	// PublicBaseURL is the externally reachable origin used to build the
	// gateway callback and return URLs, e.g. https://api.example.com.
	PublicBaseURL string
	FromEmail     string
}

type PaymentInitiation struct {
	Payment     entities.Payment
	Booking     entities.Booking
	CheckoutURL string
}

// PaymentVerification is the observable state after a verification attempt.
// AlreadySettled is true when the payment had been completed by an earlier call.
type PaymentVerification struct {
	Payment        entities.Payment
	Booking        entities.Booking
	AlreadySettled bool
	Notified       bool
}

type ReconcileSummary struct {
	Checked   int
	Completed int
	Failed    int
	Pending   int
}

// IPaymentUseCase drives the booking payment state machine.
//
//   - Initiate: pending payment, fresh correlation token, gateway checkout.
//   - Verify: gateway confirmation settles payment and booking together and
//     sends exactly one confirmation e-mail.
//   - ReconcilePending: re-verifies payments left pending by lost callbacks.
type IPaymentUseCase interface {
	Initiate(ctx context.Context, bookingID string, requester entities.Requester) (PaymentInitiation, error)
	Verify(ctx context.Context, reference string) (PaymentVerification, error)
	GetByReference(ctx context.Context, reference string) (PaymentVerification, error)
	ReconcilePending(ctx context.Context, olderThan time.Duration) (ReconcileSummary, error)
}

type PaymentUseCase struct {
	repo        interfaces.IPaymentRepository
	bookingRepo interfaces.IBookingRepository
	listingRepo interfaces.IListingRepository
	gateway     interfaces.IPaymentGateway
	notifier    interfaces.INotifier
	settings    PaymentSettings
	now         func() time.Time
	newToken    func() string
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(
	repo interfaces.IPaymentRepository,
	bookingRepo interfaces.IBookingRepository,
	listingRepo interfaces.IListingRepository,
	gateway interfaces.IPaymentGateway,
	notifier interfaces.INotifier,
	settings PaymentSettings,
) *PaymentUseCase {
	settings.PublicBaseURL = strings.TrimRight(strings.TrimSpace(settings.PublicBaseURL), "/")
	return &PaymentUseCase{
		repo:        repo,
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		gateway:     gateway,
		notifier:    notifier,
		settings:    settings,
		now:         func() time.Time { return time.Now().UTC() },
		newToken:    func() string { return correlationTokenPrefix + uuid.NewString() },
	}
}

func (u *PaymentUseCase) Initiate(ctx context.Context, bookingID string, requester entities.Requester) (PaymentInitiation, error) {
	if requester.IsZero() {
		return PaymentInitiation{}, ErrRequesterRequired
	}
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return PaymentInitiation{}, ErrInvalidBookingID
	}
	if u.gateway == nil {
		return PaymentInitiation{}, errors.New("payment gateway not configured")
	}

	slog.InfoContext(ctx, "[payment][usecase] initiate start", "booking_id", bookingID, "user_id", requester.ID)
	booking, err := u.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		slog.ErrorContext(ctx, "[payment][usecase] failed loading booking", "booking_id", bookingID, "err", err)
		return PaymentInitiation{}, err
	}
	if booking.ID == "" {
		return PaymentInitiation{}, ErrBookingNotFound
	}
	if booking.UserID != requester.ID {
		return PaymentInitiation{}, ErrBookingForbidden
	}
	switch booking.Status {
	case entities.BookingStatusConfirmed:
		return PaymentInitiation{}, ErrBookingAlreadyPaid
	case entities.BookingStatusCancelled:
		return PaymentInitiation{}, ErrBookingCancelled
	}

	p, err := u.preparePayment(ctx, booking)
	if err != nil {
		return PaymentInitiation{}, err
	}
	if p.Status == entities.PaymentStatusPending && (p.CheckoutURL != "" || p.ProviderTransactionID != "") {
		if open, done, err := u.resolveOpenCheckout(ctx, p, booking); done {
			return open, err
		}
	}

	// The token is stored before the gateway sees it so that a callback can
	// never arrive for a reference this service does not know.
	token := u.newToken()
	p.Reference = token
	p.Status = entities.PaymentStatusPending
	p.Method = u.gateway.Name()
	p.ProviderTransactionID = ""
	p.CheckoutURL = ""
	p.FailureReason = ""
	p.UpdatedAt = u.now()
	p, err = u.repo.Update(ctx, p)
	if err != nil {
		if errors.Is(err, interfaces.ErrPaymentAlreadySettled) {
			return PaymentInitiation{}, ErrBookingAlreadyPaid
		}
		slog.ErrorContext(ctx, "[payment][usecase] failed storing correlation token", "booking_id", bookingID, "err", err)
		return PaymentInitiation{}, err
	}

	req := interfaces.InitializeRequest{
		Amount:      p.Amount,
		TxRef:       token,
		Email:       requester.Email,
		FirstName:   requester.FirstName,
		LastName:    requester.LastName,
		CallbackURL: u.settings.PublicBaseURL + "/v1/payments/verify/" + token,
		ReturnURL:   u.settings.PublicBaseURL + "/v1/payments/success/" + token,
	}
	req.Title, req.Description = u.describe(ctx, booking)

	slog.InfoContext(ctx, "[payment][usecase] calling payment gateway", "booking_id", bookingID, "gateway", p.Method, "amount", p.Amount.String())
	res, err := u.gateway.Initialize(ctx, req)
	if err != nil {
		reason := gatewayReason(err)
		slog.WarnContext(ctx, "[payment][usecase] payment gateway initialize failed", "booking_id", bookingID, "err", err)
		failed, mErr := u.repo.MarkFailed(ctx, booking.ID, reason)
		if mErr != nil {
			slog.ErrorContext(ctx, "[payment][usecase] failed marking payment failed", "booking_id", bookingID, "err", mErr)
			failed = p
		}
		var ge *interfaces.GatewayError
		if errors.As(err, &ge) {
			return PaymentInitiation{Payment: failed, Booking: booking}, fmt.Errorf("%w: %s", ErrPaymentGatewayRejected, reason)
		}
		return PaymentInitiation{Payment: failed, Booking: booking}, fmt.Errorf("%w: %s", ErrPaymentGatewayUnavailable, reason)
	}

	p.ProviderTransactionID = res.ProviderTransactionID
	p.CheckoutURL = res.CheckoutURL
	p.UpdatedAt = u.now()
	updated, err := u.repo.Update(ctx, p)
	if err != nil {
		// The checkout already exists on the gateway side; the reconciler
		// settles it from the stored token if the user pays anyway.
		slog.ErrorContext(ctx, "[payment][usecase] failed persisting checkout", "booking_id", bookingID, "err", err)
		return PaymentInitiation{}, err
	}
	slog.InfoContext(ctx, "[payment][usecase] initiate success", "booking_id", bookingID, "reference", token, "provider_transaction_id", updated.ProviderTransactionID)
	return PaymentInitiation{Payment: updated, Booking: booking, CheckoutURL: updated.CheckoutURL}, nil
}

// resolveOpenCheckout asks the gateway whether the checkout behind the current
// token was already paid before Initiate replaces that token. done reports
// that Initiate must return open and err as they are.
func (u *PaymentUseCase) resolveOpenCheckout(ctx context.Context, p entities.Payment, booking entities.Booking) (open PaymentInitiation, done bool, err error) {
	prior, err := u.Verify(ctx, p.Reference)
	switch {
	case err == nil:
		slog.InfoContext(ctx, "[payment][usecase] open checkout was already paid", "booking_id", booking.ID, "reference", p.Reference)
		return PaymentInitiation{Payment: prior.Payment, Booking: prior.Booking}, true, ErrBookingAlreadyPaid
	case errors.Is(err, ErrPaymentVerificationFailed):
		return PaymentInitiation{}, false, nil
	case errors.Is(err, ErrPaymentGatewayUnavailable):
		if p.CheckoutURL == "" {
			return PaymentInitiation{}, true, err
		}
		slog.WarnContext(ctx, "[payment][usecase] gateway unreachable, reusing open checkout", "booking_id", booking.ID, "reference", p.Reference)
		return PaymentInitiation{Payment: p, Booking: booking, CheckoutURL: p.CheckoutURL}, true, nil
	default:
		return PaymentInitiation{}, true, err
	}
}

// preparePayment returns the payment row for booking, creating it on first use.
// A failed or pending payment is reused; a completed one ends the flow.
func (u *PaymentUseCase) preparePayment(ctx context.Context, booking entities.Booking) (entities.Payment, error) {
	existing, err := u.repo.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return entities.Payment{}, err
	}
	if existing.BookingID != "" {
		if existing.IsCompleted() {
			return entities.Payment{}, ErrBookingAlreadyPaid
		}
		return existing, nil
	}

	now := u.now()
	p := entities.Payment{
		ID:        uuid.NewString(),
		BookingID: booking.ID,
		Amount:    booking.TotalPrice,
		Reference: initialReferencePrefix + uuid.NewString(),
		Status:    entities.PaymentStatusPending,
		Method:    u.gateway.Name(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := u.repo.Create(ctx, p)
	if errors.Is(err, interfaces.ErrPaymentAlreadyExists) {
		return u.preparePayment(ctx, booking)
	}
	if err != nil {
		return entities.Payment{}, err
	}
	return created, nil
}

func (u *PaymentUseCase) Verify(ctx context.Context, reference string) (PaymentVerification, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return PaymentVerification{}, ErrPaymentNotFound
	}

	p, err := u.repo.GetByReference(ctx, reference)
	if err != nil {
		return PaymentVerification{}, err
	}
	if p.BookingID == "" {
		slog.InfoContext(ctx, "[payment][usecase] verify unknown reference", "reference", reference)
		return PaymentVerification{}, ErrPaymentNotFound
	}

	if p.IsCompleted() {
		return u.alreadySettled(ctx, p)
	}
	if u.gateway == nil {
		return PaymentVerification{}, errors.New("payment gateway not configured")
	}

	slog.InfoContext(ctx, "[payment][usecase] verifying with gateway", "booking_id", p.BookingID, "reference", reference)
	res, err := u.gateway.Verify(ctx, p.Reference)
	if err != nil {
		var ge *interfaces.GatewayError
		if errors.As(err, &ge) {
			return u.failVerification(ctx, p, gatewayReason(err))
		}
		slog.WarnContext(ctx, "[payment][usecase] gateway unreachable during verify", "booking_id", p.BookingID, "err", err)
		return PaymentVerification{Payment: p}, fmt.Errorf("%w: %s", ErrPaymentGatewayUnavailable, gatewayReason(err))
	}
	if reason := amountMismatch(p.Amount, res); reason != "" {
		return u.failVerification(ctx, p, reason)
	}

	p.Status = entities.PaymentStatusCompleted
	if res.ProviderTransactionID != "" {
		p.ProviderTransactionID = res.ProviderTransactionID
	}
	p.FailureReason = ""
	p.UpdatedAt = u.now()
	settled, err := u.repo.Settle(ctx, p)
	if errors.Is(err, interfaces.ErrPaymentAlreadySettled) {
		current, gErr := u.repo.GetByBookingID(ctx, p.BookingID)
		if gErr != nil {
			return PaymentVerification{}, gErr
		}
		if current.IsCompleted() {
			// A concurrent verification won; it owns the notification.
			booking, _ := u.bookingRepo.GetByID(ctx, current.BookingID)
			return PaymentVerification{Payment: current, Booking: booking, AlreadySettled: true}, nil
		}
		return PaymentVerification{}, fmt.Errorf("%w: reference was superseded", ErrPaymentNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "[payment][usecase] settle failed", "booking_id", p.BookingID, "err", err)
		return PaymentVerification{}, err
	}
	slog.InfoContext(ctx, "[payment][usecase] payment completed", "booking_id", settled.BookingID, "reference", settled.Reference)

	booking, err := u.bookingRepo.GetByID(ctx, settled.BookingID)
	if err != nil {
		// Settled but unannounced; the next verify call sends the e-mail.
		return PaymentVerification{Payment: settled}, err
	}
	out := PaymentVerification{Payment: settled, Booking: booking}
	out.Notified = u.notifyOnce(ctx, &out.Payment, booking)
	return out, nil
}

func (u *PaymentUseCase) alreadySettled(ctx context.Context, p entities.Payment) (PaymentVerification, error) {
	booking, err := u.bookingRepo.GetByID(ctx, p.BookingID)
	if err != nil {
		return PaymentVerification{}, err
	}
	out := PaymentVerification{Payment: p, Booking: booking, AlreadySettled: true}
	if p.NotifiedAt == nil {
		out.Notified = u.notifyOnce(ctx, &out.Payment, booking)
	}
	return out, nil
}

func (u *PaymentUseCase) failVerification(ctx context.Context, p entities.Payment, reason string) (PaymentVerification, error) {
	slog.WarnContext(ctx, "[payment][usecase] verification rejected", "booking_id", p.BookingID, "reason", reason)
	failed, err := u.repo.MarkFailed(ctx, p.BookingID, reason)
	if errors.Is(err, interfaces.ErrPaymentAlreadySettled) {
		current, gErr := u.repo.GetByBookingID(ctx, p.BookingID)
		if gErr != nil {
			return PaymentVerification{}, gErr
		}
		return u.alreadySettled(ctx, current)
	}
	if err != nil {
		return PaymentVerification{}, err
	}
	booking, err := u.bookingRepo.GetByID(ctx, p.BookingID)
	if err != nil {
		return PaymentVerification{Payment: failed}, err
	}
	return PaymentVerification{Payment: failed, Booking: booking}, fmt.Errorf("%w: %s", ErrPaymentVerificationFailed, reason)
}

// notifyOnce sends the confirmation e-mail if this caller wins the
// notification claim. Delivery errors release the claim and are only logged:
// the payment is already settled and a later verify retries the e-mail.
func (u *PaymentUseCase) notifyOnce(ctx context.Context, p *entities.Payment, booking entities.Booking) bool {
	if u.notifier == nil {
		return false
	}
	if strings.TrimSpace(booking.UserEmail) == "" {
		slog.WarnContext(ctx, "[payment][usecase] booking has no e-mail, skipping notification", "booking_id", booking.ID)
		return false
	}

	at := u.now()
	if err := u.repo.ClaimNotification(ctx, p.BookingID, at); err != nil {
		if !errors.Is(err, interfaces.ErrNotificationAlreadyClaimed) {
			slog.ErrorContext(ctx, "[payment][usecase] notification claim failed", "booking_id", p.BookingID, "err", err)
		}
		return false
	}

	msg := confirmationEmail(u.settings.FromEmail, booking, *p)
	if err := u.notifier.Send(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "[payment][usecase] confirmation e-mail failed", "booking_id", p.BookingID, "err", err)
		if rErr := u.repo.ReleaseNotification(ctx, p.BookingID); rErr != nil {
			slog.ErrorContext(ctx, "[payment][usecase] notification release failed", "booking_id", p.BookingID, "err", rErr)
		}
		return false
	}
	p.NotifiedAt = &at
	slog.InfoContext(ctx, "[payment][usecase] confirmation e-mail dispatched", "booking_id", p.BookingID, "to", booking.UserEmail)
	return true
}

func (u *PaymentUseCase) GetByReference(ctx context.Context, reference string) (PaymentVerification, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return PaymentVerification{}, ErrPaymentNotFound
	}
	p, err := u.repo.GetByReference(ctx, reference)
	if err != nil {
		return PaymentVerification{}, err
	}
	if p.BookingID == "" {
		return PaymentVerification{}, ErrPaymentNotFound
	}
	booking, err := u.bookingRepo.GetByID(ctx, p.BookingID)
	if err != nil {
		return PaymentVerification{}, err
	}
	return PaymentVerification{Payment: p, Booking: booking, AlreadySettled: p.IsCompleted()}, nil
}

// ReconcilePending re-verifies payments that stayed pending longer than
// olderThan. Payments the gateway cannot be reached for stay pending.
func (u *PaymentUseCase) ReconcilePending(ctx context.Context, olderThan time.Duration) (ReconcileSummary, error) {
	cutoff := u.now().Add(-olderThan)
	pending, err := u.repo.ListPendingBefore(ctx, cutoff)
	if err != nil {
		return ReconcileSummary{}, err
	}

	var sum ReconcileSummary
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Checked++
		res, err := u.Verify(ctx, p.Reference)
		switch {
		case err == nil && res.Payment.IsCompleted():
			sum.Completed++
		case errors.Is(err, ErrPaymentVerificationFailed):
			sum.Failed++
		default:
			if err != nil {
				slog.WarnContext(ctx, "[payment][reconciler] payment left pending", "booking_id", p.BookingID, "err", err)
			}
			sum.Pending++
		}
	}
	return sum, nil
}

func (u *PaymentUseCase) describe(ctx context.Context, booking entities.Booking) (string, string) {
	title := "Booking " + booking.Reference
	if u.listingRepo != nil {
		if l, err := u.listingRepo.GetByID(ctx, booking.ListingID); err == nil && l.Title != "" {
			title = l.Title
		}
	}
	desc := fmt.Sprintf("Stay from %s to %s", booking.CheckIn.Format(time.DateOnly), booking.CheckOut.Format(time.DateOnly))
	return title, desc
}

func gatewayReason(err error) string {
	var ge *interfaces.GatewayError
	if errors.As(err, &ge) && strings.TrimSpace(ge.Message) != "" {
		return ge.Message
	}
	return err.Error()
}

// amountMismatch compares what the gateway reports as paid with the stored
// payment. Fields the gateway leaves empty are not checked.
func amountMismatch(expected money.Money, res interfaces.VerifyResult) string {
	if c := strings.TrimSpace(res.Currency); c != "" && !strings.EqualFold(c, expected.Currency) {
		return fmt.Sprintf("currency mismatch: expected %s, gateway reported %s", expected.Currency, c)
	}
	if a := strings.TrimSpace(res.Amount); a != "" {
		got, err := money.ParseMinorUnits(a)
		if err != nil {
			return fmt.Sprintf("gateway reported unreadable amount %q", a)
		}
		if got != expected.Amount {
			return fmt.Sprintf("amount mismatch: expected %s, gateway reported %s", expected.Decimal(), money.FormatMinorUnits(got))
		}
	}
	return ""
}

func confirmationEmail(from string, booking entities.Booking, p entities.Payment) entities.EmailMessage {
	body := fmt.Sprintf(
		"Your booking %s is confirmed.\n\nCheck-in: %s\nCheck-out: %s\nGuests: %d\nAmount paid: %s\nPayment reference: %s\n",
		booking.Reference,
		booking.CheckIn.Format(time.DateOnly),
		booking.CheckOut.Format(time.DateOnly),
		booking.Guests,
		p.Amount.String(),
		p.Reference,
	)
	return entities.EmailMessage{
		Subject: "Booking confirmed: " + booking.Reference,
		Body:    body,
		From:    from,
		To:      []string{booking.UserEmail},
	}
}
