package response

import (
	"time"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/usecase"
	"alx_travel_app/pkg"
)

type PaymentResponse struct {
	ID                    string     `json:"id"`
	BookingID             string     `json:"booking_id"`
	Reference             string     `json:"reference"`
	Amount                string     `json:"amount"`
	Currency              string     `json:"currency"`
	Status                string     `json:"status"`
	Method                string     `json:"method"`
	ProviderTransactionID string     `json:"provider_transaction_id,omitempty"`
	CheckoutURL           string     `json:"checkout_url,omitempty"`
	FailureReason         string     `json:"failure_reason,omitempty"`
	NotifiedAt            *time.Time `json:"notified_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

type PaymentInitiationResponse struct {
	CheckoutURL string          `json:"checkout_url"`
	Payment     PaymentResponse `json:"payment"`
	Booking     BookingResponse `json:"booking"`
}

// PaymentVerificationResponse is the body returned to the gateway callback
// and to the success page.
type PaymentVerificationResponse struct {
	PaymentStatus  string          `json:"payment_status"`
	BookingStatus  string          `json:"booking_status"`
	AlreadySettled bool            `json:"already_settled"`
	Payment        PaymentResponse `json:"payment"`
	Booking        BookingResponse `json:"booking"`
	Error          *pkg.HTTPError  `json:"error,omitempty"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                    p.ID,
		BookingID:             p.BookingID,
		Reference:             p.Reference,
		Amount:                p.Amount.Decimal(),
		Currency:              p.Amount.Currency,
		Status:                string(p.Status),
		Method:                p.Method,
		ProviderTransactionID: p.ProviderTransactionID,
		CheckoutURL:           p.CheckoutURL,
		FailureReason:         p.FailureReason,
		NotifiedAt:            p.NotifiedAt,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func FromPaymentInitiation(i usecase.PaymentInitiation) PaymentInitiationResponse {
	return PaymentInitiationResponse{
		CheckoutURL: i.CheckoutURL,
		Payment:     FromPayment(i.Payment),
		Booking:     FromBooking(i.Booking),
	}
}

func FromPaymentVerification(v usecase.PaymentVerification) PaymentVerificationResponse {
	return PaymentVerificationResponse{
		PaymentStatus:  string(v.Payment.Status),
		BookingStatus:  string(v.Booking.Status),
		AlreadySettled: v.AlreadySettled,
		Payment:        FromPayment(v.Payment),
		Booking:        FromBooking(v.Booking),
	}
}
