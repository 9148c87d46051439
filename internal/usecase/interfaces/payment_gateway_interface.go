package interfaces

import (
	"context"
	"fmt"

	"alx_travel_app/internal/domain/money"
)

// IPaymentGateway abstracts external payment providers (Chapa-style hosted
// checkout, Mercado Pago).
//
// Implementations report failures only through the two error types below so
// callers can tell a definitive rejection from a transient outage:
//   - *GatewayError: the provider answered and refused (non-2xx, status != success).
//   - *TransportError: the provider could not be reached or its answer could not be read.
type IPaymentGateway interface {
	Name() string
	Initialize(ctx context.Context, req InitializeRequest) (InitializeResult, error)
	Verify(ctx context.Context, txRef string) (VerifyResult, error)
}

type InitializeRequest struct {
	Amount      money.Money
	TxRef       string
	Email       string
	FirstName   string
	LastName    string
	CallbackURL string
	ReturnURL   string
	Title       string
	Description string
}

type InitializeResult struct {
	TxRef                 string
	CheckoutURL           string
	ProviderTransactionID string
}

// VerifyResult is only returned for a successful verification.
// Amount and Currency are empty when the provider does not report them.
type VerifyResult struct {
	TxRef                 string
	ProviderTransactionID string
	Amount                string
	Currency              string
}

type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("payment gateway rejected request (status %d): %s", e.StatusCode, e.Message)
	}
	return "payment gateway rejected request: " + e.Message
}

type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "payment gateway unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
