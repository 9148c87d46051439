package payments

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"alx_travel_app/internal/usecase/interfaces"
)

// MockGateway approves every transaction it initialized. It is meant for
// local runs without provider credentials.
type MockGateway struct {
	checkoutBase string

	mu      sync.Mutex
	amounts map[string]interfaces.InitializeRequest
}

func NewMockGateway(publicBaseURL string) *MockGateway {
	slog.Info("[payment][gateway] mock mode enabled")
	return &MockGateway{
		checkoutBase: strings.TrimRight(publicBaseURL, "/"),
		amounts:      map[string]interfaces.InitializeRequest{},
	}
}

func (g *MockGateway) Name() string { return "mock" }

func (g *MockGateway) Initialize(ctx context.Context, req interfaces.InitializeRequest) (interfaces.InitializeResult, error) {
	g.mu.Lock()
	g.amounts[req.TxRef] = req
	g.mu.Unlock()

	slog.InfoContext(ctx, "[payment][gateway] mock initialize", "tx_ref", req.TxRef)
	checkout := req.ReturnURL
	if checkout == "" {
		checkout = g.checkoutBase + "/mock-checkout/" + req.TxRef
	}
	return interfaces.InitializeResult{
		TxRef:                 req.TxRef,
		CheckoutURL:           checkout,
		ProviderTransactionID: "mock-" + uuid.NewString(),
	}, nil
}

func (g *MockGateway) Verify(ctx context.Context, txRef string) (interfaces.VerifyResult, error) {
	g.mu.Lock()
	req, ok := g.amounts[txRef]
	g.mu.Unlock()

	slog.InfoContext(ctx, "[payment][gateway] mock verify", "tx_ref", txRef, "known", ok)
	res := interfaces.VerifyResult{
		TxRef:                 txRef,
		ProviderTransactionID: "mock-" + txRef,
	}
	// After a restart the amount is unknown; leaving it empty skips the
	// amount check.
	if ok {
		res.Amount = req.Amount.Decimal()
		res.Currency = req.Amount.Currency
	}
	return res, nil
}

var _ interfaces.IPaymentGateway = (*MockGateway)(nil)
