package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"alx_travel_app/internal/usecase/interfaces"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentSearcher interface {
	Search(ctx context.Context, request payment.SearchRequest) (*payment.SearchResponse, error)
}

// MercadoPagoGateway opens a Checkout Pro preference per booking and
// verifies it by searching payments with the same external reference.
type MercadoPagoGateway struct {
	preferences preferenceCreator
	payments    paymentSearcher
	timeout     time.Duration
}

func NewMercadoPagoGateway(accessToken string, timeout time.Duration) (*MercadoPagoGateway, error) {
	if strings.TrimSpace(accessToken) == "" {
		slog.Error("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		slog.Error("[payment][gateway] failed creating sdk config", "err", err)
		return nil, err
	}
	slog.Info("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
		timeout:     timeout,
	}, nil
}

func (g *MercadoPagoGateway) Name() string { return "mercadopago" }

func (g *MercadoPagoGateway) Initialize(ctx context.Context, req interfaces.InitializeRequest) (interfaces.InitializeResult, error) {
	unitPrice, _ := strconv.ParseFloat(req.Amount.Decimal(), 64)
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	slog.InfoContext(ctx, "[payment][gateway] mercadopago preference start", "tx_ref", req.TxRef, "amount", req.Amount.Decimal())
	resp, err := g.preferences.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{{
			Title:       req.Title,
			Description: req.Description,
			Quantity:    1,
			UnitPrice:   unitPrice,
			CurrencyID:  req.Amount.Currency,
		}},
		Payer: &preference.PayerRequest{
			Email:   req.Email,
			Name:    req.FirstName,
			Surname: req.LastName,
		},
		BackURLs: &preference.BackURLsRequest{
			Success: req.ReturnURL,
			Failure: req.ReturnURL,
			Pending: req.ReturnURL,
		},
		ExternalReference: req.TxRef,
		NotificationURL:   req.CallbackURL,
	})
	if err != nil {
		slog.WarnContext(ctx, "[payment][gateway] sdk preference create failed", "tx_ref", req.TxRef, "err", err)
		return interfaces.InitializeResult{}, classifySDKError(err)
	}
	if resp == nil || resp.InitPoint == "" {
		return interfaces.InitializeResult{}, &interfaces.GatewayError{Message: "preference has no init_point"}
	}
	slog.InfoContext(ctx, "[payment][gateway] mercadopago preference created", "tx_ref", req.TxRef, "preference_id", resp.ID)

	return interfaces.InitializeResult{
		TxRef:                 req.TxRef,
		CheckoutURL:           resp.InitPoint,
		ProviderTransactionID: resp.ID,
	}, nil
}

// Verify succeeds when any payment for the reference is approved. Payments
// still in flight are reported as a transport failure so the caller retries
// later; a reference whose payments were all refused is a rejection.
func (g *MercadoPagoGateway) Verify(ctx context.Context, txRef string) (interfaces.VerifyResult, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	resp, err := g.payments.Search(ctx, payment.SearchRequest{
		Filters: map[string]string{"external_reference": txRef},
	})
	if err != nil {
		slog.WarnContext(ctx, "[payment][gateway] sdk payment search failed", "tx_ref", txRef, "err", err)
		return interfaces.VerifyResult{}, classifySDKError(err)
	}
	if resp == nil || len(resp.Results) == 0 {
		return interfaces.VerifyResult{}, &interfaces.TransportError{Err: errors.New("no payment registered for reference yet")}
	}

	var last string
	inFlight := false
	for _, p := range resp.Results {
		switch p.Status {
		case "approved":
			return interfaces.VerifyResult{
				TxRef:                 txRef,
				ProviderTransactionID: fmt.Sprintf("%d", p.ID),
				Amount:                strconv.FormatFloat(p.TransactionAmount, 'f', 2, 64),
				Currency:              p.CurrencyID,
			}, nil
		case "pending", "in_process", "authorized", "in_mediation":
			inFlight = true
		}
		last = p.Status + " " + p.StatusDetail
	}
	if inFlight {
		return interfaces.VerifyResult{}, &interfaces.TransportError{Err: errors.New("payment still in process")}
	}
	return interfaces.VerifyResult{}, &interfaces.GatewayError{Message: "payment " + strings.TrimSpace(last)}
}

func (g *MercadoPagoGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

// classifySDKError keeps network and deadline failures retryable; anything
// the API answered is treated as a refusal.
func classifySDKError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return &interfaces.TransportError{Err: err}
	}
	return &interfaces.GatewayError{Message: err.Error()}
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)
