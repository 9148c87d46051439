package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"alx_travel_app/internal/usecase/interfaces"
)

var ErrMissingChapaSecretKey = errors.New("missing CHAPA_SECRET_KEY")

const chapaStatusSuccess = "success"

// ChapaGateway talks to a Chapa-style hosted checkout API.
type ChapaGateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewChapaGateway(baseURL, secretKey string, timeout time.Duration) (*ChapaGateway, error) {
	if strings.TrimSpace(secretKey) == "" {
		slog.Error("[payment][gateway] missing CHAPA_SECRET_KEY")
		return nil, ErrMissingChapaSecretKey
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ChapaGateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (g *ChapaGateway) Name() string { return "chapa" }

type chapaCustomization struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type chapaInitializeRequest struct {
	Amount        string             `json:"amount"`
	Currency      string             `json:"currency"`
	TxRef         string             `json:"tx_ref"`
	Email         string             `json:"email,omitempty"`
	FirstName     string             `json:"first_name,omitempty"`
	LastName      string             `json:"last_name,omitempty"`
	CallbackURL   string             `json:"callback_url"`
	ReturnURL     string             `json:"return_url"`
	Customization chapaCustomization `json:"customization"`
}

type chapaEnvelope struct {
	Status  string          `json:"status"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type chapaCheckoutData struct {
	TxRef       string `json:"tx_ref"`
	CheckoutURL string `json:"checkout_url"`
}

type chapaVerifyData struct {
	Status    string      `json:"status"`
	TxRef     string      `json:"tx_ref"`
	Reference string      `json:"reference"`
	Amount    json.Number `json:"amount"`
	Currency  string      `json:"currency"`
}

func (g *ChapaGateway) Initialize(ctx context.Context, req interfaces.InitializeRequest) (interfaces.InitializeResult, error) {
	body := chapaInitializeRequest{
		Amount:      req.Amount.Decimal(),
		Currency:    req.Amount.Currency,
		TxRef:       req.TxRef,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CallbackURL: req.CallbackURL,
		ReturnURL:   req.ReturnURL,
		Customization: chapaCustomization{
			Title:       req.Title,
			Description: req.Description,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return interfaces.InitializeResult{}, &interfaces.TransportError{Err: err}
	}

	slog.InfoContext(ctx, "[payment][gateway] chapa initialize start", "tx_ref", req.TxRef, "amount", body.Amount, "currency", body.Currency)
	env, err := g.do(ctx, http.MethodPost, "/transaction/initialize", payload)
	if err != nil {
		slog.WarnContext(ctx, "[payment][gateway] chapa initialize failed", "tx_ref", req.TxRef, "err", err)
		return interfaces.InitializeResult{}, err
	}

	var data chapaCheckoutData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return interfaces.InitializeResult{}, &interfaces.TransportError{Err: fmt.Errorf("decode checkout data: %w", err)}
	}
	if data.CheckoutURL == "" {
		return interfaces.InitializeResult{}, &interfaces.GatewayError{Message: "response is missing checkout_url"}
	}
	if data.TxRef == "" {
		data.TxRef = req.TxRef
	}
	slog.InfoContext(ctx, "[payment][gateway] chapa initialize success", "tx_ref", data.TxRef)

	return interfaces.InitializeResult{
		TxRef:       data.TxRef,
		CheckoutURL: data.CheckoutURL,
		// Chapa identifies hosted checkouts by the merchant tx_ref.
		ProviderTransactionID: data.TxRef,
	}, nil
}

func (g *ChapaGateway) Verify(ctx context.Context, txRef string) (interfaces.VerifyResult, error) {
	env, err := g.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(txRef), nil)
	if err != nil {
		slog.WarnContext(ctx, "[payment][gateway] chapa verify failed", "tx_ref", txRef, "err", err)
		return interfaces.VerifyResult{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(env.Data))
	dec.UseNumber()
	var data chapaVerifyData
	if err := dec.Decode(&data); err != nil {
		return interfaces.VerifyResult{}, &interfaces.TransportError{Err: fmt.Errorf("decode verify data: %w", err)}
	}
	if !strings.EqualFold(data.Status, chapaStatusSuccess) {
		return interfaces.VerifyResult{}, &interfaces.GatewayError{Message: fmt.Sprintf("transaction status %q", data.Status)}
	}

	res := interfaces.VerifyResult{
		TxRef:                 data.TxRef,
		ProviderTransactionID: data.Reference,
		Amount:                data.Amount.String(),
		Currency:              strings.ToUpper(data.Currency),
	}
	if res.TxRef == "" {
		res.TxRef = txRef
	}
	if res.ProviderTransactionID == "" {
		res.ProviderTransactionID = res.TxRef
	}
	return res, nil
}

// do performs the request and returns the decoded envelope of a successful
// answer. Every failure is already a *GatewayError or *TransportError.
func (g *ChapaGateway) do(ctx context.Context, method, path string, payload []byte) (chapaEnvelope, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return chapaEnvelope{}, &interfaces.TransportError{Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return chapaEnvelope{}, &interfaces.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return chapaEnvelope{}, &interfaces.TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	var env chapaEnvelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := messageText(env.Message)
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return chapaEnvelope{}, &interfaces.GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return chapaEnvelope{}, &interfaces.TransportError{Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if !strings.EqualFold(env.Status, chapaStatusSuccess) {
		msg := messageText(env.Message)
		if msg == "" {
			msg = fmt.Sprintf("status %q", env.Status)
		}
		return chapaEnvelope{}, &interfaces.GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}
	return env, nil
}

// messageText flattens Chapa's message field, which is either a string or
// an object of field errors.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err == nil {
		parts := make([]string, 0, len(fields))
		for k, v := range fields {
			parts = append(parts, fmt.Sprintf("%s: %v", k, v))
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	return string(raw)
}

var _ interfaces.IPaymentGateway = (*ChapaGateway)(nil)
