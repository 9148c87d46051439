package payments

import (
	"fmt"

	"alx_travel_app/internal/infrastructure/config"
	"alx_travel_app/internal/usecase/interfaces"
)

// NewGateway builds the provider selected by PAYMENT_GATEWAY.
func NewGateway(cfg config.Config) (interfaces.IPaymentGateway, error) {
	switch cfg.PaymentGateway {
	case config.GatewayChapa:
		return NewChapaGateway(cfg.ChapaBaseURL, cfg.ChapaSecretKey, cfg.PaymentGatewayTimeout)
	case config.GatewayMercadoPago:
		return NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, cfg.PaymentGatewayTimeout)
	case config.GatewayMock:
		return NewMockGateway(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported payment gateway %q", cfg.PaymentGateway)
	}
}
