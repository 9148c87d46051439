package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	GatewayChapa       = "chapa"
	GatewayMercadoPago = "mercadopago"
	GatewayMock        = "mock"

	NotificationQueue  = "queue"
	NotificationInline = "inline"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env           string
	HTTPAddr      string
	PublicBaseURL string
	JWTSecret     string

	PaymentGateway         string
	ChapaBaseURL           string
	ChapaSecretKey         string
	MercadoPagoAccessToken string
	PaymentCurrency        string
	PaymentGatewayTimeout  time.Duration

	NotificationMode string
	DefaultFromEmail string
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string

	KafkaBrokers    []string
	KafkaEmailTopic string
	KafkaGroupID    string

	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoDBEndpoint   string

	ReconcileInterval time.Duration
	ReconcileAfter    time.Duration
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:                    getEnv("APP_ENV", "dev"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		PublicBaseURL:          strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		PaymentGateway:         strings.ToLower(getEnv("PAYMENT_GATEWAY", GatewayChapa)),
		ChapaBaseURL:           strings.TrimRight(getEnv("CHAPA_BASE_URL", "https://api.chapa.co/v1"), "/"),
		ChapaSecretKey:         os.Getenv("CHAPA_SECRET_KEY"),
		MercadoPagoAccessToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		PaymentCurrency:        strings.ToUpper(getEnv("PAYMENT_CURRENCY", "ETB")),
		NotificationMode:       strings.ToLower(getEnv("NOTIFICATION_MODE", NotificationInline)),
		DefaultFromEmail:       getEnv("DEFAULT_FROM_EMAIL", "noreply@alxtravel.local"),
		SMTPHost:               os.Getenv("SMTP_HOST"),
		SMTPUsername:           os.Getenv("SMTP_USERNAME"),
		SMTPPassword:           os.Getenv("SMTP_PASSWORD"),
		KafkaEmailTopic:        getEnv("KAFKA_EMAIL_TOPIC", "booking.emails"),
		KafkaGroupID:           getEnv("KAFKA_GROUP_ID", "alx-travel-email-worker"),
		S3Endpoint:             os.Getenv("S3_ENDPOINT"),
		S3PublicEndpoint:       os.Getenv("S3_PUBLIC_ENDPOINT"),
		S3AccessKey:            getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:            getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:               getEnv("S3_BUCKET", "listing-images"),
		AWSRegion:              getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:         os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:     os.Getenv("AWS_SECRET_ACCESS_KEY"),
		DynamoDBEndpoint:       os.Getenv("DYNAMODB_ENDPOINT"),
	}

	brokers := getEnv("KAFKA_BROKERS", "")
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}

	mock, err := parseBoolEnv("PAYMENT_GATEWAY_MOCK", false)
	if err != nil {
		return Config{}, err
	}
	if mock {
		cfg.PaymentGateway = GatewayMock
	}

	timeout, err := parseDurationEnv("PAYMENT_GATEWAY_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.PaymentGatewayTimeout = timeout

	port, err := parseIntEnv("SMTP_PORT", 587)
	if err != nil {
		return Config{}, err
	}
	cfg.SMTPPort = port

	useSSL, err := parseBoolEnv("S3_USE_SSL", false)
	if err != nil {
		return Config{}, err
	}
	cfg.S3UseSSL = useSSL
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}

	interval, err := parseDurationEnv("RECONCILE_INTERVAL", time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.ReconcileInterval = interval

	after, err := parseDurationEnv("RECONCILE_AFTER", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.ReconcileAfter = after

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.PaymentGateway {
	case GatewayChapa:
		if c.ChapaSecretKey == "" {
			return fmt.Errorf("CHAPA_SECRET_KEY is required when PAYMENT_GATEWAY=%s", GatewayChapa)
		}
	case GatewayMercadoPago:
		if c.MercadoPagoAccessToken == "" {
			return fmt.Errorf("MERCADOPAGO_ACCESS_TOKEN is required when PAYMENT_GATEWAY=%s", GatewayMercadoPago)
		}
	case GatewayMock:
	default:
		return fmt.Errorf("invalid PAYMENT_GATEWAY %q", c.PaymentGateway)
	}
	switch c.NotificationMode {
	case NotificationInline:
	case NotificationQueue:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when NOTIFICATION_MODE=%s", NotificationQueue)
		}
	default:
		return fmt.Errorf("invalid NOTIFICATION_MODE %q", c.NotificationMode)
	}
	if len(c.PaymentCurrency) != 3 {
		return fmt.Errorf("invalid PAYMENT_CURRENCY %q", c.PaymentCurrency)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on", "mock":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
