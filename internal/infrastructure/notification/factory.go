package notification

import (
	"fmt"
	"log/slog"

	"alx_travel_app/internal/infrastructure/broker/kafka"
	"alx_travel_app/internal/infrastructure/config"
	"alx_travel_app/internal/usecase/interfaces"
)

// SMTPSettingsFrom extracts the mail relay settings from cfg.
func SMTPSettingsFrom(cfg config.Config) SMTPSettings {
	return SMTPSettings{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	}
}

// newProducer is replaced in tests.
var newProducer = func(brokers []string) (*kafka.Producer, error) {
	return kafka.NewProducer(brokers, nil)
}

// NewNotifier builds the dispatcher selected by NOTIFICATION_MODE. The
// returned close func releases the Kafka producer in queue mode. When the
// brokers cannot be reached at start-up, queue mode degrades to inline
// delivery instead of failing.
func NewNotifier(cfg config.Config) (interfaces.INotifier, func() error, error) {
	inline := NewInlineNotifier(NewMailer(SMTPSettingsFrom(cfg)))

	switch cfg.NotificationMode {
	case config.NotificationInline, "":
		return inline, func() error { return nil }, nil
	case config.NotificationQueue:
		producer, err := newProducer(cfg.KafkaBrokers)
		if err != nil {
			slog.Warn("[email][notifier] kafka unavailable, sending e-mails inline", "brokers", cfg.KafkaBrokers, "err", err)
			return inline, func() error { return nil }, nil
		}
		return NewQueueNotifier(producer, cfg.KafkaEmailTopic, inline), producer.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported notification mode %q", cfg.NotificationMode)
	}
}
