package notification

import (
	"errors"
	"testing"

	"alx_travel_app/internal/infrastructure/broker/kafka"
	"alx_travel_app/internal/infrastructure/config"
)

func TestNewNotifier(t *testing.T) {
	t.Run("inline without smtp host logs mail", func(t *testing.T) {
		n, closeFn, err := NewNotifier(config.Config{NotificationMode: config.NotificationInline})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		inline, ok := n.(*InlineNotifier)
		if !ok {
			t.Fatalf("expected *InlineNotifier, got %T", n)
		}
		if _, ok := inline.mailer.(LogMailer); !ok {
			t.Fatalf("expected LogMailer, got %T", inline.mailer)
		}
		if err := closeFn(); err != nil {
			t.Fatalf("expected no close error, got %v", err)
		}
	})

	t.Run("queue mode falls back to inline when brokers are down", func(t *testing.T) {
		prev := newProducer
		defer func() { newProducer = prev }()
		var gotBrokers []string
		newProducer = func(brokers []string) (*kafka.Producer, error) {
			gotBrokers = brokers
			return nil, errors.New("kafka: client has run out of available brokers to talk to")
		}

		n, closeFn, err := NewNotifier(config.Config{NotificationMode: config.NotificationQueue, KafkaBrokers: []string{"127.0.0.1:1"}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(gotBrokers) != 1 || gotBrokers[0] != "127.0.0.1:1" {
			t.Fatalf("expected configured brokers, got %v", gotBrokers)
		}
		if _, ok := n.(*InlineNotifier); !ok {
			t.Fatalf("expected *InlineNotifier, got %T", n)
		}
		if err := closeFn(); err != nil {
			t.Fatalf("expected no close error, got %v", err)
		}
	})

	t.Run("queue mode with reachable brokers", func(t *testing.T) {
		prev := newProducer
		defer func() { newProducer = prev }()
		newProducer = func([]string) (*kafka.Producer, error) {
			return kafka.NewProducerFromSync(nil), nil
		}

		n, closeFn, err := NewNotifier(config.Config{NotificationMode: config.NotificationQueue, KafkaEmailTopic: "booking.emails"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := n.(*QueueNotifier); !ok {
			t.Fatalf("expected *QueueNotifier, got %T", n)
		}
		if err := closeFn(); err != nil {
			t.Fatalf("expected no close error, got %v", err)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		if _, _, err := NewNotifier(config.Config{NotificationMode: "carrier-pigeon"}); err == nil {
			t.Fatalf("expected error for unknown mode")
		}
	})

	t.Run("smtp settings", func(t *testing.T) {
		s := SMTPSettingsFrom(config.Config{SMTPHost: "smtp.example.com", SMTPPort: 2525, SMTPUsername: "u", SMTPPassword: "p"})
		if s.Host != "smtp.example.com" || s.Port != 2525 || s.Username != "u" || s.Password != "p" {
			t.Fatalf("unexpected settings %+v", s)
		}
	})
}
