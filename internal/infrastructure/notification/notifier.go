package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/usecase/interfaces"
)

// InlineNotifier delivers synchronously on the caller's goroutine.
type InlineNotifier struct {
	mailer Mailer
}

func NewInlineNotifier(mailer Mailer) *InlineNotifier {
	return &InlineNotifier{mailer: mailer}
}

func (n *InlineNotifier) Send(ctx context.Context, msg entities.EmailMessage) error {
	if err := n.mailer.Deliver(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "[email][inline] delivery failed", "subject", msg.Subject, "err", err)
		return err
	}
	return nil
}

// Publisher is the part of the Kafka producer the queue notifier needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// QueueNotifier enqueues messages for the email worker. When the broker
// refuses the message it falls back to inline delivery.
type QueueNotifier struct {
	publisher Publisher
	topic     string
	fallback  interfaces.INotifier
}

func NewQueueNotifier(publisher Publisher, topic string, fallback interfaces.INotifier) *QueueNotifier {
	return &QueueNotifier{publisher: publisher, topic: topic, fallback: fallback}
}

func (n *QueueNotifier) Send(ctx context.Context, msg entities.EmailMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	headers := map[string]string{"content-type": "application/json"}
	key := strings.Join(msg.To, ",")
	if err := n.publisher.Publish(ctx, n.topic, key, payload, headers); err != nil {
		slog.WarnContext(ctx, "[email][queue] enqueue failed, sending inline", "topic", n.topic, "err", err)
		if n.fallback == nil {
			return fmt.Errorf("enqueue email: %w", err)
		}
		return n.fallback.Send(ctx, msg)
	}
	slog.InfoContext(ctx, "[email][queue] message enqueued", "topic", n.topic, "subject", msg.Subject)
	return nil
}

var (
	_ interfaces.INotifier = (*InlineNotifier)(nil)
	_ interfaces.INotifier = (*QueueNotifier)(nil)
)
