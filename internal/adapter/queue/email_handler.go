package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"alx_travel_app/internal/domain/entities"
	"alx_travel_app/internal/infrastructure/notification"
)

// EmailHandler delivers e-mails published by the queue notifier.
type EmailHandler struct {
	mailer notification.Mailer
}

func NewEmailHandler(mailer notification.Mailer) *EmailHandler {
	return &EmailHandler{mailer: mailer}
}

// Handle returns an error only for delivery failures; the consumer then
// retries the same message before moving on. Undecodable payloads are logged
// and acknowledged.
func (h *EmailHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var email entities.EmailMessage
	if err := json.Unmarshal(msg.Value, &email); err != nil {
		slog.ErrorContext(ctx, "[email][worker] dropping malformed message", "partition", msg.Partition, "offset", msg.Offset, "err", err)
		return nil
	}
	if len(email.To) == 0 {
		slog.ErrorContext(ctx, "[email][worker] dropping message without recipients", "partition", msg.Partition, "offset", msg.Offset)
		return nil
	}
	if err := h.mailer.Deliver(ctx, email); err != nil {
		return err
	}
	slog.InfoContext(ctx, "[email][worker] delivered", "subject", email.Subject, "offset", msg.Offset)
	return nil
}
