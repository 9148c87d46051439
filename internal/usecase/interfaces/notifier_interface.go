package interfaces

import (
	"context"

	"alx_travel_app/internal/domain/entities"
)

// INotifier delivers e-mail notifications, either inline or through a queue.
// A returned error means the message was neither queued nor sent.
type INotifier interface {
	Send(ctx context.Context, msg entities.EmailMessage) error
}
