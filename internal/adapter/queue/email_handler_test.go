package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"

	"alx_travel_app/internal/domain/entities"
)

type stubMailer struct {
	got []entities.EmailMessage
	err error
}

func (m *stubMailer) Deliver(_ context.Context, msg entities.EmailMessage) error {
	m.got = append(m.got, msg)
	return m.err
}

func TestEmailHandler_Handle(t *testing.T) {
	valid := []byte(`{"subject":"Booking confirmed: r-1","body":"hi","from":"noreply@alxtravel.local","to":["guest@example.com"]}`)

	t.Run("delivers decoded message", func(t *testing.T) {
		m := &stubMailer{}
		if err := NewEmailHandler(m).Handle(context.Background(), &sarama.ConsumerMessage{Value: valid}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(m.got) != 1 || m.got[0].To[0] != "guest@example.com" {
			t.Fatalf("unexpected deliveries %+v", m.got)
		}
	})

	t.Run("malformed payload is acknowledged", func(t *testing.T) {
		m := &stubMailer{}
		if err := NewEmailHandler(m).Handle(context.Background(), &sarama.ConsumerMessage{Value: []byte("{")}); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
		if len(m.got) != 0 {
			t.Fatalf("expected no delivery")
		}
	})

	t.Run("missing recipients is acknowledged", func(t *testing.T) {
		m := &stubMailer{}
		if err := NewEmailHandler(m).Handle(context.Background(), &sarama.ConsumerMessage{Value: []byte(`{"subject":"x"}`)}); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
		if len(m.got) != 0 {
			t.Fatalf("expected no delivery")
		}
	})

	t.Run("delivery failure is returned", func(t *testing.T) {
		boom := errors.New("smtp down")
		err := NewEmailHandler(&stubMailer{err: boom}).Handle(context.Background(), &sarama.ConsumerMessage{Value: valid})
		if !errors.Is(err, boom) {
			t.Fatalf("expected delivery error, got %v", err)
		}
	})
}
