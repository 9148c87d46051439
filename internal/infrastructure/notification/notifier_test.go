package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"alx_travel_app/internal/domain/entities"
	mock_interfaces "alx_travel_app/internal/usecase/interfaces/mocks"
)

type recordingMailer struct {
	sent []entities.EmailMessage
	err  error
}

func (m *recordingMailer) Deliver(_ context.Context, msg entities.EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type publishCall struct {
	topic, key string
	payload    []byte
	headers    map[string]string
}

type fakePublisher struct {
	calls []publishCall
	err   error
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, payload []byte, headers map[string]string) error {
	p.calls = append(p.calls, publishCall{topic: topic, key: key, payload: payload, headers: headers})
	return p.err
}

func confirmation() entities.EmailMessage {
	return entities.EmailMessage{
		Subject: "Booking confirmed: b-ref",
		Body:    "Your booking b-ref is confirmed.\n",
		From:    "noreply@alxtravel.local",
		To:      []string{"guest@example.com"},
	}
}

func TestInlineNotifier_Send(t *testing.T) {
	t.Run("delivers through mailer", func(t *testing.T) {
		m := &recordingMailer{}
		if err := NewInlineNotifier(m).Send(context.Background(), confirmation()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(m.sent) != 1 {
			t.Fatalf("expected 1 delivery, got %d", len(m.sent))
		}
	})

	t.Run("propagates mailer error", func(t *testing.T) {
		boom := errors.New("relay refused")
		err := NewInlineNotifier(&recordingMailer{err: boom}).Send(context.Background(), confirmation())
		if !errors.Is(err, boom) {
			t.Fatalf("expected relay error, got %v", err)
		}
	})
}

func TestQueueNotifier_Send(t *testing.T) {
	t.Run("publishes json payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fallback := mock_interfaces.NewMockINotifier(ctrl)
		pub := &fakePublisher{}

		if err := NewQueueNotifier(pub, "booking.emails", fallback).Send(context.Background(), confirmation()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pub.calls) != 1 || pub.calls[0].topic != "booking.emails" || pub.calls[0].key != "guest@example.com" {
			t.Fatalf("unexpected publish calls %+v", pub.calls)
		}
		var got entities.EmailMessage
		if err := json.Unmarshal(pub.calls[0].payload, &got); err != nil {
			t.Fatalf("payload is not json: %v", err)
		}
		if got.Subject != "Booking confirmed: b-ref" || got.To[0] != "guest@example.com" {
			t.Fatalf("unexpected payload %+v", got)
		}
	})

	t.Run("falls back to inline on enqueue failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fallback := mock_interfaces.NewMockINotifier(ctrl)
		fallback.EXPECT().Send(gomock.Any(), confirmation()).Return(nil)
		pub := &fakePublisher{err: errors.New("kafka: client has run out of available brokers")}

		if err := NewQueueNotifier(pub, "booking.emails", fallback).Send(context.Background(), confirmation()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("fallback error propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fallback := mock_interfaces.NewMockINotifier(ctrl)
		boom := errors.New("smtp down")
		fallback.EXPECT().Send(gomock.Any(), gomock.Any()).Return(boom)
		pub := &fakePublisher{err: errors.New("broker down")}

		err := NewQueueNotifier(pub, "booking.emails", fallback).Send(context.Background(), confirmation())
		if !errors.Is(err, boom) {
			t.Fatalf("expected fallback error, got %v", err)
		}
	})
}

func TestSMTPMailer_Deliver(t *testing.T) {
	t.Run("renders headers and body", func(t *testing.T) {
		var gotAddr string
		var gotTo []string
		var gotMsg string
		m := NewSMTPMailer(SMTPSettings{Host: "smtp.example.com", Port: 2525, Username: "u", Password: "p"})
		m.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
		m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotTo, gotMsg = addr, to, string(msg)
			if a == nil {
				t.Errorf("expected auth to be configured")
			}
			return nil
		}

		if err := m.Deliver(context.Background(), confirmation()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotAddr != "smtp.example.com:2525" || len(gotTo) != 1 {
			t.Fatalf("unexpected envelope addr=%s to=%v", gotAddr, gotTo)
		}
		for _, want := range []string{"Subject: Booking confirmed: b-ref\r\n", "To: guest@example.com\r\n", "\r\n\r\nYour booking b-ref is confirmed.\r\n"} {
			if !strings.Contains(gotMsg, want) {
				t.Fatalf("expected message to contain %q, got %q", want, gotMsg)
			}
		}
	})

	t.Run("no recipients", func(t *testing.T) {
		m := NewSMTPMailer(SMTPSettings{Host: "smtp.example.com"})
		msg := confirmation()
		msg.To = nil
		if err := m.Deliver(context.Background(), msg); !errors.Is(err, ErrNoRecipients) {
			t.Fatalf("expected ErrNoRecipients, got %v", err)
		}
	})

	t.Run("relay error is wrapped", func(t *testing.T) {
		boom := errors.New("550 mailbox unavailable")
		m := NewSMTPMailer(SMTPSettings{Host: "smtp.example.com"})
		m.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return boom }
		if err := m.Deliver(context.Background(), confirmation()); !errors.Is(err, boom) {
			t.Fatalf("expected relay error, got %v", err)
		}
	})
}

func TestNewMailer(t *testing.T) {
	if _, ok := NewMailer(SMTPSettings{}).(LogMailer); !ok {
		t.Fatalf("expected log mailer without host")
	}
	if _, ok := NewMailer(SMTPSettings{Host: "smtp.example.com"}).(*SMTPMailer); !ok {
		t.Fatalf("expected smtp mailer with host")
	}
}
