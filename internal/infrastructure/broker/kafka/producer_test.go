package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestProducer_Publish(t *testing.T) {
	t.Run("sends keyed message with headers", func(t *testing.T) {
		sp := mocks.NewSyncProducer(t, nil)
		sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
			if msg.Topic != "booking.emails" {
				return errors.New("unexpected topic " + msg.Topic)
			}
			key, _ := msg.Key.Encode()
			if string(key) != "b-1" {
				return errors.New("unexpected key " + string(key))
			}
			if len(msg.Headers) != 1 || string(msg.Headers[0].Key) != "content-type" {
				return errors.New("missing content-type header")
			}
			return nil
		})
		p := NewProducerFromSync(sp)
		defer p.Close()

		err := p.Publish(context.Background(), "booking.emails", "b-1", []byte(`{}`), map[string]string{"content-type": "application/json"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("broker failure propagates", func(t *testing.T) {
		sp := mocks.NewSyncProducer(t, nil)
		sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
		p := NewProducerFromSync(sp)
		defer p.Close()

		err := p.Publish(context.Background(), "booking.emails", "b-1", []byte(`{}`), nil)
		if !errors.Is(err, sarama.ErrOutOfBrokers) {
			t.Fatalf("expected ErrOutOfBrokers, got %v", err)
		}
	})

	t.Run("cancelled context skips send", func(t *testing.T) {
		sp := mocks.NewSyncProducer(t, nil)
		p := NewProducerFromSync(sp)
		defer p.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := p.Publish(ctx, "booking.emails", "b-1", nil, nil); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}
