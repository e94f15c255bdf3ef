package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestLocalBusDispatchesByType(t *testing.T) {
	bus := NewLocalBus()
	var got []Event
	bus.RegisterHandler(EventTypeCartItemAdded, func(ctx context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	ctx := context.Background()
	if err := bus.Publish(ctx, Event{EventType: EventTypeCartItemAdded, Barcode: "123"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	// No handler for this one
	if err := bus.Publish(ctx, Event{EventType: EventTypeCartCleared}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("handled %d events, want 1", len(got))
	}
	if got[0].EventID == "" || got[0].Timestamp.IsZero() {
		t.Fatalf("event was not stamped: %+v", got[0])
	}
}

func TestLocalBusSwallowsHandlerErrors(t *testing.T) {
	bus := NewLocalBus()
	bus.RegisterHandler(EventTypeProfileSaved, func(context.Context, Event) error {
		return errors.New("db down")
	})
	if err := bus.Publish(context.Background(), Event{EventType: EventTypeProfileSaved}); err != nil {
		t.Fatalf("Publish() error = %v, want nil", err)
	}
}

func TestPublisherSendsHeadersAndKey(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != TopicEvents {
			return errors.New("wrong topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "737628064502" {
			return errors.New("wrong key " + string(key))
		}
		var found bool
		for _, h := range msg.Headers {
			if string(h.Key) == "event_type" && string(h.Value) == EventTypeProductScanned {
				found = true
			}
		}
		if !found {
			return errors.New("missing event_type header")
		}
		body, _ := msg.Value.Encode()
		var e Event
		if err := json.Unmarshal(body, &e); err != nil {
			return err
		}
		if e.EventID == "" {
			return errors.New("event id not stamped")
		}
		return nil
	})

	p := newPublisher(producer, nil)
	defer p.Close()

	err := p.Publish(context.Background(), Event{
		EventType: EventTypeProductScanned,
		Barcode:   "737628064502",
		Allergens: []string{"Peanuts"},
	})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}

func TestConsumerHandleMessage(t *testing.T) {
	c := &Consumer{}
	var got Event
	c.RegisterHandler(EventTypeFamilySaved, func(ctx context.Context, e Event) error {
		got = e
		return nil
	})

	body, _ := json.Marshal(Event{EventID: "e1", EventType: EventTypeFamilySaved, Allergens: []string{"Milk"}})
	c.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Topic: TopicEvents,
		Value: body,
		Headers: []*sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(EventTypeFamilySaved)},
		},
	})

	if got.EventID != "e1" || len(got.Allergens) != 1 {
		t.Fatalf("handler got %+v", got)
	}
}
