package kafka

import (
	"context"
)

// LocalBus delivers events to handlers in-process, synchronously, on the
// publishing goroutine. Used when no brokers are configured.
type LocalBus struct {
	handlers handlerSet
}

// NewLocalBus creates an empty in-process bus
func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

// RegisterHandler registers an event handler for a specific event type
func (b *LocalBus) RegisterHandler(eventType string, handler EventHandler) {
	b.handlers.register(eventType, handler)
}

// Publish stamps the event and hands it to the registered handler.
// Handler errors are logged, never returned to the publisher.
func (b *LocalBus) Publish(ctx context.Context, event Event) error {
	_ = dispatch(ctx, &b.handlers, Stamp(event))
	return nil
}
