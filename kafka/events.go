package kafka

import (
	"context"
	"time"
)

// Event is a state change in the device's profile, family list, cart or scans
type Event struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Barcode   string    `json:"barcode,omitempty"`
	Name      string    `json:"name,omitempty"`
	Allergens []string  `json:"allergens,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeProductScanned     = "product.scanned"
	EventTypeCartItemAdded      = "cart.item_added"
	EventTypeCartItemRemoved    = "cart.item_removed"
	EventTypeCartItemUpdated    = "cart.item_updated"
	EventTypeCartCleared        = "cart.cleared"
	EventTypeProfileSaved       = "profile.saved"
	EventTypeProfileCleared     = "profile.cleared"
	EventTypeAllergyAdded       = "profile.allergy_added"
	EventTypeFamilyMemberAdded  = "family.member_added"
	EventTypeFamilyMemberRemove = "family.member_removed"
	EventTypeFamilySaved        = "family.saved"
)

// AllEventTypes lists every event type the service emits
var AllEventTypes = []string{
	EventTypeProductScanned,
	EventTypeCartItemAdded,
	EventTypeCartItemRemoved,
	EventTypeCartItemUpdated,
	EventTypeCartCleared,
	EventTypeProfileSaved,
	EventTypeProfileCleared,
	EventTypeAllergyAdded,
	EventTypeFamilyMemberAdded,
	EventTypeFamilyMemberRemove,
	EventTypeFamilySaved,
}

// Kafka topics
const (
	TopicEvents = "allergyscan-events"
)

// EventPublisher is what the use cases publish through
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event Event) error

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
