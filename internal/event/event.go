package event

import (
	"context"
	"log"
	"time"
)

const (
	OrderPlaced        = "order_placed"
	OrderAssigned      = "order_assigned"
	OrderStatusUpdated = "order_status_updated"
	ProductCreated     = "product_created"
	ProductUpdated     = "product_updated"
)

// Event is a domain notification fanned out to live dashboards and the message bus
type Event struct {
	Type       string                 `json:"type"`
	Action     string                 `json:"action"`
	Key        string                 `json:"key"`
	Data       map[string]interface{} `json:"data"`
	User       map[string]interface{} `json:"user,omitempty"`
	Message    string                 `json:"message,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Multi delivers to every publisher; failures are logged and never surfaced
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			log.Printf("Warning: failed to publish %s event: %v", ev.Action, err)
		}
	}
	return nil
}

// Nop discards events
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
