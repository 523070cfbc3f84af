// Package events announces confirmed orders to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopswift/storefront/models"
)

const EventOrderPlaced = "order.placed"

// Publisher delivers an encoded event. key groups related events (the
// session id) for transports that partition.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Close() error
}

// PublishOrderPlaced encodes evt and hands it to p, stamping the type and
// timestamp when the caller left them empty.
func PublishOrderPlaced(ctx context.Context, p Publisher, evt models.OrderPlacedEvent) error {
	if evt.EventType == "" {
		evt.EventType = EventOrderPlaced
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s: %w", evt.EventType, err)
	}
	return p.Publish(ctx, evt.SessionID, data)
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) error { return nil }

func (NoopPublisher) Close() error { return nil }
