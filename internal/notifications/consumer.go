package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Kobby-jnrr/kstore-backend/internal/orders"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
	"github.com/Kobby-jnrr/kstore-backend/pkg/outbox"
)

const consumerName = "notifications"

type markerStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	ConsumerMarkerKey(consumer, eventID string) string
}

type feedInserter interface {
	Insert(ctx context.Context, title, message string, target enums.NotificationTarget) error
}

// Consumer materializes order events from Pub/Sub into feed notifications.
// Replayed deliveries are dropped via redis marker keys.
type Consumer struct {
	feed      feedInserter
	markers   markerStore
	markerTTL time.Duration
	logg      *logger.Logger

	handled map[enums.OutboxEventType]struct{}
}

// NewConsumer builds the notifications consumer.
func NewConsumer(feed feedInserter, markers markerStore, markerTTL time.Duration, logg *logger.Logger) (*Consumer, error) {
	if feed == nil {
		return nil, fmt.Errorf("notification feed required")
	}
	if markers == nil {
		return nil, fmt.Errorf("marker store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if markerTTL <= 0 {
		markerTTL = 30 * 24 * time.Hour
	}
	return &Consumer{
		feed:      feed,
		markers:   markers,
		markerTTL: markerTTL,
		logg:      logg,
		handled: map[enums.OutboxEventType]struct{}{
			enums.EventOrderCreated:           {},
			enums.EventOrderItemStatusChanged: {},
		},
	}, nil
}

// Process handles one decoded outbox envelope.
func (c *Consumer) Process(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) error {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": eventType,
	})

	if _, ok := c.handled[eventType]; !ok {
		c.logg.Info(logCtx, "event not handled by notifications consumer")
		return nil
	}
	if envelope.EventID == "" {
		return fmt.Errorf("event id missing")
	}

	key := c.markers.ConsumerMarkerKey(consumerName, envelope.EventID)
	fresh, err := c.markers.SetNX(ctx, key, "1", c.markerTTL)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if !fresh {
		c.logg.Info(logCtx, "event already processed")
		return nil
	}

	if err := c.handle(ctx, eventType, envelope); err != nil {
		// Drop the marker so redelivery retries the insert.
		_ = c.markers.Del(ctx, key)
		c.logg.Error(logCtx, "failed to materialize notification", err)
		return err
	}

	c.logg.Info(logCtx, "notification materialized")
	return nil
}

func (c *Consumer) handle(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) error {
	switch eventType {
	case enums.EventOrderCreated:
		var event orders.OrderCreatedEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			return fmt.Errorf("decode order created: %w", err)
		}
		title := fmt.Sprintf("New order #%d", event.OrderNumber)
		message := fmt.Sprintf("Order #%d with %d item(s) is waiting for review.", event.OrderNumber, event.ItemCount)
		if err := c.feed.Insert(ctx, title, message, enums.NotificationTargetVendor); err != nil {
			return err
		}
		return c.feed.Insert(
			ctx,
			fmt.Sprintf("Order #%d placed", event.OrderNumber),
			fmt.Sprintf("We received your order #%d. Vendors are reviewing it now.", event.OrderNumber),
			enums.NotificationTargetCustomer,
		)

	case enums.EventOrderItemStatusChanged:
		var event orders.ItemStatusChangedEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			return fmt.Errorf("decode item status changed: %w", err)
		}
		title := fmt.Sprintf("Order #%d update", event.OrderNumber)
		message := fmt.Sprintf("Order #%d is now %s.", event.OrderNumber, event.OrderStatus)
		if len(event.Changes) == 1 {
			message = fmt.Sprintf("An item in order #%d moved to %s.", event.OrderNumber, event.Changes[0].To)
		}
		return c.feed.Insert(ctx, title, message, enums.NotificationTargetCustomer)
	}
	return nil
}
