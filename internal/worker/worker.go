package worker

import (
	"context"
	"encoding/json"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// auditStore is the slice of the store the audit worker touches.
type auditStore interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	InsertOrderEvent(ctx context.Context, orderID int64, eventType string, payload []byte) error
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// AuditWorker consumes order lifecycle events and records them in the
// order_events audit table. Processing is idempotent: redelivered events
// are skipped via the processed_events table.
type AuditWorker struct {
	consumer *broker.Consumer
	store    auditStore
	logger   *zap.Logger
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer, store *store.Store) *AuditWorker {
	return &AuditWorker{
		consumer: consumer,
		store:    store,
		logger:   util.GetLogger().Named("audit"),
	}
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	log.Println("Starting audit worker...")
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	log.Println("Stopping audit worker...")
	return w.consumer.Close()
}

func (w *AuditWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	var event struct {
		models.BaseEvent
		OrderID int64 `json:"order_id"`
	}
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		w.logger.Error("Failed to unmarshal event", zap.Error(err))
		// Poison message, commit and move on.
		return nil
	}

	// An event without an id cannot be deduplicated; recording it under
	// the empty key would swallow every later id-less event.
	if event.EventID == "" {
		w.logger.Warn("Event without id, recording without dedup",
			zap.String("event_type", event.EventType),
			zap.Int64("order_id", event.OrderID))
		if err := w.store.InsertOrderEvent(ctx, event.OrderID, event.EventType, msg.Value); err != nil {
			return err
		}
		util.AuditEventsTotal.WithLabelValues(event.EventType).Inc()
		return nil
	}

	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		return nil
	}

	if err := w.store.InsertOrderEvent(ctx, event.OrderID, event.EventType, msg.Value); err != nil {
		return err
	}
	if err := w.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		return err
	}

	util.AuditEventsTotal.WithLabelValues(event.EventType).Inc()
	return nil
}
