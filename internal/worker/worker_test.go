package worker

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuditStore struct {
	processed map[string]bool
	inserted  int
	checked   int
}

func newFakeAuditStore() *fakeAuditStore {
	return &fakeAuditStore{processed: map[string]bool{}}
}

func (f *fakeAuditStore) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	f.checked++
	return f.processed[eventID], nil
}

func (f *fakeAuditStore) InsertOrderEvent(ctx context.Context, orderID int64, eventType string, payload []byte) error {
	f.inserted++
	return nil
}

func (f *fakeAuditStore) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	f.processed[eventID] = true
	return nil
}

func message(value string) kafka.Message {
	return kafka.Message{Value: []byte(value)}
}

func TestHandleMessageDeduplicates(t *testing.T) {
	store := newFakeAuditStore()
	w := &AuditWorker{store: store, logger: zap.NewNop()}
	ctx := context.Background()

	msg := message(`{"event_id":"evt-1","event_type":"ORDER_CREATED","order_id":7}`)

	require.NoError(t, w.handleMessage(ctx, msg))
	require.NoError(t, w.handleMessage(ctx, msg))

	assert.Equal(t, 1, store.inserted)
	assert.True(t, store.processed["evt-1"])
}

func TestHandleMessageWithoutEventID(t *testing.T) {
	store := newFakeAuditStore()
	w := &AuditWorker{store: store, logger: zap.NewNop()}
	ctx := context.Background()

	// Events lacking an id cannot be deduplicated. Each one must still
	// land in the audit table, and none may be recorded under the empty
	// key where it would shadow the next id-less event.
	require.NoError(t, w.handleMessage(ctx,
		message(`{"event_type":"ORDER_DELETED","order_id":1}`)))
	require.NoError(t, w.handleMessage(ctx,
		message(`{"event_type":"ORDER_DELETED","order_id":2}`)))

	assert.Equal(t, 2, store.inserted)
	assert.Equal(t, 0, store.checked)
	assert.Empty(t, store.processed)
}

func TestHandleMessageSkipsPoison(t *testing.T) {
	store := newFakeAuditStore()
	w := &AuditWorker{store: store, logger: zap.NewNop()}

	err := w.handleMessage(context.Background(), message(`{not json`))

	assert.NoError(t, err)
	assert.Zero(t, store.inserted)
}
