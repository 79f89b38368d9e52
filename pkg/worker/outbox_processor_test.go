package worker

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/internal/repository"
	"github.com/odontocare/clinic-api/pkg/logger"
	"github.com/odontocare/clinic-api/pkg/messaging"
	"github.com/odontocare/clinic-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("clinic", "worker_test")

type fakeOutboxRepo struct {
	pending  []*model.OutboxEvent
	statuses map[uuid.UUID]model.OutboxStatus
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error { return nil }

func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return f.pending, nil
}

func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMessage *string) error {
	if f.statuses == nil {
		f.statuses = make(map[uuid.UUID]model.OutboxStatus)
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeBroker struct {
	mu        sync.Mutex
	published map[string]int
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.published == nil {
		f.published = make(map[string]int)
	}
	f.published[channel]++
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

var _ repository.OutboxRepository = (*fakeOutboxRepo)(nil)
var _ messaging.Broker = (*fakeBroker)(nil)

func newTestProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	l := logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, l, testMetrics)
}

func TestProcessEventsPublishesOnCollectionChannel(t *testing.T) {
	event := &model.OutboxEvent{
		ID:         uuid.New(),
		Collection: "patients",
		Action:     "create",
		Payload:    []byte(`{"event_id":"x"}`),
		Status:     model.OutboxStatusPending,
	}
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{event}}
	broker := &fakeBroker{}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, 1, broker.published[messaging.ChangeChannel("patients")])
	assert.Equal(t, model.OutboxStatusProcessed, repo.statuses[event.ID])

	// Both the fetch and the status write report their store latency.
	assert.Equal(t, 2, testutil.CollectAndCount(testMetrics.StoreLatency))
}
