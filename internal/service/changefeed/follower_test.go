package changefeed

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/pkg/logger"
	"github.com/odontocare/clinic-api/pkg/messaging"
)

type fakeBroker struct {
	mu       sync.Mutex
	channels map[string]chan []byte
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{channels: make(map[string]chan []byte)}
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	f.mu.Lock()
	ch, ok := f.channels[channel]
	f.mu.Unlock()
	if !ok {
		return nil
	}
	ch <- message.([]byte)
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan []byte, 16)
	f.channels[channel] = ch
	return ch, nil
}

func (f *fakeBroker) Close() error { return nil }

var _ messaging.Broker = (*fakeBroker)(nil)

func newTestFollower(broker messaging.Broker) *Follower {
	l := logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
	return NewFollower(broker, l)
}

func rawPatient(name string) json.RawMessage {
	row, _ := json.Marshal(map[string]string{"name": name})
	return row
}

func TestFollowerStagedRowIsVisibleBeforeEcho(t *testing.T) {
	f := newTestFollower(newFakeBroker())
	recordID := uuid.New()

	f.Stage("patients", recordID, uuid.New(), rawPatient("Maria Souza"))

	row, ok := f.Latest("patients", recordID)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Maria Souza"}`, string(row))

	_, ok = f.Latest("patients", uuid.New())
	assert.False(t, ok, "unobserved records are absent")
}

func TestFollowerOwnEchoConfirmsStagedRow(t *testing.T) {
	f := newTestFollower(newFakeBroker())
	recordID := uuid.New()
	eventID := uuid.New()

	f.Stage("patients", recordID, eventID, rawPatient("Maria Souza"))
	f.Apply(&model.ChangeEvent{
		EventID:    eventID,
		Collection: "patients",
		Action:     ActionUpdate,
		RecordID:   recordID,
		Row:        rawPatient("Maria Souza"),
	})

	row, ok := f.Latest("patients", recordID)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Maria Souza"}`, string(row))

	// The write is no longer in flight, so a later foreign push wins.
	f.Apply(&model.ChangeEvent{
		EventID:    uuid.New(),
		Collection: "patients",
		Action:     ActionUpdate,
		RecordID:   recordID,
		Row:        rawPatient("Maria S. Lima"),
	})
	row, ok = f.Latest("patients", recordID)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Maria S. Lima"}`, string(row))
}

func TestFollowerForeignEchoDoesNotClobberInFlightWrite(t *testing.T) {
	f := newTestFollower(newFakeBroker())
	recordID := uuid.New()
	eventID := uuid.New()

	f.Stage("patients", recordID, eventID, rawPatient("Maria Souza"))

	// Another session's write lands while ours is still in flight.
	f.Apply(&model.ChangeEvent{
		EventID:    uuid.New(),
		Collection: "patients",
		Action:     ActionUpdate,
		RecordID:   recordID,
		Row:        rawPatient("Maria S. Lima"),
	})

	row, ok := f.Latest("patients", recordID)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Maria Souza"}`, string(row), "staged row survives a foreign push")

	// Our own echo arriving afterwards resolves the write.
	f.Apply(&model.ChangeEvent{
		EventID:    eventID,
		Collection: "patients",
		Action:     ActionUpdate,
		RecordID:   recordID,
		Row:        rawPatient("Maria Souza"),
	})
	row, ok = f.Latest("patients", recordID)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Maria Souza"}`, string(row))
}

func TestFollowerDeleteRemovesView(t *testing.T) {
	f := newTestFollower(newFakeBroker())
	recordID := uuid.New()

	f.Stage("patients", recordID, uuid.New(), rawPatient("Maria Souza"))
	f.Apply(&model.ChangeEvent{
		EventID:    uuid.New(),
		Collection: "patients",
		Action:     ActionDelete,
		RecordID:   recordID,
	})

	_, ok := f.Latest("patients", recordID)
	assert.False(t, ok)
}

func TestFollowerAppliesPublishedEvents(t *testing.T) {
	broker := newFakeBroker()
	f := newTestFollower(broker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, f.Start(ctx, "patients"))

	recordID := uuid.New()
	payload, err := json.Marshal(&model.ChangeEvent{
		EventID:    uuid.New(),
		Collection: "patients",
		Action:     ActionCreate,
		RecordID:   recordID,
		Row:        rawPatient("Maria Souza"),
	})
	require.NoError(t, err)
	require.NoError(t, broker.Publish(ctx, messaging.ChangeChannel("patients"), payload))

	require.Eventually(t, func() bool {
		_, ok := f.Latest("patients", recordID)
		return ok
	}, time.Second, 10*time.Millisecond)

	row, _ := f.Latest("patients", recordID)
	assert.JSONEq(t, `{"name":"Maria Souza"}`, string(row))
}
