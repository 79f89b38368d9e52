package changefeed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/odontocare/clinic-api/internal/form"
	"github.com/odontocare/clinic-api/internal/model"
	"github.com/odontocare/clinic-api/pkg/logger"
	"github.com/odontocare/clinic-api/pkg/messaging"
)

// Follower mirrors the change feed into the latest observed version of each
// record. A locally staged write is visible on the mirror at once; its feed
// echo then confirms it, and a foreign echo arriving while the local write
// is still in flight does not clobber the staged row. The mirror may trail
// the store briefly; the last write observed is authoritative.
type Follower struct {
	broker messaging.Broker
	logger *logger.Logger

	mu    sync.RWMutex
	views map[string]*view
}

type view struct {
	row json.RawMessage
	// eventID is the outbox event a staged row is waiting on; uuid.Nil once
	// the echo has arrived.
	eventID uuid.UUID
}

func NewFollower(broker messaging.Broker, logger *logger.Logger) *Follower {
	return &Follower{
		broker: broker,
		logger: logger,
		views:  make(map[string]*view),
	}
}

// Start subscribes to each collection's change channel and applies events as
// they arrive. Subscriptions are torn down when ctx is cancelled.
func (f *Follower) Start(ctx context.Context, collections ...string) error {
	for _, collection := range collections {
		ch, err := f.broker.Subscribe(ctx, messaging.ChangeChannel(collection))
		if err != nil {
			return err
		}
		go f.consume(collection, ch)
	}
	return nil
}

func (f *Follower) consume(collection string, ch <-chan []byte) {
	for payload := range ch {
		var ev model.ChangeEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			f.logger.Error(err, "Failed to decode change event", "collection", collection)
			continue
		}
		f.Apply(&ev)
	}
}

// Stage records a local write before its feed echo arrives, keyed by the
// outbox event that will carry the echo.
func (f *Follower) Stage(collection string, recordID, eventID uuid.UUID, row json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[viewKey(collection, recordID)] = &view{row: row, eventID: eventID}
}

// Latest returns the newest observed row for the record, which is the staged
// local copy until its echo arrives.
func (f *Follower) Latest(collection string, recordID uuid.UUID) (json.RawMessage, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.views[viewKey(collection, recordID)]
	if !ok {
		return nil, false
	}
	return v.row, true
}

// Apply folds one feed event into the mirror. The pushed row and the held
// copy go through the reconcile rule: the pushed row wins except when it is
// a foreign echo overlapping a still in-flight local write.
func (f *Follower) Apply(ev *model.ChangeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := viewKey(ev.Collection, ev.RecordID)
	if ev.Action == ActionDelete {
		delete(f.views, key)
		return
	}

	v := f.views[key]
	var local *json.RawMessage
	inFlight := false
	if v != nil {
		local = &v.row
		inFlight = v.eventID != uuid.Nil && v.eventID != ev.EventID
	}

	row := form.Reconcile(local, &ev.Row, inFlight)
	if v == nil {
		v = &view{}
		f.views[key] = v
	}
	v.row = *row
	if v.eventID == ev.EventID {
		v.eventID = uuid.Nil
	}
}

func viewKey(collection string, recordID uuid.UUID) string {
	return collection + "/" + recordID.String()
}
