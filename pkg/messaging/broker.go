package messaging

import "context"

// Broker carries record change events between the API process and any
// listening session. One channel per record collection.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// ChangeChannel names the pub/sub channel carrying a collection's changes.
func ChangeChannel(collection string) string {
	return "changes." + collection
}
