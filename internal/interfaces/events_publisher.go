package interfaces

import "context"

// EventPublisher ships ledger events to downstream consumers. The ledger calls
// Publish from one goroutine at a time, in the order operations were applied.
// key groups events of one account so consumers see them in order.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
