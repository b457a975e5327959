package stream

import "context"

// StreamConsumer classifies soundings arriving on a message stream.
type StreamConsumer interface {
	// Setup creates the consumer group if it does not exist yet.
	Setup(ctx context.Context) error
	// Start blocks until ctx is done. Only one consumer of a group reads
	// at a time; the others wait as standbys.
	Start(ctx context.Context) error
	// Stop hands the group to a standby and closes the connection.
	Stop() error
}
