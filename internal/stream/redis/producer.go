package redis

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

type Producer struct {
	client *redis.Client
	stream string
}

func NewProducer(client *redis.Client, stream string) *Producer {
	if stream == "" {
		stream = DefaultStream
	}
	return &Producer{client: client, stream: stream}
}

// Publish appends one depth of the given sounding to the stream and returns
// the entry id.
func (p *Producer) Publish(ctx context.Context, sounding string, depth int) (string, error) {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			FieldSounding: sounding,
			FieldDepth:    strconv.Itoa(depth),
		},
	}).Result()
}

// Tally reads the running tallies stored for a sounding.
func Tally(ctx context.Context, client *redis.Client, sounding string) (map[string]string, error) {
	return client.HGetAll(ctx, TallyKey(sounding)).Result()
}
