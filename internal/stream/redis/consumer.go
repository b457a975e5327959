package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/sonar-sweep/internal/batch"
	"github.com/povarna/sonar-sweep/internal/metrics"
	"github.com/povarna/sonar-sweep/internal/sweep"
	"github.com/povarna/sonar-sweep/internal/trend"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	FieldSounding = "sounding"
	FieldDepth    = "depth"

	tallyKeyPrefix = "sweep:tally:"

	retryDelay    = time.Second
	evictInterval = time.Minute
)

var (
	errMalformedMessage = errors.New("malformed message")
	errLeaseLost        = errors.New("consumer lease lost")
)

type trackedSounding struct {
	tracker  *sweep.Tracker
	lastSeen time.Time
}

// Consumer reads depth soundings from a Redis stream and keeps running
// tallies per sounding in Redis hashes. Only the holder of the group lease
// reads, so each sounding is classified by one tracker in stream order.
type Consumer struct {
	client       *redis.Client
	lease        *Lease
	stream       string
	groupID      string
	consumerName string
	windowWidth  int
	idleTTL      time.Duration
	trackers     map[string]*trackedSounding
	lastEviction time.Time
	now          func() time.Time
	metrics      *metrics.Metrics
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *RedisStreamConfig, windowWidth int, m *metrics.Metrics, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		lease:        NewLease(client, cfg.Stream, cfg.Group, cfg.ConsumerName, cfg.LeaseTTL),
		stream:       cfg.Stream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		windowWidth:  windowWidth,
		idleTTL:      cfg.TrackerIdleTTL,
		trackers:     make(map[string]*trackedSounding),
		now:          time.Now,
		metrics:      m,
		logger:       logger,
	}
}

func TallyKey(sounding string) string {
	return tallyKeyPrefix + sounding
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// Start blocks until ctx is done. A consumer that does not hold the group
// lease waits as a standby. Losing the lease drops all sounding state.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		if err := c.waitForLease(ctx); err != nil {
			return err
		}

		err := c.consume(ctx)
		if !errors.Is(err, errLeaseLost) {
			return err
		}

		c.logger.Warn().Str("consumer", c.consumerName).Msg("Lease lost, dropping sounding state")
		c.trackers = make(map[string]*trackedSounding)
	}
}

func (c *Consumer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.lease.Release(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to release lease")
	}
	return c.client.Close()
}

func (c *Consumer) waitForLease(ctx context.Context) error {
	for {
		held, err := c.lease.Acquire(ctx)
		switch {
		case err != nil:
			c.logger.Error().Err(err).Msg("Failed to acquire lease")
		case held:
			c.logger.Info().
				Str("stream", c.stream).
				Str("group", c.groupID).
				Str("consumer", c.consumerName).
				Msg("Consumer started")
			return nil
		default:
			c.logger.Debug().Str("consumer", c.consumerName).Msg("Another consumer holds the lease, waiting")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.lease.RenewEvery()):
		}
	}
}

// consume reads the consumer's own pending entries first, then new ones.
// After a failed store it goes back to the pending entries so no depth of
// a sounding is skipped or reordered.
func (c *Consumer) consume(ctx context.Context) error {
	readID := "0"
	renewed := c.now()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if c.now().Sub(renewed) >= c.lease.RenewEvery() {
			held, err := c.lease.Renew(ctx)
			switch {
			case err != nil:
				c.logger.Error().Err(err).Msg("Failed to renew lease")
			case !held:
				return errLeaseLost
			default:
				renewed = c.now()
			}
		}

		c.evictIdle()

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, readID},
			Count:    10,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		if readID == "0" && countMessages(streams) == 0 {
			readID = ">"
			continue
		}

		if err := c.processAll(ctx, streams); err != nil {
			c.logger.Error().Err(err).Msg("Failed to process messages, retrying pending entries")
			readID = "0"
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
}

// processAll stops at the first message that could not be stored.
func (c *Consumer) processAll(ctx context.Context, streams []redis.XStream) error {
	for _, s := range streams {
		for _, msg := range s.Messages {
			if err := c.process(ctx, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// process classifies one message on a copy of the sounding's tracker. The
// copy replaces the tracker only once the tallies are stored and the
// message is ACKed.
func (c *Consumer) process(ctx context.Context, msg redis.XMessage) error {
	sounding, depth, err := decode(msg.Values)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		if c.metrics != nil {
			c.metrics.InvalidInput("stream")
		}
		c.ack(ctx, msg.ID) // bad message, ACK to skip it
		return nil
	}

	next, obs := c.advance(sounding, depth)

	pipe := c.client.Pipeline()
	key := TallyKey(sounding)
	for field, n := range tallyIncrements(obs) {
		pipe.HIncrBy(ctx, key, field, n)
	}
	pipe.XAck(ctx, c.stream, c.groupID, msg.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store tally of %s for message %s: %w", sounding, msg.ID, err)
	}

	c.commit(sounding, next)
	c.observeMetrics(obs)

	c.logger.Debug().
		Str("id", msg.ID).
		Str("sounding", sounding).
		Int("depth", depth).
		Msg("Sounding classified")
	return nil
}

// advance feeds depth to a copy of the sounding's tracker.
func (c *Consumer) advance(sounding string, depth int) (*sweep.Tracker, sweep.Observation) {
	var next *sweep.Tracker
	if entry, ok := c.trackers[sounding]; ok {
		next = entry.tracker.Clone()
	} else {
		next = sweep.NewTracker(c.windowWidth)
	}
	return next, next.Observe(depth)
}

func (c *Consumer) commit(sounding string, tracker *sweep.Tracker) {
	c.trackers[sounding] = &trackedSounding{tracker: tracker, lastSeen: c.now()}
}

// evictIdle forgets soundings idle for longer than idleTTL. A depth that
// arrives later starts a new comparison chain.
func (c *Consumer) evictIdle() {
	if c.idleTTL <= 0 {
		return
	}

	now := c.now()
	if now.Sub(c.lastEviction) < evictInterval {
		return
	}
	c.lastEviction = now

	evicted := 0
	for sounding, entry := range c.trackers {
		if now.Sub(entry.lastSeen) > c.idleTTL {
			delete(c.trackers, sounding)
			evicted++
		}
	}
	if evicted > 0 {
		c.logger.Info().Int("evicted", evicted).Int("tracked", len(c.trackers)).Msg("Evicted idle soundings")
	}
}

func (c *Consumer) observeMetrics(obs sweep.Observation) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveMeasurement()
	c.metrics.ObserveRecord(obs.Raw, false)
	if obs.Windowed != nil {
		c.metrics.ObserveRecord(*obs.Windowed, true)
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}

// tallyIncrements maps one observation to hash field increments.
func tallyIncrements(obs sweep.Observation) map[string]int64 {
	increments := map[string]int64{"measurements": 1}
	if field := tallyField(obs.Raw.Label); field != "" {
		increments[field]++
	}
	if obs.Windowed != nil {
		if field := tallyField(obs.Windowed.Label); field != "" {
			increments["windowed_"+field]++
		}
	}
	return increments
}

func tallyField(label trend.Label) string {
	switch label {
	case trend.LabelIncreased, trend.LabelDecreased, trend.LabelUnchanged:
		return string(label)
	default:
		return ""
	}
}

func countMessages(streams []redis.XStream) int {
	n := 0
	for _, s := range streams {
		n += len(s.Messages)
	}
	return n
}

func decode(values map[string]any) (string, int, error) {
	sounding, ok := values[FieldSounding].(string)
	if !ok || sounding == "" {
		return "", 0, fmt.Errorf("%w: missing %s field", errMalformedMessage, FieldSounding)
	}

	raw, ok := values[FieldDepth].(string)
	if !ok {
		return "", 0, fmt.Errorf("%w: missing %s field", errMalformedMessage, FieldDepth)
	}

	depth, err := batch.ParseMeasurement(raw)
	if err != nil {
		return "", 0, err
	}
	return sounding, depth, nil
}
