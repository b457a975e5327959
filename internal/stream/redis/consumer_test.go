package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/povarna/sonar-sweep/internal/batch"
	"github.com/povarna/sonar-sweep/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newTestConsumer() *Consumer {
	logger := zerolog.Nop()
	cfg := NewRedisStreamConfig("localhost:6379", "", "", "", "")
	return NewConsumer(nil, cfg, 3, metrics.New(prometheus.NewRegistry()), &logger)
}

// feed advances and commits a depth without touching Redis.
func feed(c *Consumer, sounding string, depth int) map[string]int64 {
	next, obs := c.advance(sounding, depth)
	c.commit(sounding, next)
	return tallyIncrements(obs)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr error
	}{
		{"valid", map[string]any{"sounding": "s1", "depth": "199"}, nil},
		{"missing sounding", map[string]any{"depth": "199"}, errMalformedMessage},
		{"missing depth", map[string]any{"sounding": "s1"}, errMalformedMessage},
		{"bad depth", map[string]any{"sounding": "s1", "depth": "deep"}, batch.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sounding, depth, err := decode(tt.values)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sounding != "s1" || depth != 199 {
				t.Errorf("got (%s, %d), want (s1, 199)", sounding, depth)
			}
		})
	}
}

func TestConsumer_Observe(t *testing.T) {
	c := newTestConsumer()

	totals := map[string]int64{}
	for _, depth := range []int{199, 200, 208, 210, 200, 207, 240, 269, 260, 263} {
		for field, n := range feed(c, "s1", depth) {
			totals[field] += n
		}
	}

	want := map[string]int64{
		"measurements":       10,
		"increased":          7,
		"decreased":          2,
		"windowed_increased": 5,
		"windowed_decreased": 1,
		"windowed_unchanged": 1,
	}
	for field, n := range want {
		if totals[field] != n {
			t.Errorf("%s: got %d, want %d", field, totals[field], n)
		}
	}
	if _, ok := totals["unchanged"]; ok {
		t.Errorf("raw sample has no unchanged values, got %d", totals["unchanged"])
	}
}

func TestConsumer_ObserveKeepsSoundingsApart(t *testing.T) {
	c := newTestConsumer()

	feed(c, "a", 1)
	first := feed(c, "b", 5)
	if _, ok := first["increased"]; ok {
		t.Error("first depth of a new sounding must not count as an increase")
	}

	second := feed(c, "a", 2)
	if second["increased"] != 1 {
		t.Errorf("expected increase on sounding a, got %v", second)
	}
	if len(c.trackers) != 2 {
		t.Errorf("expected 2 trackers, got %d", len(c.trackers))
	}
}

func TestNewRedisStreamConfig_Defaults(t *testing.T) {
	cfg := NewRedisStreamConfig("addr", "", "", "", "")
	if cfg.Stream != DefaultStream || cfg.Group != DefaultGroup {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if TallyKey("s1") != "sweep:tally:s1" {
		t.Errorf("unexpected tally key %s", TallyKey("s1"))
	}
}

func TestConsumer_ProcessStoreFailureKeepsTracker(t *testing.T) {
	logger := zerolog.Nop()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	c := NewConsumer(client, NewRedisStreamConfig("127.0.0.1:1", "", "", "", ""), 3, nil, &logger)

	for i, depth := range []string{"100", "200"} {
		msg := redis.XMessage{ID: "1-" + depth, Values: map[string]any{"sounding": "s1", "depth": depth}}
		if err := c.process(context.Background(), msg); err == nil {
			t.Fatalf("message %d: expected store error with redis unreachable", i)
		}
	}

	if _, ok := c.trackers["s1"]; ok {
		t.Fatal("tracker must not advance when the tally was not stored")
	}

	// Once stored, the next depth is still the first of the chain.
	first := feed(c, "s1", 100)
	if len(first) != 1 || first["measurements"] != 1 {
		t.Errorf("expected first depth to only count a measurement, got %v", first)
	}
	second := feed(c, "s1", 200)
	if second["increased"] != 1 {
		t.Errorf("expected 100 -> 200 to increase, got %v", second)
	}
}

func TestConsumer_ProcessStoreFailureRestoresExistingTracker(t *testing.T) {
	logger := zerolog.Nop()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	c := NewConsumer(client, NewRedisStreamConfig("127.0.0.1:1", "", "", "", ""), 3, nil, &logger)
	feed(c, "s1", 100)

	msg := redis.XMessage{ID: "2-0", Values: map[string]any{"sounding": "s1", "depth": "50"}}
	if err := c.process(context.Background(), msg); err == nil {
		t.Fatal("expected store error with redis unreachable")
	}

	got := feed(c, "s1", 300)
	if got["increased"] != 1 {
		t.Errorf("expected 100 -> 300 after the failed 50, got %v", got)
	}
	if tally := c.trackers["s1"].tracker.Raw(); tally.Decreased != 0 || tally.Increased != 1 {
		t.Errorf("unexpected tally %+v", tally)
	}
}

func TestConsumer_ProcessMalformedIsSkipped(t *testing.T) {
	logger := zerolog.Nop()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	c := NewConsumer(client, NewRedisStreamConfig("127.0.0.1:1", "", "", "", ""), 3, nil, &logger)

	msg := redis.XMessage{ID: "3-0", Values: map[string]any{"sounding": "s1", "depth": "deep"}}
	if err := c.process(context.Background(), msg); err != nil {
		t.Errorf("malformed message should be skipped, got %v", err)
	}
	if len(c.trackers) != 0 {
		t.Errorf("expected no trackers, got %d", len(c.trackers))
	}
}

func TestConsumer_EvictIdle(t *testing.T) {
	c := newTestConsumer()
	c.idleTTL = time.Hour

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	c.now = func() time.Time { return now }

	feed(c, "old", 1)
	now = start.Add(50 * time.Minute)
	feed(c, "recent", 1)

	now = start.Add(90 * time.Minute)
	c.evictIdle()

	if _, ok := c.trackers["old"]; ok {
		t.Error("expected idle sounding to be evicted")
	}
	if _, ok := c.trackers["recent"]; !ok {
		t.Error("expected recent sounding to be kept")
	}

	first := feed(c, "old", 5)
	if _, ok := first["increased"]; ok {
		t.Error("an evicted sounding starts a new chain")
	}
}

func TestConsumer_EvictIdleDisabled(t *testing.T) {
	c := newTestConsumer()
	c.idleTTL = 0

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	c.now = func() time.Time { return now }

	feed(c, "s1", 1)
	now = start.Add(1000 * time.Hour)
	c.evictIdle()

	if len(c.trackers) != 1 {
		t.Errorf("expected tracker to be kept, got %d", len(c.trackers))
	}
}
