package redis

import "time"

const (
	DefaultStream = "sonar-soundings"
	DefaultGroup  = "sweep-group"

	DefaultLeaseTTL       = 30 * time.Second
	DefaultTrackerIdleTTL = 24 * time.Hour
)

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	Group         string
	ConsumerName  string

	// LeaseTTL bounds how long a crashed consumer blocks its standby.
	LeaseTTL time.Duration
	// TrackerIdleTTL evicts soundings without depths for this long.
	// Zero keeps them until the process exits.
	TrackerIdleTTL time.Duration
}

func NewRedisStreamConfig(redisAddr string, redisPassword string, stream string, group string, consumerName string) *RedisStreamConfig {
	if stream == "" {
		stream = DefaultStream
	}
	if group == "" {
		group = DefaultGroup
	}
	if consumerName == "" {
		consumerName = "sweep-consumer"
	}
	return &RedisStreamConfig{
		RedisAddr:      redisAddr,
		RedisPassword:  redisPassword,
		Stream:         stream,
		Group:          group,
		ConsumerName:   consumerName,
		LeaseTTL:       DefaultLeaseTTL,
		TrackerIdleTTL: DefaultTrackerIdleTTL,
	}
}
