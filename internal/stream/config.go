package stream

import "github.com/povarna/sonar-sweep/internal/stream/redis"

type StreamConfig struct {
	Provider    string // only redis for now
	WindowWidth int
	MaxRetries  int
	RedisConfig *redis.RedisStreamConfig
}
