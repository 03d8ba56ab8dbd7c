// internal/workers/matching/query-candidates/config.go
package querycandidates

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
