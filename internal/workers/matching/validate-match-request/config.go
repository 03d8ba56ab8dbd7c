// internal/workers/matching/validate-match-request/config.go
package validatematchrequest

import "time"

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
	MaxLimit     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		DefaultLimit: 10,
		MaxLimit:     50,
	}
}
