// internal/workers/matching/find-matches/config.go
package findmatches

import "time"

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
	MaxLimit     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      20 * time.Second,
		DefaultLimit: 10,
		MaxLimit:     50,
	}
}
