// internal/workers/matching/parse-profile-filters/config.go
package parseprofilefilters

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
