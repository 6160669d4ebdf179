// internal/workers/scoring/recalculate-all-scores/config.go
package recalculateallscores

import (
	"time"

	"recruit-scoring/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wc config.WorkerConfig) *Config {
	timeout := config.GetDuration(wc.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{
		Timeout: timeout,
	}
}
