// internal/workers/scoring/summarize-score-distribution/config.go
package summarizescoredistribution

import (
	"time"

	"recruit-scoring/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	TopCandidates int
}

// LoadConfig allows a minute by default; the whole population is loaded
// and scored per job.
func LoadConfig(wc config.WorkerConfig, topCandidates int) *Config {
	timeout := config.GetDuration(wc.Timeout)
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Config{
		Timeout:       timeout,
		TopCandidates: topCandidates,
	}
}
