package calculatejobmatch

import (
	"time"

	"careerguide-workers/internal/common/config"
	"careerguide-workers/internal/eligibility"
)

type Config struct {
	Timeout time.Duration
	// RecommendThreshold is the score a match must exceed to be flagged as
	// recommended.
	RecommendThreshold float64
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout:            config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		RecommendThreshold: cfg.Eligibility.RecommendThreshold,
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RecommendThreshold <= 0 {
		c.RecommendThreshold = eligibility.RecommendThreshold
	}
	return c
}
