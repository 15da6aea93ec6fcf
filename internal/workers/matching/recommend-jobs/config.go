package recommendjobs

import (
	"time"

	"careerguide-workers/internal/common/config"
	"careerguide-workers/internal/eligibility"
)

type Config struct {
	Timeout            time.Duration
	Threshold          float64
	MaxRecommendations int
	// CandidatePool is how many open jobs are fetched for scoring.
	CandidatePool int
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout:            config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		Threshold:          cfg.Eligibility.RecommendThreshold,
		MaxRecommendations: cfg.Eligibility.MaxRecommendations,
		CandidatePool:      100,
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	if c.Threshold <= 0 {
		c.Threshold = eligibility.RecommendThreshold
	}
	if c.MaxRecommendations <= 0 {
		c.MaxRecommendations = 20
	}
	return c
}
