package checkcoursequalification

import (
	"time"

	"careerguide-workers/internal/common/config"
	"careerguide-workers/internal/eligibility"
)

type Config struct {
	Timeout time.Duration
	// DefaultMinimumGrade applies to programs that do not set their own
	// minimum average.
	DefaultMinimumGrade float64
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout:             config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		DefaultMinimumGrade: cfg.Eligibility.DefaultMinimumGrade,
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.DefaultMinimumGrade <= 0 {
		c.DefaultMinimumGrade = eligibility.DefaultMinimumAverage
	}
	return c
}
