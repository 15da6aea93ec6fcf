package searchcatalog

import (
	"time"

	"careerguide-workers/internal/common/config"
)

type Config struct {
	Timeout     time.Duration
	DefaultSize int
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout:     config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		DefaultSize: 20,
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}
