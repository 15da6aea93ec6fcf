package updateapplicationstatus

import (
	"time"

	"careerguide-workers/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	PublishEvents bool
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout:       config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		PublishEvents: cfg.Events.Enabled,
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}
