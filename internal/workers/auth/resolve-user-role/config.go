package resolveuserrole

import (
	"time"

	"careerguide-workers/internal/common/config"
)

type Config struct {
	Timeout   time.Duration
	RoleClaim string
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout:   config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		RoleClaim: cfg.Auth.Keycloak.RoleClaim,
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	return c
}
