package createapplicationrecord

import (
	"time"

	"careerguide-workers/internal/common/config"
	"careerguide-workers/internal/eligibility"
)

type Config struct {
	Timeout       time.Duration
	Policy        eligibility.Policy
	PublishEvents bool
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		Policy: eligibility.Policy{
			InstitutionCap: cfg.Eligibility.InstitutionCap,
			CountWithdrawn: cfg.Eligibility.CountWithdrawn,
		},
		PublishEvents: cfg.Events.Enabled,
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Policy.InstitutionCap <= 0 {
		c.Policy.InstitutionCap = eligibility.DefaultInstitutionCap
	}
	return c
}
