package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml over it
// and lets environment variables override any key (database.postgres.host ->
// DATABASE_POSTGRES_HOST).
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName("config." + env)
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads one explicit YAML file.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyWorkerDefaults(&cfg)
	overrideSecrets(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that are
// absent from the YAML files.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "careerguide-workers")
	v.SetDefault("app.environment", "development")

	v.SetDefault("camunda.broker_address", "")
	v.SetDefault("camunda.max_jobs_active", 10)
	v.SetDefault("camunda.timeout", 30000)
	v.SetDefault("camunda.request_timeout", 30000)

	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.max_connections", 25)
	v.SetDefault("database.postgres.max_idle", 5)
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("database.redis.cache_ttl", 300)

	v.SetDefault("database.elasticsearch.addresses", []string{})
	v.SetDefault("database.elasticsearch.username", "")
	v.SetDefault("database.elasticsearch.password", "")
	v.SetDefault("database.elasticsearch.program_index", "programs")
	v.SetDefault("database.elasticsearch.job_index", "jobs")

	v.SetDefault("auth.keycloak.url", "")
	v.SetDefault("auth.keycloak.realm", "")
	v.SetDefault("auth.keycloak.client_id", "")
	v.SetDefault("auth.keycloak.client_secret", "")
	v.SetDefault("auth.keycloak.role_claim", "user_type")
	v.SetDefault("auth.keycloak.requests_per_second", 20.0)
	v.SetDefault("auth.keycloak.burst", 40)
	v.SetDefault("auth.keycloak.introspect_timeout", 5000)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.region", "us-east-1")
	v.SetDefault("events.topic_arn", "")

	v.SetDefault("eligibility.institution_cap", 2)
	v.SetDefault("eligibility.count_withdrawn", false)
	v.SetDefault("eligibility.recommend_threshold", 50.0)
	v.SetDefault("eligibility.max_recommendations", 20)
	v.SetDefault("eligibility.default_minimum_grade", 3.0)

	v.SetDefault("observability.metrics_address", ":9090")
	v.SetDefault("observability.jaeger_endpoint", "")
	v.SetDefault("observability.sample_ratio", 1.0)

	v.SetDefault("registry.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func loadEnvFile() {
	candidates := []string{".env", "../.env", "../../.env"}
	if root := findProjectRoot(); root != "" {
		candidates = append(candidates, filepath.Join(root, ".env"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in YAML string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		s, ok := v.Get(key).(string)
		if !ok || !strings.Contains(s, "$") {
			continue
		}
		if expanded := os.ExpandEnv(s); expanded != s {
			v.Set(key, expanded)
		}
	}
}

// overrideSecrets accepts the short variable names used by the deployment
// manifests in addition to the viper-derived ones.
func overrideSecrets(cfg *Config) {
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Auth.Keycloak.ClientSecret, "KEYCLOAK_CLIENT_SECRET")
	setIfEmpty(&cfg.Events.TopicARN, "APPLICATION_EVENTS_TOPIC_ARN")
}

func setIfEmpty(dst *string, env string) {
	if *dst != "" {
		return
	}
	if val := os.Getenv(env); val != "" {
		*dst = val
	}
}

func applyWorkerDefaults(cfg *Config) {
	for key, w := range cfg.Workers {
		if w.MaxJobsActive == 0 {
			w.MaxJobsActive = 5
		}
		if w.Timeout == 0 {
			w.Timeout = 30000
		}
		if w.MaxRetries == 0 {
			w.MaxRetries = 3
		}
		cfg.Workers[key] = w
	}
}

func validateConfig(cfg *Config) error {
	var problems []string
	if cfg.Camunda.BrokerAddress == "" {
		problems = append(problems, "camunda.broker_address is required")
	}
	if cfg.Database.Postgres.Host == "" {
		problems = append(problems, "database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		problems = append(problems, "database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		problems = append(problems, "database.postgres.user is required")
	}
	if cfg.Database.Redis.Address == "" {
		problems = append(problems, "database.redis.address is required")
	}
	if cfg.Eligibility.InstitutionCap < 1 {
		problems = append(problems, "eligibility.institution_cap must be at least 1")
	}
	if t := cfg.Eligibility.RecommendThreshold; t < 0 || t > 100 {
		problems = append(problems, "eligibility.recommend_threshold must be within 0-100")
	}
	if cfg.Events.Enabled && cfg.Events.TopicARN == "" {
		problems = append(problems, "events.topic_arn is required when events are enabled")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
