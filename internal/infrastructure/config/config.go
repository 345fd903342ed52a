package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/pixamint/pixamint/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Auth       sharedConfig.AuthConfig       `mapstructure:"auth"`
	Email      sharedConfig.EmailConfig      `mapstructure:"email"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	Synthesis  sharedConfig.SynthesisConfig  `mapstructure:"synthesis"`
	AssetStore sharedConfig.AssetStoreConfig `mapstructure:"asset_store"`
	Billing    sharedConfig.BillingConfig    `mapstructure:"billing"`
	Usage      sharedConfig.UsageConfig      `mapstructure:"usage"`
	RateLimit  sharedConfig.RateLimitConfig  `mapstructure:"rate_limit"`
	Scheduler  sharedConfig.SchedulerConfig  `mapstructure:"scheduler"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("PIXAMINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.timezone", "UTC")
	viper.SetDefault("server.base_url", "http://localhost:8080")

	// Database defaults
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "pixamint_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	viper.SetDefault("auth.jwt.secret", "change-me-in-production")
	viper.SetDefault("auth.jwt.access_exp_minutes", 15)

	// Email defaults
	viper.SetDefault("email.smtp_host", "localhost")
	viper.SetDefault("email.smtp_port", 1025)
	viper.SetDefault("email.smtp_user", "")
	viper.SetDefault("email.smtp_password", "")
	viper.SetDefault("email.from_address", "noreply@pixamint.local")
	viper.SetDefault("email.from_name", "Pixamint")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Synthesis provider defaults
	viper.SetDefault("synthesis.base_url", "https://api.replicate.com/v1")
	viper.SetDefault("synthesis.model", "flux-dev")
	viper.SetDefault("synthesis.request_timeout", "30s")
	viper.SetDefault("synthesis.poll_interval", "2s")
	viper.SetDefault("synthesis.max_poll_time", "3m")

	// Asset store defaults
	viper.SetDefault("asset_store.region", "auto")
	viper.SetDefault("asset_store.bucket", "pixamint-assets")
	viper.SetDefault("asset_store.use_path_style", true)
	viper.SetDefault("asset_store.prefix", "generations")

	// Billing defaults
	viper.SetDefault("billing.return_url", "http://localhost:8080/billing/return")

	// Usage policy defaults
	viper.SetDefault("usage.free_tier_credits", 10)
	viper.SetDefault("usage.default_credit_cost", 1)
	viper.SetDefault("usage.processing_timeout", "10m")
	viper.SetDefault("usage.worker_count", 4)
	viper.SetDefault("usage.worker_queue_size", 64)
	viper.SetDefault("usage.pending_payment_max_age", "24h")

	// Rate limit defaults
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.api_per_minute", 60)
	viper.SetDefault("rate_limit.generation_per_minute", 10)
	viper.SetDefault("rate_limit.generation_per_hour", 120)
	viper.SetDefault("rate_limit.generation_per_day", 500)

	// Scheduler defaults
	viper.SetDefault("scheduler.expiry_interval", "1h")
	viper.SetDefault("scheduler.usage_reset_interval", "1h")
	viper.SetDefault("scheduler.reaper_interval", "5m")
	viper.SetDefault("scheduler.failed_retention", "168h")
	viper.SetDefault("scheduler.warn_days_ahead", []int{3, 1})
}
