package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	Timezone       string   `mapstructure:"timezone"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SynthesisConfig configures the external image synthesis provider.
type SynthesisConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	MaxPollTime    time.Duration `mapstructure:"max_poll_time"`
}

// AssetStoreConfig configures the S3-compatible asset store.
type AssetStoreConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	UsePathStyle  bool   `mapstructure:"use_path_style"`
	Prefix        string `mapstructure:"prefix"`
}

// BillingConfig configures the payment provider gateway and webhook verification.
type BillingConfig struct {
	GatewayBaseURL string `mapstructure:"gateway_base_url"`
	GatewayAPIKey  string `mapstructure:"gateway_api_key"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
	ReturnURL      string `mapstructure:"return_url"`
	NotifyURL      string `mapstructure:"notify_url"`
}

// UsageConfig holds quota policy knobs that the engine reads at startup.
// Tests substitute fixed values instead of reading ambient state.
type UsageConfig struct {
	FreeTierCredits      int           `mapstructure:"free_tier_credits"`
	DefaultCreditCost    int           `mapstructure:"default_credit_cost"`
	ProcessingTimeout    time.Duration `mapstructure:"processing_timeout"`
	WorkerCount          int           `mapstructure:"worker_count"`
	WorkerQueueSize      int           `mapstructure:"worker_queue_size"`
	PendingPaymentMaxAge time.Duration `mapstructure:"pending_payment_max_age"`
}

// RateLimitConfig bounds request volume. The API limit is keyed per client
// IP; generation limits are keyed per authenticated account.
type RateLimitConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	APIPerMinute        int  `mapstructure:"api_per_minute"`
	GenerationPerMinute int  `mapstructure:"generation_per_minute"`
	GenerationPerHour   int  `mapstructure:"generation_per_hour"`
	GenerationPerDay    int  `mapstructure:"generation_per_day"`
}

// SchedulerConfig holds sweep intervals for the background reconciliation jobs.
type SchedulerConfig struct {
	ExpiryInterval     time.Duration `mapstructure:"expiry_interval"`
	UsageResetInterval time.Duration `mapstructure:"usage_reset_interval"`
	ReaperInterval     time.Duration `mapstructure:"reaper_interval"`
	FailedRetention    time.Duration `mapstructure:"failed_retention"`
	WarnDaysAhead      []int         `mapstructure:"warn_days_ahead"`
}
