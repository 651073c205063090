package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	CacheTTLHours int    `mapstructure:"CACHE_TTL_HOURS"`

	// PostgresURL enables page HTML archival when set.
	PostgresURL               string `mapstructure:"POSTGRES_URL"`
	HTMLArchiveTimeoutSeconds int    `mapstructure:"HTML_ARCHIVE_TIMEOUT_SECONDS"`

	FetchTimeoutSeconds    int    `mapstructure:"FETCH_TIMEOUT_SECONDS"`
	ProviderTimeoutSeconds int    `mapstructure:"PROVIDER_TIMEOUT_SECONDS"`
	MaxBodyBytes           int64  `mapstructure:"MAX_BODY_BYTES"`
	UserAgent              string `mapstructure:"USER_AGENT"`

	ProviderBaseURL string `mapstructure:"PROVIDER_BASE_URL"`
	ProviderToken   string `mapstructure:"PROVIDER_TOKEN"`
	ArchivePrefix   string `mapstructure:"ARCHIVE_PREFIX"`

	SentryDSN string `mapstructure:"SENTRY_DSN"`
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Missing .env is fine; production is configured through the environment.
	_ = v.ReadInConfig()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_HOURS", 0)
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("HTML_ARCHIVE_TIMEOUT_SECONDS", 10)
	v.SetDefault("FETCH_TIMEOUT_SECONDS", 30)
	v.SetDefault("PROVIDER_TIMEOUT_SECONDS", 45)
	v.SetDefault("MAX_BODY_BYTES", 10<<20)
	v.SetDefault("USER_AGENT", "Mozilla/5.0 (compatible; ArticleResolver/1.0)")
	v.SetDefault("PROVIDER_BASE_URL", "https://api.diffbot.com/v3/article")
	v.SetDefault("PROVIDER_TOKEN", "")
	v.SetDefault("ARCHIVE_PREFIX", "https://web.archive.org/web/2/")
	v.SetDefault("SENTRY_DSN", "")
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}

func (c *Config) HTMLArchiveTimeout() time.Duration {
	return time.Duration(c.HTMLArchiveTimeoutSeconds) * time.Second
}

// CacheTTL is zero when cache entries never expire.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}
