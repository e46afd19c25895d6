package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process-wide runtime configuration. It is loaded once from
// the environment at startup, validated, and never mutated afterwards; every
// component receives it by injection.
type Config struct {
	Telegram   TelegramConfig
	Twitter    TwitterConfig
	Processing ProcessingConfig
	Health     HealthConfig
	Logging    LoggingConfig
}

// TelegramConfig holds the bot credential and channel routing.
type TelegramConfig struct {
	BotToken       string  `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	SourceChannels []int64 `envconfig:"SOURCE_CHANNELS" required:"true"`
	LogChannel     int64   `envconfig:"LOG_CHANNEL" required:"true"`
}

// TwitterConfig holds the full API credential set: OAuth1 user context for
// writes plus the app-auth bearer token.
type TwitterConfig struct {
	BearerToken    string `envconfig:"TWITTER_BEARER_TOKEN" required:"true"`
	ConsumerKey    string `envconfig:"TWITTER_CONSUMER_KEY" required:"true"`
	ConsumerSecret string `envconfig:"TWITTER_CONSUMER_SECRET" required:"true"`
	AccessToken    string `envconfig:"TWITTER_ACCESS_TOKEN" required:"true"`
	AccessSecret   string `envconfig:"TWITTER_ACCESS_SECRET" required:"true"`
}

// ProcessingConfig toggles the text pipeline steps and the length gate.
type ProcessingConfig struct {
	MaxTwitterLength int    `envconfig:"MAX_TWITTER_LENGTH" default:"280"`
	SkipLongPosts    bool   `envconfig:"SKIP_LONG_POSTS" default:"true"`
	RemoveURLs       bool   `envconfig:"REMOVE_URLS" default:"true"`
	RemoveHashtags   bool   `envconfig:"REMOVE_HASHTAGS" default:"false"`
	RemoveMentions   bool   `envconfig:"REMOVE_MENTIONS" default:"false"`
	RemoveEmojis     bool   `envconfig:"REMOVE_EMOJIS" default:"false"`
	TrimExtraSpaces  bool   `envconfig:"TRIM_EXTRA_SPACES" default:"true"`
	Prefix           string `envconfig:"ADD_PREFIX" default:"📢 "`
	Suffix           string `envconfig:"ADD_SUFFIX"`
}

// HealthConfig configures the liveness endpoint bind port.
type HealthConfig struct {
	Port int `envconfig:"HEALTH_PORT" default:"8000"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string `envconfig:"LOG_FORMAT" default:"text"`
	Level     string `envconfig:"LOG_LEVEL" default:"info"`
	AddSource bool   `envconfig:"LOG_ADD_SOURCE" default:"false"`
}

// Load reads the full configuration from the environment. A missing required
// variable fails with an error naming it; nothing is partially loaded.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Telegram.SourceChannels) == 0 {
		return errors.New("SOURCE_CHANNELS must list at least one chat id")
	}
	if c.Telegram.LogChannel == 0 {
		return errors.New("LOG_CHANNEL must be a non-zero chat id")
	}
	if c.Processing.MaxTwitterLength <= 0 {
		return fmt.Errorf("MAX_TWITTER_LENGTH must be positive, got %d", c.Processing.MaxTwitterLength)
	}
	if c.Health.Port <= 0 || c.Health.Port > 65535 {
		return fmt.Errorf("HEALTH_PORT out of range: %d", c.Health.Port)
	}

	return nil
}
