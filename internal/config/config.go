package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Database DatabaseConfig `mapstructure:"database"`
	GBan     GBanConfig     `mapstructure:"gban"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

// Discord bot configuration
type BotConfig struct {
	Token  string       `mapstructure:"token"`
	Prefix string       `mapstructure:"prefix"`
	Status StatusConfig `mapstructure:"status"`
}

// debug status server configuration
type StatusConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenPort string `mapstructure:"listen_port"`
	DebugPath  string `mapstructure:"debug_path"`
}

// logging configuration
type LoggerConfig struct {
	Directory  string            `mapstructure:"directory"`
	Rotation   LogRotationConfig `mapstructure:"rotation"`
	TimeFormat string            `mapstructure:"time_format"`
	Level      string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

type DatabaseConfig struct {
	URL          string        `mapstructure:"url"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	ConnLifetime time.Duration `mapstructure:"conn_lifetime"`
}

// global ban coordinator settings
type GBanConfig struct {
	Interval          time.Duration `mapstructure:"interval"`
	FanOutConcurrency int           `mapstructure:"fanout_concurrency"`
	RateLimitUnban    bool          `mapstructure:"rate_limit_unban"`
	ListTimeout       time.Duration `mapstructure:"list_timeout"`
}

type NotifyConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// Telegram chat that mirrors global ban summaries for operators
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	ChatID  int64  `mapstructure:"chat_id"`
}

// Load reads the config file and the environment. A missing config file is
// tolerated when configPath is empty; DATABASE_URL is always required.
func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the settings startup cannot proceed without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.GBan.Interval < 0 {
		return fmt.Errorf("gban.interval must not be negative")
	}
	if c.GBan.FanOutConcurrency < 0 {
		return fmt.Errorf("gban.fanout_concurrency must not be negative")
	}
	if c.Notify.Telegram.Enabled && (c.Notify.Telegram.Token == "" || c.Notify.Telegram.ChatID == 0) {
		return fmt.Errorf("notify.telegram requires token and chat_id when enabled")
	}
	return nil
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("bot.token", "DISCORD_TOKEN")
	_ = v.BindEnv("notify.telegram.token", "TELEGRAM_BOT_TOKEN")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.prefix", "!")
	v.SetDefault("bot.status.enabled", false)
	v.SetDefault("bot.status.listen_port", "8080")
	v.SetDefault("bot.status.debug_path", "/debug")

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.time_format", "2006/01/02 15:04:05")
	v.SetDefault("logger.level", "INFO")

	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_lifetime", time.Hour)

	v.SetDefault("gban.interval", 30*time.Second)
	v.SetDefault("gban.fanout_concurrency", 0)
	v.SetDefault("gban.rate_limit_unban", false)
	v.SetDefault("gban.list_timeout", 60*time.Second)

	v.SetDefault("notify.telegram.enabled", false)
}
