package service

import (
	"discord-gban/internal/config"
)

// OptionsFromConfig maps the gban config section onto coordinator options.
func OptionsFromConfig(cfg *config.Config) Options {
	interval := cfg.GBan.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	return Options{
		Interval:          interval,
		FanOutConcurrency: cfg.GBan.FanOutConcurrency,
		RateLimitUnban:    cfg.GBan.RateLimitUnban,
		PageSize:          DefaultPageSize,
	}
}
