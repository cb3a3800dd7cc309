package service

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Stats counts coordinator activity for the status endpoint.
type Stats struct {
	Bans          atomic.Int64
	Unbans        atomic.Int64
	AutoBans      atomic.Int64
	RateLimited   atomic.Int64
	StorageErrors atomic.Int64
	GuildFailures atomic.Int64
	started       time.Time
}

func newStats() *Stats {
	return &Stats{started: time.Now()}
}

// Snapshot returns the counters plus process figures.
func (s *Stats) Snapshot() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"uptime_seconds":  int64(time.Since(s.started).Seconds()),
		"bans":            s.Bans.Load(),
		"unbans":          s.Unbans.Load(),
		"auto_bans":       s.AutoBans.Load(),
		"rate_limited":    s.RateLimited.Load(),
		"storage_errors":  s.StorageErrors.Load(),
		"guild_failures":  s.GuildFailures.Load(),
		"memory_usage_mb": m.Alloc / 1024 / 1024,
		"goroutines":      runtime.NumGoroutine(),
	}
}
