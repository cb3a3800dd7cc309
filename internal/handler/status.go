package handler

import (
	"fmt"
	"sync/atomic"
	"time"

	"discord-gban/internal/crash"
	"discord-gban/internal/logger"
)

// command surface counters
var (
	totalSlashCommands  int64
	totalPrefixCommands int64
	totalButtonPresses  int64
	totalMemberJoins    int64
	totalErrors         int64
)

func incrementCounter(counter *int64) {
	atomic.AddInt64(counter, 1)
}

// GetProcessingStats merges the coordinator counters with the command surface ones.
func (h *Handler) GetProcessingStats() map[string]interface{} {
	stats := h.coord.Stats().Snapshot()
	stats["slash_commands"] = atomic.LoadInt64(&totalSlashCommands)
	stats["prefix_commands"] = atomic.LoadInt64(&totalPrefixCommands)
	stats["button_presses"] = atomic.LoadInt64(&totalButtonPresses)
	stats["member_joins"] = atomic.LoadInt64(&totalMemberJoins)
	stats["handler_errors"] = atomic.LoadInt64(&totalErrors)
	stats["open_list_views"] = h.pages.size()
	stats["cached_bans"] = h.coord.Cache().Size()
	stats["log_channels"] = h.coord.LogSink().Len()
	stats["rate_limit_seconds"] = int64(h.coord.RateLimitInterval().Seconds())
	return stats
}

// LogProcessingStats logs the stats every interval until stop is closed.
func (h *Handler) LogProcessingStats(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats := h.GetProcessingStats()
			logger.Infof("Processing stats: %+v", stats)

			if failures := stats["storage_errors"].(int64); failures > 0 {
				logger.Warningf("Storage errors since start: %d", failures)
			}
		}
	}
}

// StartStatusMonitoring logs stats every five minutes in the background.
func (h *Handler) StartStatusMonitoring(stop <-chan struct{}) {
	crash.SafeGoroutine("status monitor", func() {
		h.LogProcessingStats(5*time.Minute, stop)
	})
}

// GetDetailedStatus is the status server report.
func (h *Handler) GetDetailedStatus(guilds int) string {
	stats := h.GetProcessingStats()
	return fmt.Sprintf(`
=== Global Ban Status ===
Uptime: %d seconds
Guilds: %d
Cached Bans: %d
Log Channels: %d
Rate Limit: %ds
Bans: %d
Unbans: %d
Auto-bans: %d
Rate Limited: %d
Storage Errors: %d
Guild Failures: %d
Slash Commands: %d
Prefix Commands: %d
Button Presses: %d
Member Joins: %d
Handler Errors: %d
Open List Views: %d
Memory Usage: %d MB
Goroutines: %d
=========================`,
		stats["uptime_seconds"],
		guilds,
		stats["cached_bans"],
		stats["log_channels"],
		stats["rate_limit_seconds"],
		stats["bans"],
		stats["unbans"],
		stats["auto_bans"],
		stats["rate_limited"],
		stats["storage_errors"],
		stats["guild_failures"],
		stats["slash_commands"],
		stats["prefix_commands"],
		stats["button_presses"],
		stats["member_joins"],
		stats["handler_errors"],
		stats["open_list_views"],
		stats["memory_usage_mb"],
		stats["goroutines"],
	)
}
