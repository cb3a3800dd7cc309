package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"discord-gban/internal/logger"
	"discord-gban/internal/models"
)

const (
	// BanReasonPrefix marks every platform ban issued by the coordinator.
	BanReasonPrefix = "[GlobalBan] "
	AutoBanReason   = BanReasonPrefix + "Auto-ban"
	DefaultReason   = "No reason"

	// MaxReasonLength keeps reasons inside every Discord limit they reach:
	// audit log, embed fields, list pages.
	MaxReasonLength = 200
)

// ReasonChoices are offered as suggestions; any text is accepted.
var ReasonChoices = []string{"Spam", "Scam", "Toxic", "NSFW", "Cheats", "Other"}

type Options struct {
	Interval          time.Duration
	FanOutConcurrency int
	// RateLimitUnban puts unban under the same limiter as ban.
	RateLimitUnban bool
	PageSize       int
	Now            func() time.Time
}

// Coordinator owns the global ban state: the ban cache, the rate limiter,
// the log sink and the store handle.
type Coordinator struct {
	platform Platform
	store    Store
	mirror   Mirror
	opts     Options

	cache   *models.BanCache
	limiter *RateLimiter
	logs    *LogSink
	stats   *Stats

	// mu orders a store write before its cache update across operations.
	mu sync.Mutex
}

func NewCoordinator(platform Platform, store Store, opts Options) *Coordinator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Coordinator{
		platform: platform,
		store:    store,
		opts:     opts,
		cache:    models.NewBanCache(),
		limiter:  NewRateLimiter(opts.Interval, opts.Now),
		logs:     NewLogSink(),
		stats:    newStats(),
	}
}

// SetMirror attaches an optional out-of-band copy of summaries.
func (c *Coordinator) SetMirror(m Mirror) {
	c.mirror = m
}

func (c *Coordinator) Cache() *models.BanCache { return c.cache }
func (c *Coordinator) LogSink() *LogSink { return c.logs }
func (c *Coordinator) Stats() *Stats { return c.stats }

// RateLimitInterval is the spacing enforced between global ban mutations.
func (c *Coordinator) RateLimitInterval() time.Duration { return c.limiter.Interval() }

// Bootstrap loads the log channels and the ban cache from the store.
func (c *Coordinator) Bootstrap(ctx context.Context) error {
	channels, err := c.store.GetAllLogChannels(ctx)
	if err != nil {
		return &StorageError{Op: "load log channels", Err: err}
	}
	c.logs.Load(channels)

	bans, err := c.store.ListBans(ctx)
	if err != nil {
		return &StorageError{Op: "load bans", Err: err}
	}
	c.cache.Load(bans)

	logger.Infof("Loaded %d global bans and %d log channels", c.cache.Size(), c.logs.Len())
	return nil
}

// Ban bans target on every guild and records the ban. A *StorageError is
// returned when the record could not be written; its Summary shows the
// platform bans that were already applied.
func (c *Coordinator) Ban(ctx context.Context, target, operator User, reason string) (Result, error) {
	if retry, ok := c.limiter.Acquire(); !ok {
		c.stats.RateLimited.Add(1)
		logger.Infof("Global ban of %s by %s rate limited, retry in %v", target.ID, operator.ID, retry)
		return &RateLimited{RetryAfter: retry}, nil
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultReason
	}
	reason = truncate(reason, MaxReasonLength)
	annotated := BanReasonPrefix + reason

	logger.Infof("Global ban of %s by %s started: %s", target.ID, operator.ID, reason)
	fan := FanOut(ctx, c.platform.Guilds(), c.opts.FanOutConcurrency, func(ctx context.Context, g Guild) error {
		return g.Ban(ctx, target.ID, annotated)
	})
	c.recordFailures(ActionBan, target, fan)

	summary := newSummary(ActionBan, target, operator, reason, fan, c.opts.Now())

	c.mu.Lock()
	added, err := c.store.AddBan(ctx, target.ID, operator.ID, reason)
	if err == nil {
		// the row exists whether or not this call created it
		c.cache.Add(target.ID)
	}
	c.mu.Unlock()

	if err != nil {
		return nil, c.storageFailure("add ban", err, summary)
	}
	summary.Added = added
	c.stats.Bans.Add(1)

	if err := c.platform.DirectMessage(ctx, target.ID, directMessageEmbed(reason)); err != nil {
		logger.Debugf("Could not DM %s about global ban: %v", target.ID, err)
	}

	c.publish(ctx, fan, summary)
	logger.Infof("Global ban of %s finished: %s (new record: %v)", target.ID, summary.Outcome(), added)
	return summary, nil
}

// Unban lifts the ban on every guild and deletes the record.
func (c *Coordinator) Unban(ctx context.Context, targetID string, operator User) (Result, error) {
	if c.opts.RateLimitUnban {
		if retry, ok := c.limiter.Acquire(); !ok {
			c.stats.RateLimited.Add(1)
			return &RateLimited{RetryAfter: retry}, nil
		}
	}

	target := User{ID: targetID}
	logger.Infof("Global unban of %s by %s started", targetID, operator.ID)
	fan := FanOut(ctx, c.platform.Guilds(), c.opts.FanOutConcurrency, func(ctx context.Context, g Guild) error {
		return g.Unban(ctx, targetID)
	})
	c.recordFailures(ActionUnban, target, fan)

	summary := newSummary(ActionUnban, target, operator, "", fan, c.opts.Now())

	c.mu.Lock()
	removed, err := c.store.RemoveBan(ctx, targetID)
	if err == nil {
		c.cache.Discard(targetID)
	}
	c.mu.Unlock()

	if err != nil {
		return nil, c.storageFailure("remove ban", err, summary)
	}
	summary.Removed = removed
	c.stats.Unbans.Add(1)

	c.publish(ctx, fan, summary)
	logger.Infof("Global unban of %s finished: %s (records removed: %d)", targetID, summary.Outcome(), removed)
	return summary, nil
}

// List returns a paginator over all bans positioned at page (clamped).
func (c *Coordinator) List(ctx context.Context, page int) (*Paginator, error) {
	bans, err := c.store.ListBans(ctx)
	if err != nil {
		return nil, c.storageFailure("list bans", err, nil)
	}
	return NewPaginator(bans, c.opts.PageSize, page), nil
}

// SetLog stores channelID as the log channel of guildID. Callers check the
// operator's manage-server permission first.
func (c *Coordinator) SetLog(ctx context.Context, guildID, channelID string, operator User) error {
	if err := c.store.SetLogChannel(ctx, guildID, channelID, operator.ID); err != nil {
		return c.storageFailure("set log channel", err, nil)
	}
	c.logs.Set(guildID, channelID)
	logger.Infof("Log channel of guild %s set to %s by %s", guildID, channelID, operator.ID)
	return nil
}

// OnMemberJoin bans a joining member who is on the global list. Only the
// joined guild is touched. It reports whether a ban was issued.
func (c *Coordinator) OnMemberJoin(ctx context.Context, guildID string, member User) bool {
	if !c.cache.Contains(member.ID) {
		return false
	}

	g, ok := c.platform.Guild(guildID)
	if !ok {
		return false
	}

	if err := g.Ban(ctx, member.ID, AutoBanReason); err != nil {
		if !errors.Is(err, ErrMissingPermissions) {
			logger.Warningf("Auto-ban of %s in guild %s failed: %v", member.ID, guildID, err)
		}
		return false
	}

	c.stats.AutoBans.Add(1)
	logger.Infof("Auto-banned %s on join in guild %s (%s)", member.ID, g.Name(), guildID)
	c.logs.Send(ctx, g, AutoBanEmbed(member))
	return true
}

func (c *Coordinator) recordFailures(action Action, target User, fan FanOutResult) {
	if len(fan.Failed) == 0 {
		return
	}
	c.stats.GuildFailures.Add(int64(len(fan.Failed)))
	logger.Warningf("Global %s of %s failed on %d/%d guilds: %v", action, target.ID, len(fan.Failed), fan.Total(), fan.Err())
}

// publish sends the summary to the guilds where the action succeeded and to the mirror.
func (c *Coordinator) publish(ctx context.Context, fan FanOutResult, summary *Summary) {
	c.logs.Broadcast(ctx, fan.Succeeded, summary.Embed())
	if c.mirror != nil {
		c.mirror.Mirror(ctx, summary.Text())
	}
}

func (c *Coordinator) storageFailure(op string, err error, summary *Summary) error {
	c.stats.StorageErrors.Add(1)
	logger.Errorf("Storage error during %s: %v", op, err)

	storageErr := &StorageError{Op: op, Err: err, Summary: summary}
	if c.mirror != nil && summary != nil {
		c.mirror.Mirror(context.Background(), "STORAGE ERROR during "+op+": "+err.Error()+"\n"+summary.Text())
	}
	return storageErr
}

// truncate cuts s to at most limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
