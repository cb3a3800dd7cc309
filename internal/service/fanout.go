package service

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"

	"discord-gban/internal/crash"
)

// FanOutResult groups guilds by outcome. Order inside each group is not
// meaningful.
type FanOutResult struct {
	Succeeded []Guild
	Failed    []FailedGuild
}

func (r FanOutResult) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// Err combines every per-guild failure, or nil when all succeeded.
func (r FanOutResult) Err() error {
	var err error
	for _, f := range r.Failed {
		err = multierr.Append(err, f)
	}
	return err
}

type guildOutcome struct {
	guild Guild
	err   error
}

// FanOut runs action on every guild concurrently. limit caps the number of
// in-flight calls; limit <= 0 means one goroutine per guild. A failing or
// panicking guild never stops its siblings.
func FanOut(ctx context.Context, guilds []Guild, limit int, action func(context.Context, Guild) error) FanOutResult {
	p := pool.NewWithResults[guildOutcome]()
	if limit > 0 {
		p = p.WithMaxGoroutines(limit)
	}

	for _, g := range guilds {
		g := g
		p.Go(func() guildOutcome {
			err := crash.Capture("fanout-"+g.ID(), func() error {
				return action(ctx, g)
			})
			return guildOutcome{guild: g, err: err}
		})
	}

	var result FanOutResult
	for _, o := range p.Wait() {
		if o.err != nil {
			result.Failed = append(result.Failed, FailedGuild{
				GuildID:   o.guild.ID(),
				GuildName: o.guild.Name(),
				Err:       o.err,
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, o.guild)
	}
	return result
}
