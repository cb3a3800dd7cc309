package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOutCollectsOutcomes(t *testing.T) {
	p := newFakePlatform(4)
	p.guilds[1].banErr = fmt.Errorf("ban: %w", ErrMissingPermissions)
	p.guilds[3].panicOnBan = true

	res := FanOut(context.Background(), p.Guilds(), 0, func(ctx context.Context, g Guild) error {
		return g.Ban(ctx, "u1", "r")
	})

	assert.Equal(t, 4, res.Total())
	assert.Len(t, res.Succeeded, 2)
	require.Len(t, res.Failed, 2)

	reasons := map[string]string{}
	for _, f := range res.Failed {
		reasons[f.GuildID] = f.Reason()
	}
	assert.Equal(t, "missing permissions", reasons["g2"])
	assert.Contains(t, reasons["g4"], "panic")

	err := res.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingPermissions))
}

func TestFanOutEmpty(t *testing.T) {
	res := FanOut(context.Background(), nil, 3, func(context.Context, Guild) error { return nil })
	assert.Equal(t, 0, res.Total())
	assert.NoError(t, res.Err())
}

func TestFanOutRespectsLimit(t *testing.T) {
	for _, limit := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			p := newFakePlatform(10)
			var inFlight, peak atomic.Int32

			res := FanOut(context.Background(), p.Guilds(), limit, func(ctx context.Context, g Guild) error {
				n := inFlight.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				return nil
			})

			assert.Len(t, res.Succeeded, 10)
			if limit > 0 {
				assert.LessOrEqual(t, int(peak.Load()), limit)
			}
		})
	}
}

func TestFailedGuildReasons(t *testing.T) {
	assert.Equal(t, "unknown user", FailedGuild{Err: ErrUnknownUser}.Reason())
	assert.Equal(t, "not banned", FailedGuild{Err: fmt.Errorf("x: %w", ErrUnknownBan)}.Reason())
	assert.Equal(t, "guild unavailable", FailedGuild{Err: ErrGuildUnavailable}.Reason())
	assert.Equal(t, "boom", FailedGuild{Err: errors.New("boom")}.Reason())
	assert.Equal(t, "unknown error", FailedGuild{}.Reason())
}
