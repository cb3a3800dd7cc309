package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterInterval(t *testing.T) {
	clock := newManualClock()
	rl := NewRateLimiter(30*time.Second, clock.Now)

	_, ok := rl.Acquire()
	assert.True(t, ok)

	clock.Advance(5 * time.Second)
	retry, ok := rl.Acquire()
	assert.False(t, ok)
	assert.Equal(t, 25*time.Second, retry)

	// a rejected attempt does not move the window
	clock.Advance(25 * time.Second)
	_, ok = rl.Acquire()
	assert.True(t, ok)
}

func TestRateLimiterSingleWinner(t *testing.T) {
	rl := NewRateLimiter(time.Minute, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := rl.Acquire(); ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestRateLimitedSeconds(t *testing.T) {
	assert.Equal(t, 25, (&RateLimited{RetryAfter: 25 * time.Second}).Seconds())
	assert.Equal(t, 25, (&RateLimited{RetryAfter: 24*time.Second + time.Millisecond}).Seconds())
}
