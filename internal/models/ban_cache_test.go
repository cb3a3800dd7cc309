package models

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanCacheAddDiscard(t *testing.T) {
	c := NewBanCache()
	assert.False(t, c.Contains("1"))

	c.Add("1")
	c.Add("1")
	assert.True(t, c.Contains("1"))
	assert.Equal(t, 1, c.Size())

	c.Discard("1")
	c.Discard("missing")
	assert.False(t, c.Contains("1"))
	assert.Equal(t, 0, c.Size())
}

func TestBanCacheLoadReplaces(t *testing.T) {
	c := NewBanCache()
	c.Add("stale")

	c.Load([]GlobalBan{{DiscordID: "10"}, {DiscordID: "20"}})

	assert.False(t, c.Contains("stale"))
	assert.ElementsMatch(t, []string{"10", "20"}, c.Snapshot())
}

func TestBanCacheConcurrentAccess(t *testing.T) {
	c := NewBanCache()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		id := fmt.Sprint(i)
		go func() { defer wg.Done(); c.Add(id) }()
		go func() { defer wg.Done(); _ = c.Contains(id) }()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Size())
}
