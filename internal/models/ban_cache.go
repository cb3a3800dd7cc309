package models

import "sync"

// BanCache is the in-memory mirror of the global_bans identities, read on
// every member join.
type BanCache struct {
	ids map[string]struct{}
	mu  sync.RWMutex
}

func NewBanCache() *BanCache {
	return &BanCache{ids: make(map[string]struct{})}
}

func (c *BanCache) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.ids[id]
	return ok
}

func (c *BanCache) Add(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[id] = struct{}{}
}

// Discard removes id; missing ids are ignored.
func (c *BanCache) Discard(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ids, id)
}

// Load replaces the whole set with ids from the store.
func (c *BanCache) Load(bans []GlobalBan) {
	ids := make(map[string]struct{}, len(bans))
	for _, b := range bans {
		ids[b.DiscordID] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = ids
}

func (c *BanCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

// Snapshot returns a copy of the cached identities in no particular order.
func (c *BanCache) Snapshot() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.ids))
	for id := range c.ids {
		out = append(out, id)
	}
	return out
}
