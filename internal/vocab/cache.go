package vocab

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type cacheItem struct {
	entries []Entry
	loaded  time.Time
}

// Cache memoises a Source per tier for ttl.
type Cache struct {
	src Source
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	items map[Tier]cacheItem
}

func NewCache(src Source, ttl time.Duration) *Cache {
	return &Cache{src: src, ttl: ttl, now: time.Now, items: make(map[Tier]cacheItem)}
}

func (c *Cache) Entries(ctx context.Context, tier Tier) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if it, ok := c.items[tier]; ok && c.now().Sub(it.loaded) < c.ttl {
		return it.entries, nil
	}
	entries, err := c.src.Entries(ctx, tier)
	if err != nil {
		// serve stale data rather than failing the game start
		if it, ok := c.items[tier]; ok {
			log.Warn().Err(err).Str("tier", string(tier)).Msg("vocabulary reload failed, serving stale entries")
			return it.entries, nil
		}
		return nil, err
	}
	c.items[tier] = cacheItem{entries: entries, loaded: c.now()}
	log.Debug().Str("tier", string(tier)).Int("entries", len(entries)).Msg("vocabulary loaded")
	return entries, nil
}

// Invalidate drops every cached tier.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.items = make(map[Tier]cacheItem)
	c.mu.Unlock()
}
