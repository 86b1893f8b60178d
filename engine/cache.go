package engine

import (
	"sync"

	"curling/game"
)

// lfuCache memoizes simulated transitions for one thrown-stone bucket.
// Simulation is deterministic for a fixed canonical board and action, so a
// hit is always exact. Eviction drops the least-frequently-used entry.
type lfuCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*cacheEntry
}

type cacheEntry struct {
	board  game.Board
	player int
	uses   uint64
}

func newLFUCache(capacity int) *lfuCache {
	return &lfuCache{
		capacity: capacity,
		entries:  make(map[string]*cacheEntry),
	}
}

// get returns a copy of the cached transition; callers own their boards.
func (c *lfuCache) get(key string) (game.Board, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, 0, false
	}
	e.uses++
	return e.board.Clone(), e.player, true
}

func (c *lfuCache) add(key string, board game.Board, player int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		return
	}
	if len(c.entries) >= c.capacity {
		c.evictLocked()
	}
	c.entries[key] = &cacheEntry{board: board.Clone(), player: player, uses: 1}
}

func (c *lfuCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked removes the entry with the fewest uses. The map is capacity
// bounded, so the scan stays proportional to the bucket size.
func (c *lfuCache) evictLocked() {
	var victim string
	var fewest uint64
	first := true
	for key, e := range c.entries {
		if first || e.uses < fewest {
			victim, fewest = key, e.uses
			first = false
		}
	}
	if !first {
		delete(c.entries, victim)
	}
}
