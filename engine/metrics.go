package engine

import "sync/atomic"

// Metrics is a point-in-time snapshot of the engine counters.
type Metrics struct {
	CacheHits   int64
	CacheMisses int64
	Turns       int64
	Overruns    int64
}

// Collector accumulates engine counters. Implementations must be safe for
// concurrent use.
type Collector interface {
	AddCacheHit()
	AddCacheMiss()
	AddTurn()
	AddOverrun()
	Snapshot() Metrics
}

type collector struct {
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	turns       atomic.Int64
	overruns    atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) AddCacheHit()  { c.cacheHits.Add(1) }
func (c *collector) AddCacheMiss() { c.cacheMisses.Add(1) }
func (c *collector) AddTurn()      { c.turns.Add(1) }
func (c *collector) AddOverrun()   { c.overruns.Add(1) }

func (c *collector) Snapshot() Metrics {
	return Metrics{
		CacheHits:   c.cacheHits.Load(),
		CacheMisses: c.cacheMisses.Load(),
		Turns:       c.turns.Load(),
		Overruns:    c.overruns.Load(),
	}
}

type nopCollector struct{}

// NewNopCollector returns a collector that records nothing.
func NewNopCollector() Collector {
	return nopCollector{}
}

func (nopCollector) AddCacheHit()      {}
func (nopCollector) AddCacheMiss()     {}
func (nopCollector) AddTurn()          {}
func (nopCollector) AddOverrun()       {}
func (nopCollector) Snapshot() Metrics { return Metrics{} }
