package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"curling/game"
)

func TestCacheGetMiss(t *testing.T) {
	c := newLFUCache(4)
	_, _, ok := c.get("missing")
	require.False(t, ok)
}

func TestCacheStoresCopies(t *testing.T) {
	c := newLFUCache(4)
	b := game.NewBoard()
	c.add("k", b, -1)

	b[0][0] = game.P1
	got, player, ok := c.get("k")
	require.True(t, ok)
	require.Equal(t, -1, player)
	require.Equal(t, game.Empty, got[0][0], "cache must not alias the caller's tensor")

	got[1][1] = game.P2
	again, _, _ := c.get("k")
	require.Equal(t, game.Empty, again[1][1], "returned tensors must not alias the cache")
}

func TestCacheEvictsLeastFrequentlyUsed(t *testing.T) {
	c := newLFUCache(2)
	c.add("hot", game.NewBoard(), -1)
	c.add("cold", game.NewBoard(), -1)

	// Touch the hot entry so the cold one is the LFU victim.
	_, _, ok := c.get("hot")
	require.True(t, ok)
	_, _, ok = c.get("hot")
	require.True(t, ok)

	c.add("new", game.NewBoard(), 1)
	require.Equal(t, 2, c.len())

	_, _, ok = c.get("cold")
	require.False(t, ok, "least-frequently-used entry is evicted")
	_, _, ok = c.get("hot")
	require.True(t, ok)
	_, _, ok = c.get("new")
	require.True(t, ok)
}

func TestCacheAddIsIdempotent(t *testing.T) {
	c := newLFUCache(2)
	b := game.NewBoard()
	c.add("k", b, -1)
	c.add("k", b, 1)

	_, player, ok := c.get("k")
	require.True(t, ok)
	require.Equal(t, -1, player, "re-adding must not clobber the first entry")
}

func TestCacheBoundedUnderChurn(t *testing.T) {
	c := newLFUCache(8)
	for i := 0; i < 100; i++ {
		c.add(fmt.Sprintf("k%d", i), game.NewBoard(), -1)
	}
	require.Equal(t, 8, c.len())
}
