package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"curling/game"
)

func drawAction(t *testing.T) int {
	t.Helper()
	idx, ok := game.ActionFor(0, game.WeightDraw, 0)
	require.True(t, ok)
	return idx
}

func TestInitBoard(t *testing.T) {
	g := New()
	b := g.InitBoard()
	w, h := g.BoardSize()
	require.Len(t, b, w)
	require.Len(t, b[0], h)
	require.Equal(t, 0, b.ThrownStones())
	require.Zero(t, g.GameEnded(b, 1))
}

func TestValidMovesMask(t *testing.T) {
	g := New()
	b := g.InitBoard()

	mask, err := g.ValidMoves(b, 1)
	require.NoError(t, err)
	require.Len(t, mask, g.ActionSize())

	anyValid := false
	for i, ok := range mask {
		a, err := game.DecodeAction(i)
		require.NoError(t, err)
		require.Equal(t, a.Valid(), ok, "mask must match the sign rule for %v", a)
		anyValid = anyValid || ok
	}
	require.True(t, anyValid, "mask must never be all false for a non-terminal board")
}

func TestValidMovesForWrongPlayer(t *testing.T) {
	g := New()
	b := g.InitBoard()
	// Team 1 leads the end; asking for player -1 flips the canonical board
	// to a position where it is not the canonical player's turn.
	_, err := g.ValidMoves(b, -1)
	require.ErrorIs(t, err, ErrWrongPlayer)
}

func TestNextStateTurnMonotonicity(t *testing.T) {
	g := New()
	b := g.InitBoard()

	next, nextPlayer, err := g.NextState(b, 1, drawAction(t))
	require.NoError(t, err)
	require.Equal(t, -1, nextPlayer)
	require.Equal(t, 1, next.ThrownStones(), "thrown count advances by exactly one")
	require.Equal(t, 0, b.ThrownStones(), "caller's tensor is never mutated")
}

func TestNextStateIsDeterministicAndCached(t *testing.T) {
	g := New(WithMetrics())
	b := g.InitBoard()
	action := drawAction(t)

	first, p1, err := g.NextState(b, 1, action)
	require.NoError(t, err)
	second, p2, err := g.NextState(b, 1, action)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, p1, p2)

	m := g.Metrics()
	require.Equal(t, int64(1), m.CacheMisses)
	require.Equal(t, int64(1), m.CacheHits)
	require.Equal(t, int64(1), m.Turns, "second call must not re-simulate")
}

func TestNextStateSharesCanonicalCacheAcrossSeats(t *testing.T) {
	// The same canonical position reached by either seat simulates once.
	g := New(WithMetrics())
	action := drawAction(t)

	b1, _, err := g.NextState(g.InitBoard(), 1, action)
	require.NoError(t, err)

	// Player -1 to move on the flipped tensor is the same canonical state.
	flipped := game.CanonicalForm(b1, -1)
	require.Equal(t, 1, flipped.ThrownStones())

	fromP2, nextPlayer, err := g.NextState(b1, -1, action)
	require.NoError(t, err)
	require.Equal(t, 1, nextPlayer)
	require.Equal(t, 2, fromP2.ThrownStones())

	again, _, err := g.NextState(b1, -1, action)
	require.NoError(t, err)
	require.Equal(t, fromP2, again)
	require.Equal(t, int64(1), g.Metrics().CacheHits)
}

func TestFullEndScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("simulates sixteen full shots")
	}

	g := New()
	b := g.InitBoard()
	action := drawAction(t)
	player := 1

	for shot := 0; shot < game.TotalStones; shot++ {
		require.Zero(t, g.GameEnded(b, player), "end must not be over at shot %d", shot)

		mask, err := g.ValidMoves(b, player)
		require.NoError(t, err)
		require.True(t, mask[action], "straight draw stays valid all end")

		next, nextPlayer, err := g.NextState(b, player, action)
		require.NoError(t, err)
		require.Equal(t, shot+1, next.ThrownStones())
		require.Equal(t, -player, nextPlayer)

		b, player = next, nextPlayer
	}

	require.Equal(t, game.TotalStones, b.ThrownStones())
	for _, v := range b.Meta() {
		require.NotEqual(t, game.P1NotThrown, v, "no stone may remain unthrown")
		require.NotEqual(t, game.P2NotThrown, v, "no stone may remain unthrown")
	}
	require.NotZero(t, g.GameEnded(b, 1), "a finished end always has a result")

	_, _, err := g.NextState(b, player, action)
	require.ErrorIs(t, err, ErrGameOver)
	_, err = g.ValidMoves(b, player)
	require.ErrorIs(t, err, ErrGameOver)
}

func TestStringRepresentationRoundTrip(t *testing.T) {
	g := New()
	b, _, err := g.NextState(g.InitBoard(), 1, drawAction(t))
	require.NoError(t, err)

	got, err := g.BoardFromString(g.StringRepresentation(b))
	require.NoError(t, err)
	require.Equal(t, b, got)
}
