// Package engine exposes curling as an abstract two-player game: board
// tensors in, board tensors out, with the physics simulation and the rule
// handling hidden behind a memoized transition function.
package engine

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"curling/game"
	"curling/rink"
	"curling/sim"
)

var (
	ErrGameOver     = errors.New("engine: all sixteen stones already thrown")
	ErrWrongPlayer  = errors.New("engine: moves requested for the wrong player")
	ErrNoValidMoves = errors.New("engine: no valid moves")
	ErrThrownCount  = errors.New("engine: thrown-stone count did not advance by one")
	ErrNextPlayer   = errors.New("engine: next-player check failed")
)

// CurlingGame simulates one end shot by shot. An instance owns a single
// physics simulation and must not run overlapping turns; the transition
// cache is the only part meant for sharing, and it locks per bucket.
type CurlingGame struct {
	sim     *sim.Simulation
	caches  [game.TotalStones]*lfuCache
	metrics Collector
}

// Option configures a CurlingGame.
type Option func(*CurlingGame)

// WithMetrics attaches a live metrics collector.
func WithMetrics() Option {
	return func(g *CurlingGame) {
		g.metrics = NewCollector()
	}
}

// WithCacheCapacity overrides the per-bucket transition cache capacity.
func WithCacheCapacity(capacity int) Option {
	return func(g *CurlingGame) {
		if capacity > 0 {
			for i := range g.caches {
				g.caches[i] = newLFUCache(capacity)
			}
		}
	}
}

// New builds a game engine. The transition cache is partitioned by
// thrown-stone count so early-game churn cannot evict late-game entries.
func New(options ...Option) *CurlingGame {
	g := &CurlingGame{
		sim:     sim.NewSimulation(),
		metrics: NewNopCollector(),
	}
	capacity := game.ActionSize() * game.ActionSize()
	for i := range g.caches {
		g.caches[i] = newLFUCache(capacity)
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// InitBoard returns the empty board that starts an end.
func (g *CurlingGame) InitBoard() game.Board {
	return game.NewBoard()
}

// BoardSize returns the tensor dimensions.
func (g *CurlingGame) BoardSize() (int, int) {
	return rink.BoardSize()
}

// ActionSize returns the size of the fixed action table.
func (g *CurlingGame) ActionSize() int {
	return game.ActionSize()
}

// NextState simulates one shot and returns the resulting board and the
// player to move. The transition is computed in canonical (player 1 to
// move) perspective and memoized there, so both seats share cache entries.
func (g *CurlingGame) NextState(b game.Board, player int, action int) (game.Board, int, error) {
	if b.ThrownStones() >= game.TotalStones {
		return nil, 0, ErrGameOver
	}

	canon := game.CanonicalForm(b, player)
	bucket := canon.ThrownStones()
	key := cacheKey(canon, action)

	next, nextPlayer, ok := g.caches[bucket].get(key)
	if ok {
		g.metrics.AddCacheHit()
	} else {
		g.metrics.AddCacheMiss()
		var err error
		next, nextPlayer, err = g.simulate(canon, 1, action)
		if err != nil {
			return nil, 0, err
		}
		g.caches[bucket].add(key, next, nextPlayer)
	}

	if player == -1 {
		next = game.CanonicalForm(next, -1)
		nextPlayer = -nextPlayer
	}
	return next, nextPlayer, nil
}

// simulate runs the physics turn for a canonical board and checks the
// internal-consistency invariants on the result.
func (g *CurlingGame) simulate(b game.Board, player int, action int) (game.Board, int, error) {
	before := b.ThrownStones()

	g.sim.SetupBoard(b)
	if err := g.sim.SetupAction(player, action); err != nil {
		return nil, 0, err
	}
	next, err := g.sim.Run()
	if err != nil {
		return nil, 0, err
	}
	if g.sim.TimedOut() {
		g.metrics.AddOverrun()
	}
	g.metrics.AddTurn()

	after := next.ThrownStones()
	if after != before+1 {
		return nil, 0, fmt.Errorf("%w: before %d, after %d", ErrThrownCount, before, after)
	}

	nextPlayer := -player
	if after < game.TotalStones {
		check, err := next.NextPlayer()
		if err != nil {
			return nil, 0, err
		}
		if check != nextPlayer {
			return nil, 0, fmt.Errorf("%w: expected %d, board says %d", ErrNextPlayer, nextPlayer, check)
		}
	}
	return next, nextPlayer, nil
}

// ValidMoves returns the playability mask over the action table for the
// player to move.
func (g *CurlingGame) ValidMoves(b game.Board, player int) ([]bool, error) {
	canon := game.CanonicalForm(b, player)
	log.Debug().Msgf("valid moves for player %d: %s", player, canon.Repr())

	if canon.ThrownStones() >= game.TotalStones {
		return nil, ErrGameOver
	}
	turn, err := canon.NextPlayer()
	if err != nil {
		return nil, err
	}
	if turn != 1 {
		return nil, fmt.Errorf("%w: canonical board expects player %d", ErrWrongPlayer, turn)
	}

	mask := make([]bool, game.ActionSize())
	any := false
	for i := range mask {
		a, err := game.DecodeAction(i)
		if err != nil {
			return nil, err
		}
		mask[i] = a.Valid()
		any = any || mask[i]
	}
	if !any {
		return nil, ErrNoValidMoves
	}
	return mask, nil
}

// GameEnded returns 0 while the end is still running, the tied sentinel
// for a blank end, or the signed score from player's perspective.
func (g *CurlingGame) GameEnded(b game.Board, player int) float64 {
	return game.GameEnded(b, player)
}

// CanonicalForm normalizes the board to the acting player's perspective.
func (g *CurlingGame) CanonicalForm(b game.Board, player int) game.Board {
	return game.CanonicalForm(b, player)
}

// Symmetries returns the training-augmentation variants of a position.
func (g *CurlingGame) Symmetries(b game.Board, pi []float64) []game.Symmetry {
	return game.Symmetries(b, pi)
}

// StringRepresentation is the stable serialization used as a search key.
func (g *CurlingGame) StringRepresentation(b game.Board) string {
	return b.String()
}

// BoardFromString reverses StringRepresentation.
func (g *CurlingGame) BoardFromString(s string) (game.Board, error) {
	return game.BoardFromString(s)
}

// Metrics returns a snapshot of the engine counters.
func (g *CurlingGame) Metrics() Metrics {
	return g.metrics.Snapshot()
}

func cacheKey(canon game.Board, action int) string {
	return canon.String() + "|" + strconv.Itoa(action)
}
