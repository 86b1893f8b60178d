// Package sim runs one curling shot at a time: it rebuilds the physics
// space from a board tensor, injects the shooter with its action-derived
// velocity and spin, steps the engine until the stones settle, and encodes
// the result back into a tensor. No physics state survives across turns.
package sim

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"curling/game"
	"curling/physics"
	"curling/rink"
)

// DT is the fixed integration step. The curl model subtracts its lateral
// velocity once per step, so DT is part of the curl calibration.
const DT = 0.005

// timeCap bounds a single shot in simulated seconds. Overrunning it is an
// anomaly, not an error: the run returns its current state.
const timeCap = 60.0

var ErrNinthStone = errors.New("sim: stone id requested with all sixteen thrown")

// Simulation owns one physics space and simulates one shot at a time.
// Not safe for concurrent use; concurrent callers need separate instances.
type Simulation struct {
	space    *physics.Space
	snapshot game.Board
	shooter  physics.Team
	timedOut bool
}

func NewSimulation() *Simulation {
	return &Simulation{
		space:    physics.NewSpace(),
		snapshot: game.NewBoard(),
	}
}

// SetupBoard rebuilds the space from a board tensor: one stone per
// occupied grid cell, removed counters from the metadata row. All previous
// state is discarded.
func (s *Simulation) SetupBoard(b game.Board) {
	s.space.Reset()

	for _, team := range []int{1, -1} {
		for _, cell := range b.StoneCells(team) {
			x, y := rink.BoardToReal(cell[0], cell[1])
			s.addStone(physics.Team(team), x, y)
		}
	}

	s.space.SetRemovedCounts(b.OutOfPlayCount(1), b.OutOfPlayCount(-1))
}

// addStone places a resting stone. IDs follow delivery order per team:
// team 1 stones are 0-7, team 2 stones are 8-15.
func (s *Simulation) addStone(team physics.Team, x, y float64) *physics.Stone {
	id := s.nextStoneID(team)
	stone := physics.NewStone(id, team)
	stone.SetPosition(x, y)
	s.space.AddStone(stone)
	return stone
}

func (s *Simulation) nextStoneID(team physics.Team) int {
	n := s.space.RemovedCount(team)
	for _, stone := range s.space.Stones() {
		if stone.Team == team {
			n++
		}
	}
	if team == physics.Team1 {
		return n
	}
	return game.StonesPerTeam + n
}

// SetupAction snapshots the pre-shot board and injects the shooter stone
// at the throwing line with the action's velocity and handle.
func (s *Simulation) SetupAction(player int, action int) error {
	a, err := game.DecodeAction(action)
	if err != nil {
		return err
	}

	s.snapshot = s.Board()
	s.timedOut = false

	team := physics.Team(player)
	s.shooter = team
	stone := s.addStone(team, 0, 0)
	stone.IsShooter = true
	stone.SetAngularVelocity(float64(a.Handle))
	stone.SetVelocityVector(physics.ShotVelocity(a.Weight.Distance(), float64(a.Broom)))
	s.space.SetShooterTeam(team)

	log.Debug().Msgf("shot %s by player %d: velocity %v", a, player, stone)
	return nil
}

// Run advances the engine in fixed steps until every stone is at rest, the
// time cap is hit, or a 5-rock violation rolls the shot back. It returns
// the resulting board tensor.
func (s *Simulation) Run() (game.Board, error) {
	simTime := 0.0
	for {
		s.space.Step(DT)

		if s.space.Violation() {
			log.Debug().Msg("5-rock rule violated, resetting the board")
			return s.rollback()
		}

		simTime += DT
		if simTime > timeCap {
			log.Warn().Msgf("simulation still moving after %.0f simulated seconds", timeCap)
			s.timedOut = true
			break
		}

		if !s.space.AnyMoving() {
			break
		}
	}
	return s.Board(), nil
}

// rollback discards the simulated trajectory: the board reverts to the
// pre-shot snapshot and the shooter's own stone goes out of play instead
// of resolving its position. This is the only path that throws away a
// simulated result.
func (s *Simulation) rollback() (game.Board, error) {
	board := s.snapshot.Clone()

	// The shooter may already be gone: it can glance the protected guard
	// and exit the back wall before the guard reaches a wall. Use the team
	// recorded at setup, never the live stones.
	slot := board.NextSlot(int(s.shooter))
	if slot == -1 {
		return nil, fmt.Errorf("%w: team %d", ErrNinthStone, s.shooter)
	}
	code := game.P1OutOfPlay
	if s.shooter != physics.Team1 {
		code = game.P2OutOfPlay
	}
	board.Meta()[slot] = code

	// Re-seed the space from the rolled-back board so its counters and
	// violation flag are clean for the next turn.
	s.SetupBoard(board)
	return board, nil
}

// TimedOut reports whether the last Run hit the simulated-time cap.
func (s *Simulation) TimedOut() bool {
	return s.timedOut
}

// ThrownCount is the number of stones delivered so far in the space.
func (s *Simulation) ThrownCount() int {
	return s.space.ThrownCount()
}

// Board encodes the live space into a board tensor. Metadata slots are
// assigned per team in counter order: removed stones first, then in-play
// stones, the rest not thrown. Stones resting outside the window the
// tensor covers (short of the hogged region) count as out of play.
func (s *Simulation) Board() game.Board {
	b := game.NewBoard()
	meta := b.Meta()

	type placed struct {
		cell [2]int
		code int8
	}
	inPlay := map[physics.Team][]placed{}
	removed := map[physics.Team]int{
		physics.Team1: s.space.RemovedCount(physics.Team1),
		physics.Team2: s.space.RemovedCount(physics.Team2),
	}

	for _, stone := range s.space.Stones() {
		x, y := stone.Position()
		cx, cy := rink.RealToBoard(x, y)
		if !rink.InBounds(cx, cy) {
			// TODO: hogged stones are folded into the removed count; a
			// dedicated hog-line violation would remove them mid-run.
			log.Debug().Msgf("%s rests outside the board window, out of play", stone)
			removed[stone.Team]++
			continue
		}
		code := game.P1
		if stone.Team != physics.Team1 {
			code = game.P2
		}
		inPlay[stone.Team] = append(inPlay[stone.Team], placed{cell: [2]int{cx, cy}, code: code})
	}

	for _, team := range []physics.Team{physics.Team1, physics.Team2} {
		slot := 0
		outCode := game.P1OutOfPlay
		if team != physics.Team1 {
			slot = game.StonesPerTeam
			outCode = game.P2OutOfPlay
		}
		for i := 0; i < removed[team]; i++ {
			meta[slot] = outCode
			slot++
		}
		for _, p := range inPlay[team] {
			b[p.cell[0]][p.cell[1]] = p.code
			meta[slot] = game.Empty
			slot++
		}
	}
	return b
}
