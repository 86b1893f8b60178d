package physics

import (
	cp "github.com/jakecoffman/cp/v2"

	"github.com/rs/zerolog/log"
)

// Space owns the engine space plus the per-turn rule state: removed-stone
// counters, the shooting team, and the 5-rock violation flag. Reset clears
// all of it; a Space must not be shared between concurrent turns.
type Space struct {
	cp *cp.Space

	removed     map[Team]int
	shooterTeam Team
	violation   bool
}

// NewSpace builds a frictionless, zero-gravity space bounded by the three
// removal walls.
func NewSpace() *Space {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	space.SetDamping(1) // no blanket slowdown; the velocity hook owns friction

	s := &Space{
		cp:      space,
		removed: map[Team]int{Team1: 0, Team2: 0},
	}
	addBoundaries(s)
	return s
}

// Reset removes every stone and clears all per-turn rule state.
func (s *Space) Reset() {
	for _, stone := range s.Stones() {
		s.cp.RemoveShape(stone.shape)
		s.cp.RemoveBody(stone.body)
	}
	s.removed[Team1] = 0
	s.removed[Team2] = 0
	s.shooterTeam = 0
	s.violation = false
}

// AddStone inserts a stone body into the space.
func (s *Space) AddStone(stone *Stone) {
	log.Debug().Msgf("+ %s", stone)
	s.cp.AddBody(stone.body)
	s.cp.AddShape(stone.shape)
}

// RemoveStone deletes a stone from live play and bumps its team's
// removed counter. Only safe outside a step; collision callbacks schedule
// it post-step.
func (s *Space) RemoveStone(stone *Stone, reason string) {
	log.Debug().Msgf("- %s %s", stone, reason)
	s.removed[stone.Team]++
	s.cp.RemoveShape(stone.shape)
	s.cp.RemoveBody(stone.body)
}

// Stones returns the live stones, in engine iteration order.
func (s *Space) Stones() []*Stone {
	var stones []*Stone
	s.cp.EachShape(func(shape *cp.Shape) {
		if stone, ok := shape.UserData.(*Stone); ok {
			stones = append(stones, stone)
		}
	})
	return stones
}

// RemovedCount returns how many of a team's stones are out of play.
func (s *Space) RemovedCount(team Team) int {
	return s.removed[team]
}

// SetRemovedCounts seeds the counters when rebuilding from a board tensor.
func (s *Space) SetRemovedCounts(team1, team2 int) {
	s.removed[Team1] = team1
	s.removed[Team2] = team2
}

// ThrownCount is the number of stones already delivered this end: live
// stones plus removed ones.
func (s *Space) ThrownCount() int {
	return len(s.Stones()) + s.removed[Team1] + s.removed[Team2]
}

// SetShooterTeam records which team the current action belongs to; the
// 5-rock rule needs it.
func (s *Space) SetShooterTeam(team Team) {
	s.shooterTeam = team
}

// Violation reports whether the current shot broke the 5-rock rule.
func (s *Space) Violation() bool {
	return s.violation
}

// AnyMoving reports whether any stone is still in motion.
func (s *Space) AnyMoving() bool {
	for _, stone := range s.Stones() {
		if stone.Moving() {
			return true
		}
	}
	return false
}

// Step advances the engine one fixed time step.
func (s *Space) Step(dt float64) {
	s.cp.Step(dt)
}

// fiveRockProtected decides whether a stone about to exit play is shielded
// by the free-guard-zone rule: within the first five stones of the end, an
// opposing guard may not be removed by the shooter's collision chain.
func (s *Space) fiveRockProtected(stone *Stone) bool {
	if s.ThrownCount() > 5 {
		return false
	}
	if stone.Team == s.shooterTeam {
		return false
	}
	return stone.IsGuard
}
