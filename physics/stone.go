// Package physics wraps the external 2D rigid-body engine behind the
// narrow interface the simulation needs: stone bodies with a custom
// velocity-update hook, static wall segments, and collision callbacks that
// enforce the removal rules. It holds per-turn mutable rule state only;
// nothing survives across turns.
package physics

import (
	"fmt"

	cp "github.com/jakecoffman/cp/v2"

	"curling/rink"
)

// Team mirrors the board team codes: 1 and -1.
type Team int

const (
	Team1 Team = 1
	Team2 Team = -1
)

// Physical constants. Mass is nominal kilograms; it cancels out of both
// the friction deceleration and the shot-speed energy balance.
const (
	StoneMass       = 19.96
	SurfaceFriction = 0.0168
	GForce          = 9.81 // m/s^2, converted to internal units at use

	// Interaction with other stones, not with the ice.
	stoneFriction   = 1.004
	stoneElasticity = 0.999999
)

// movingEpsilon: below this per-axis speed a stone counts as at rest.
const movingEpsilon = 0.01

// Collision type tags for the engine's handler dispatch.
const (
	collisionStone cp.CollisionType = 1
	collisionWall  cp.CollisionType = 2
)

// wallRole marks wall shapes via UserData, so rule code can tell stone
// shapes from boundary shapes without runtime type inspection.
type wallRole struct{}

// Stone is one engine-resident rock.
type Stone struct {
	ID   int
	Team Team

	// IsShooter marks the stone set in motion by the action being
	// simulated; at most one per turn.
	IsShooter bool

	// IsGuard records whether the stone sat before the tee line and
	// outside the house when it was placed. Only the 5-rock rule reads it.
	IsGuard bool

	body  *cp.Body
	shape *cp.Shape
}

// NewStone builds a stone body with the curling velocity hook attached.
func NewStone(id int, team Team) *Stone {
	body := cp.NewBody(StoneMass, cp.MomentForCircle(StoneMass, 0, rink.StoneRadius, cp.Vector{}))
	body.SetVelocityUpdateFunc(stoneVelocity)

	shape := cp.NewCircle(body, rink.StoneRadius, cp.Vector{})
	shape.SetFriction(stoneFriction)
	shape.SetElasticity(stoneElasticity)
	shape.SetCollisionType(collisionStone)

	s := &Stone{ID: id, Team: team, body: body, shape: shape}
	shape.UserData = s
	return s
}

func (s *Stone) Position() (float64, float64) {
	p := s.body.Position()
	return p.X, p.Y
}

func (s *Stone) SetPosition(x, y float64) {
	s.body.SetPosition(cp.Vector{X: x, Y: y})
	s.UpdateGuardValue()
}

func (s *Stone) Velocity() (float64, float64) {
	v := s.body.Velocity()
	return v.X, v.Y
}

func (s *Stone) SetVelocityVector(v cp.Vector) {
	s.body.SetVelocityVector(v)
}

func (s *Stone) AngularVelocity() float64 {
	return s.body.AngularVelocity()
}

func (s *Stone) SetAngularVelocity(w float64) {
	s.body.SetAngularVelocity(w)
}

// Moving reports whether either velocity component exceeds the rest
// epsilon; the simulation loop stops when no stone is moving.
func (s *Stone) Moving() bool {
	v := s.body.Velocity()
	return abs(v.X) > movingEpsilon || abs(v.Y) > movingEpsilon
}

// UpdateGuardValue recomputes IsGuard from the current position: before
// the tee line and outside the house.
func (s *Stone) UpdateGuardValue() {
	x, y := s.Position()
	beforeTee := y < rink.TeeLine
	outsideHouse := rink.DistanceToButton(x, y) > rink.HouseRadius+rink.StoneRadius
	s.IsGuard = beforeTee && outsideHouse
}

func (s *Stone) String() string {
	x, y := s.Position()
	tags := ""
	if s.IsShooter {
		tags += " shooter"
	}
	if s.IsGuard && !s.Moving() {
		tags += " guard"
	}
	if s.Moving() {
		tags += " moving"
	}
	return fmt.Sprintf("<stone %d team %d%s @ (%.1f,%.1f)>", s.ID, s.Team, tags, x, y)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
