package physics

import (
	cp "github.com/jakecoffman/cp/v2"

	"curling/rink"
)

const wallThickness = 1.0

// addBoundaries installs the three static wall segments (two long sides
// and the back wall past the elimination line) and the collision handler
// that removes exiting stones, subject to the 5-rock rule.
func addBoundaries(s *Space) {
	left := -rink.IceWidth / 2
	right := rink.IceWidth / 2
	back := rink.BacklineElim

	segments := []*cp.Shape{
		cp.NewSegment(s.cp.StaticBody, cp.Vector{X: left, Y: 0}, cp.Vector{X: left, Y: back}, wallThickness),
		cp.NewSegment(s.cp.StaticBody, cp.Vector{X: left, Y: back}, cp.Vector{X: right, Y: back}, wallThickness),
		cp.NewSegment(s.cp.StaticBody, cp.Vector{X: right, Y: back}, cp.Vector{X: right, Y: 0}, wallThickness),
	}
	for _, seg := range segments {
		seg.SetCollisionType(collisionWall)
		seg.UserData = wallRole{}
		s.cp.AddShape(seg)
	}

	handler := s.cp.NewCollisionHandler(collisionStone, collisionWall)
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		shape, _ := arb.Shapes()
		stone, ok := shape.UserData.(*Stone)
		if !ok {
			return true
		}

		if s.fiveRockProtected(stone) {
			s.violation = true
			return false
		}

		// Bodies cannot be removed mid-step; defer to after the step. The
		// stone pointer as key dedupes repeat contacts within the step.
		s.cp.AddPostStepCallback(func(*cp.Space, interface{}, interface{}) {
			s.RemoveStone(stone, "collision with the wall")
		}, stone, nil)
		return true
	}
}
