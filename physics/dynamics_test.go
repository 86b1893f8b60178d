package physics

import (
	"math"
	"testing"

	cp "github.com/jakecoffman/cp/v2"
	"github.com/stretchr/testify/require"

	"curling/rink"
)

const testDT = 0.005

// settle steps the space until nothing moves, bounded by the simulated cap.
func settle(t *testing.T, s *Space) float64 {
	t.Helper()
	simTime := 0.0
	for s.AnyMoving() {
		s.Step(testDT)
		simTime += testDT
		require.Less(t, simTime, 60.0, "stones must settle within the simulated-time cap")
	}
	return simTime
}

func TestSqGauss(t *testing.T) {
	require.Zero(t, sqGauss(0, 1, 0, 1, 0))
	require.InDelta(t, 1*math.Exp(-1), sqGauss(1, 1, 0, 1, 0), 1e-12)
	require.InDelta(t, (2*0.5+0.1)*math.Exp(-(4*0.3+0.2)), sqGauss(2, 0.5, 0.1, 0.3, 0.2), 1e-12)
}

func TestCurlSuppressedWithoutSpin(t *testing.T) {
	stone := NewStone(0, Team1)
	stone.SetVelocityVector(cp.Vector{X: 0, Y: 100})
	stone.SetAngularVelocity(0)
	require.Equal(t, cp.Vector{}, curlVelocity(stone.body))

	stone.SetAngularVelocity(spinEpsilon / 2)
	require.Equal(t, cp.Vector{}, curlVelocity(stone.body), "sub-threshold spin counts as no spin")
}

func TestCurlIsLateralAndSignedBySpin(t *testing.T) {
	stone := NewStone(0, Team1)
	stone.SetVelocityVector(cp.Vector{X: 0, Y: 100})

	stone.SetAngularVelocity(1)
	cw := curlVelocity(stone.body)
	stone.SetAngularVelocity(-1)
	ccw := curlVelocity(stone.body)

	require.NotZero(t, cw.X)
	require.InDelta(t, -cw.X, ccw.X, 1e-12, "opposite handles curl to opposite sides")
	require.InDelta(t, 0, cw.Y, 1e-12, "curl is perpendicular to the velocity")
	require.InDelta(t, 0, ccw.Y, 1e-12)
}

func TestShotVelocityEnergyBalance(t *testing.T) {
	d := rink.Dist(0, 124, 0)
	v := ShotVelocity(d, 0)

	require.Zero(t, v.X, "zero broom aims straight up the sheet")
	wantSpeed := math.Sqrt(2 * SurfaceFriction * rink.Dist(0, 0, GForce) * d)
	require.InDelta(t, wantSpeed, v.Length(), 1e-9)

	aimed := ShotVelocity(d, -6)
	require.Negative(t, aimed.X)
	require.InDelta(t, wantSpeed, aimed.Length(), 1e-9, "broom changes direction, not speed")
}

func TestZeroSpinDrawStopsAtWeightDistance(t *testing.T) {
	s := NewSpace()
	d := rink.Dist(0, 124, 0)

	stone := NewStone(0, Team1)
	stone.SetPosition(0, 0)
	stone.SetVelocityVector(ShotVelocity(d, 0))
	stone.SetAngularVelocity(0)
	s.AddStone(stone)

	settle(t, s)

	x, y := stone.Position()
	require.InDelta(t, d, y, 12, "stone should stop within a foot of its weight distance")
	require.InDelta(t, 0, x, 1, "no spin, no broom: no lateral drift")
}

func TestDrawCurlCalibration(t *testing.T) {
	// The curl constants were tuned for a lateral drift on the order of
	// six feet over a draw. Assert the scale and the handle symmetry, not
	// the exact figure.
	drift := func(handle float64) float64 {
		s := NewSpace()
		stone := NewStone(0, Team1)
		stone.SetPosition(0, 0)
		stone.SetVelocityVector(ShotVelocity(rink.Dist(0, 124, 0), 0))
		stone.SetAngularVelocity(handle)
		s.AddStone(stone)
		settle(t, s)
		x, _ := stone.Position()
		return x
	}

	right := drift(1)
	left := drift(-1)

	require.Greater(t, math.Abs(right), rink.Dist(0, 1, 0), "draw must curl at least a foot")
	require.Less(t, math.Abs(right), rink.Dist(0, 12, 0), "draw must curl less than twelve feet")
	require.InDelta(t, -right, left, 1.0, "opposite handles mirror the drift")
}

func TestStoneExitingBackWallIsRemoved(t *testing.T) {
	s := NewSpace()
	s.SetShooterTeam(Team1)

	stone := NewStone(0, Team1)
	stone.SetPosition(0, rink.Backline-rink.Dist(0, 2, 0))
	stone.SetVelocityVector(cp.Vector{X: 0, Y: 80})
	s.AddStone(stone)

	settle(t, s)

	require.Empty(t, s.Stones(), "stone crossing the elimination line leaves the space")
	require.Equal(t, 1, s.RemovedCount(Team1))
	require.False(t, s.Violation(), "own-team removal is never a violation")
}
