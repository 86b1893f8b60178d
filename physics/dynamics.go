package physics

import (
	"math"

	cp "github.com/jakecoffman/cp/v2"

	"curling/rink"
)

// Curl calibration. These are empirical constants tuned so a draw-weight
// shot curls about six feet by the tee line; they have no physical
// derivation and must not be re-derived. The curl vector is subtracted
// from the velocity once per integration step.
const (
	curlSpeedRescale = 1.0 / 12.0 / 6.0
	curlM            = 0.008
	curlEM           = 0.2
	curlEO           = 1.5

	// Below this spin magnitude a stone is treated as thrown without
	// rotation and does not curl at all.
	spinEpsilon = 0.01
)

// frictionAccel is the constant deceleration of a sliding stone: mu * g.
func frictionAccel() float64 {
	return SurfaceFriction * rink.Dist(0, 0, GForce)
}

// stoneVelocity is the per-body velocity-update hook the engine invokes
// once per stone per integration step in place of pure inertial
// integration: kinetic friction opposing the motion, plus the
// spin-induced lateral curl.
func stoneVelocity(body *cp.Body, gravity cp.Vector, damping, dt float64) {
	v := body.Velocity()

	// A friction impulse larger than the remaining momentum would reverse
	// the stone every step instead of stopping it; pin it to the ice.
	if v.Length() <= frictionAccel()*dt {
		body.SetVelocityVector(cp.Vector{})
		body.SetForce(cp.Vector{})
		body.SetAngularVelocity(0)
		return
	}

	fNormal := StoneMass * rink.Dist(0, 0, GForce)
	fFriction := SurfaceFriction * fNormal
	body.SetForce(v.Normalize().Mult(-fFriction))

	body.SetVelocityVector(v.Sub(curlVelocity(body)))

	cp.BodyUpdateVelocity(body, gravity, damping, dt)
}

// curlVelocity returns the lateral velocity component induced by the
// stone's rotation: a Gaussian-shaped function of speed, perpendicular to
// the direction of travel, signed by the handle.
func curlVelocity(body *cp.Body) cp.Vector {
	if math.Abs(body.AngularVelocity()) < spinEpsilon {
		return cp.Vector{}
	}

	speed := body.Velocity().Length() * curlSpeedRescale
	magnitude := sqGauss(speed, curlM, 0, curlEM, curlEO)

	rotation := cp.ForAngle(-math.Pi / 2)
	if body.AngularVelocity() < 0 {
		rotation = cp.ForAngle(math.Pi / 2)
	}
	return body.Velocity().Normalize().Mult(magnitude).Rotate(rotation)
}

// sqGauss evaluates (x*m + o) * exp(-(x^2*em + eo)).
func sqGauss(x, m, o, em, eo float64) float64 {
	return (x*m + o) * math.Exp(-(x*x*em + eo))
}

// ShotVelocity computes the release velocity for a shot: speed from the
// energy balance work = distance * friction force, direction from the
// broom offset against the travel distance.
func ShotVelocity(weightDistance, broomFeet float64) cp.Vector {
	fNormal := StoneMass * rink.Dist(0, 0, GForce)
	fFriction := SurfaceFriction * fNormal

	work := weightDistance * fFriction
	speed := math.Sqrt(2 * work / StoneMass)

	direction := cp.Vector{X: rink.Dist(0, broomFeet, 0), Y: weightDistance}.Normalize()
	return direction.Mult(speed)
}
