package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// YawQuat returns a rotation of yaw radians about the world up axis.
func YawQuat(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0})
}

// WrapAngle maps an angle to (-pi, pi].
func WrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// HingeAngle extracts the rotation of q about the given unit axis.
// It assumes q is (close to) a pure twist about that axis, which holds for
// a single-axis hinge aligned with the joint's declared axis; for rotations
// with a large swing component the projection discards the off-axis part.
// NOTE: worth re-deriving from first principles for large angles; this
// matches the shipped behavior, correctness there was never proven either.
func HingeAngle(q mgl64.Quat, axis mgl64.Vec3) float64 {
	proj := q.V.Dot(axis)
	return WrapAngle(2 * math.Atan2(proj, q.W))
}

// ClampAngle limits a to [min, max].
func ClampAngle(a, min, max float64) float64 {
	if a < min {
		return min
	}
	if a > max {
		return max
	}
	return a
}
