package gamemath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0, WrapAngle(2*math.Pi), 1e-9)
	assert.InDelta(t, math.Pi, WrapAngle(math.Pi), 1e-9)
	assert.InDelta(t, -math.Pi/2, WrapAngle(3*math.Pi/2), 1e-9)
	assert.InDelta(t, 0.25, WrapAngle(0.25+4*math.Pi), 1e-9)
}

func TestHingeAngleRoundTrip(t *testing.T) {
	axis := mgl64.Vec3{0, 1, 0}
	for _, want := range []float64{-2.0, -0.5, 0, 0.7, 2.3} {
		q := mgl64.QuatRotate(want, axis)
		got := HingeAngle(q, axis)
		assert.InDelta(t, want, got, 1e-9, "angle %v", want)
	}
}

func TestHingeAngleIgnoresOffAxisComponent(t *testing.T) {
	axis := mgl64.Vec3{1, 0, 0}
	q := mgl64.QuatRotate(0.6, axis).Mul(mgl64.QuatRotate(0.1, mgl64.Vec3{0, 0, 1}))
	got := HingeAngle(q, axis)
	assert.InDelta(t, 0.6, got, 0.05)
}

func TestYawQuatRotatesForward(t *testing.T) {
	q := YawQuat(math.Pi / 2)
	v := q.Rotate(mgl64.Vec3{0, 0, 1})
	assert.InDelta(t, 1, v.X(), 1e-9)
	assert.InDelta(t, 0, v.Z(), 1e-9)
}

func TestClampAngle(t *testing.T) {
	assert.Equal(t, -2.4, ClampAngle(-3, -2.4, 0))
	assert.Equal(t, 0.0, ClampAngle(1, -2.4, 0))
	assert.Equal(t, -1.0, ClampAngle(-1, -2.4, 0))
}
