package gamemath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpDecayToConverges(t *testing.T) {
	v := 0.0
	for i := 0; i < 200; i++ {
		v = ExpDecayTo(v, 1, 8, 1.0/60.0)
	}
	assert.InDelta(t, 1, v, 1e-6)
}

func TestExpDecayToFramerateIndependent(t *testing.T) {
	// One big step lands in the same place as many small ones.
	coarse := ExpDecayTo(0, 1, 8, 0.1)
	fine := 0.0
	for i := 0; i < 10; i++ {
		fine = ExpDecayTo(fine, 1, 8, 0.01)
	}
	assert.InDelta(t, coarse, fine, 1e-9)
}

func TestPowerShapePreservesSign(t *testing.T) {
	assert.Less(t, PowerShape(-0.5, 1.6), 0.0)
	assert.Greater(t, PowerShape(0.5, 1.6), 0.0)
	assert.InDelta(t, 1, PowerShape(1, 1.6), 1e-9)
	assert.InDelta(t, -1, PowerShape(-1, 1.6), 1e-9)
	// Exponents above 1 flatten the middle.
	assert.Less(t, PowerShape(0.5, 1.6), 0.5)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-3))
	assert.Equal(t, 1.0, Clamp01(7))
	assert.Equal(t, 0.4, Clamp01(0.4))
}
