package gamemath

import "math"

// ExpDecayTo moves current toward target with a framerate-independent
// exponential step. rate is the decay constant in 1/seconds.
func ExpDecayTo(current, target, rate, dt float64) float64 {
	return target + (current-target)*math.Exp(-rate*dt)
}

// PowerShape applies a sign-preserving power curve to x in [-1, 1].
// Exponents above 1 flatten the middle of a sine swing and sharpen the
// extremes, which reads as snappier limb motion.
func PowerShape(x, exp float64) float64 {
	return math.Copysign(math.Pow(math.Abs(x), exp), x)
}

// Clamp limits v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
