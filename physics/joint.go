package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/automoto/beanbrawl/gamemath"
)

// Solver tuning. These are internal stability constants, not gameplay feel;
// feel lives in the motor gains set per tick by the callers.
const (
	baumgarte     = 0.2
	positionSlop  = 0.002
	positionPct   = 0.6
	axisAlignGain = 0.4
	limitGain     = 18.0
	limitDamping  = 2.0
	minSolveMass  = 1e-9
)

// BallJoint pins a point on body A to a point on body B. Solved as a
// sequential-impulse point constraint with Baumgarte stabilization plus a
// direct position correction pass.
type BallJoint struct {
	a, b   *Body
	localA mgl64.Vec3
	localB mgl64.Vec3
}

func newBallJoint(a, b *Body, worldAnchor mgl64.Vec3) *BallJoint {
	return &BallJoint{
		a:      a,
		b:      b,
		localA: a.rot.Inverse().Rotate(worldAnchor.Sub(a.pos)),
		localB: b.rot.Inverse().Rotate(worldAnchor.Sub(b.pos)),
	}
}

// Bodies returns the joint's two bodies.
func (j *BallJoint) Bodies() (*Body, *Body) { return j.a, j.b }

func (j *BallJoint) anchors() (mgl64.Vec3, mgl64.Vec3) {
	pA := j.a.pos.Add(j.a.rot.Rotate(j.localA))
	pB := j.b.pos.Add(j.b.rot.Rotate(j.localB))
	return pA, pB
}

func (j *BallJoint) solveVelocity(dt float64) {
	k := j.a.invMass + j.b.invMass
	if k < minSolveMass {
		return
	}
	pA, pB := j.anchors()
	rA := pA.Sub(j.a.pos)
	rB := pB.Sub(j.b.pos)
	velA := j.a.vel.Add(j.a.angVel.Cross(rA))
	velB := j.b.vel.Add(j.b.angVel.Cross(rB))
	// Drive relative anchor velocity toward closing the positional error.
	c := pB.Sub(pA)
	rel := velB.Sub(velA).Add(c.Mul(baumgarte / dt))
	imp := rel.Mul(-1 / k)
	j.b.ApplyImpulseAt(imp, pB)
	j.a.ApplyImpulseAt(imp.Mul(-1), pA)
}

func (j *BallJoint) solvePosition() {
	k := j.a.invMass + j.b.invMass
	if k < minSolveMass {
		return
	}
	pA, pB := j.anchors()
	c := pB.Sub(pA)
	if c.LenSqr() < positionSlop*positionSlop {
		return
	}
	corr := c.Mul(positionPct / k)
	j.a.pos = j.a.pos.Add(corr.Mul(j.a.invMass))
	j.b.pos = j.b.pos.Sub(corr.Mul(j.b.invMass))
}

// HingeJoint is a ball joint with a shared rotation axis, hard angle limits
// and a PD position motor. The axis is expressed in both bodies' local frames
// captured at build time, when the relative rotation defines the zero angle.
type HingeJoint struct {
	anchor    BallJoint
	localAxis mgl64.Vec3
	restRel   mgl64.Quat

	min, max float64

	motorTarget  float64
	motorGain    float64
	motorDamping float64
}

func newHingeJoint(a, b *Body, worldAnchor, localAxis mgl64.Vec3, min, max float64) *HingeJoint {
	return &HingeJoint{
		anchor:    *newBallJoint(a, b, worldAnchor),
		localAxis: localAxis.Normalize(),
		restRel:   a.rot.Inverse().Mul(b.rot),
		min:       min,
		max:       max,
	}
}

// Bodies returns the hinge's two bodies.
func (j *HingeJoint) Bodies() (*Body, *Body) { return j.anchor.a, j.anchor.b }

// Limits returns the hinge's angle range.
func (j *HingeJoint) Limits() (min, max float64) { return j.min, j.max }

// Angle returns the current hinge angle relative to the build pose, in
// radians, wrapped to (-pi, pi].
func (j *HingeJoint) Angle() float64 {
	rel := j.anchor.a.rot.Inverse().Mul(j.anchor.b.rot)
	twist := j.restRel.Inverse().Mul(rel)
	return gamemath.HingeAngle(twist, j.localAxis)
}

// MotorTarget returns the current motor target angle.
func (j *HingeJoint) MotorTarget() float64 { return j.motorTarget }

// SetMotorTarget sets the angle the motor pulls toward. The target is always
// clamped into the hinge's limit range.
func (j *HingeJoint) SetMotorTarget(angle float64) {
	j.motorTarget = gamemath.ClampAngle(angle, j.min, j.max)
}

// SetMotor sets the PD gains for this tick. Zero gain disables the motor.
func (j *HingeJoint) SetMotor(gain, damping float64) {
	j.motorGain = gain
	j.motorDamping = damping
}

func (j *HingeJoint) worldAxis() mgl64.Vec3 {
	return j.anchor.a.rot.Rotate(j.localAxis)
}

// applyMotor applies the PD torque as an angular impulse pair about the
// hinge axis, then the limit response when the angle is out of range.
func (j *HingeJoint) applyMotor(dt float64) {
	a, b := j.anchor.a, j.anchor.b
	axis := j.worldAxis()
	angle := j.Angle()
	relOmega := b.angVel.Sub(a.angVel).Dot(axis)

	if j.motorGain > 0 {
		torque := j.motorGain*(j.motorTarget-angle) - j.motorDamping*relOmega
		imp := axis.Mul(torque * dt)
		b.ApplyTorqueImpulse(imp)
		a.ApplyTorqueImpulse(imp.Mul(-1))
	}

	var violation float64
	switch {
	case angle < j.min:
		violation = j.min - angle
	case angle > j.max:
		violation = j.max - angle
	default:
		return
	}
	torque := limitGain*violation - limitDamping*relOmega
	imp := axis.Mul(torque * dt)
	b.ApplyTorqueImpulse(imp)
	a.ApplyTorqueImpulse(imp.Mul(-1))
}

// alignAxis nudges B's copy of the hinge axis back onto A's. Keeps the hinge
// from accumulating swing outside its single degree of freedom.
func (j *HingeJoint) alignAxis() {
	a, b := j.anchor.a, j.anchor.b
	rel := a.rot.Inverse().Mul(b.rot)
	drift := j.restRel.Inverse().Mul(rel)
	axisDrift := drift.Rotate(j.localAxis)
	err := axisDrift.Cross(j.localAxis)
	if err.LenSqr() < 1e-10 {
		return
	}
	corr := a.rot.Rotate(err).Mul(axisAlignGain)
	b.ApplyTorqueImpulse(corr)
	a.ApplyTorqueImpulse(corr.Mul(-1))
}

func (j *HingeJoint) solveVelocity(dt float64) { j.anchor.solveVelocity(dt) }
func (j *HingeJoint) solvePosition()           { j.anchor.solvePosition() }

// SpringJoint is a distance spring-damper between a point on the grabber
// side (or a fixed world point when a is nil) and body B's center. Used for
// grab attachments.
type SpringJoint struct {
	a      *Body
	b      *Body
	worldA mgl64.Vec3

	rest      float64
	stiffness float64
	damping   float64

	disableContacts bool
}

// AttachedTo reports whether the spring references the given body.
func (j *SpringJoint) AttachedTo(b *Body) bool { return j.a == b || j.b == b }

// SetAnchor moves the world-space anchor (only meaningful when a is nil).
func (j *SpringJoint) SetAnchor(p mgl64.Vec3) { j.worldA = p }

func (j *SpringJoint) apply(dt float64) {
	pA := j.worldA
	var velA mgl64.Vec3
	if j.a != nil {
		pA = j.a.pos
		velA = j.a.vel
	}
	d := j.b.pos.Sub(pA)
	l := d.Len()
	if l < 1e-9 {
		return
	}
	dir := d.Mul(1 / l)
	relVel := j.b.vel.Sub(velA).Dot(dir)
	f := j.stiffness*(l-j.rest) + j.damping*relVel
	imp := dir.Mul(f * dt)
	j.b.ApplyImpulse(imp.Mul(-1))
	if j.a != nil {
		j.a.ApplyImpulse(imp)
	}
}
