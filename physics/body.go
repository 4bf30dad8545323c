package physics

import "github.com/go-gl/mathgl/mgl64"

// Shape is a capsule aligned with the body's local Y axis. HalfHeight zero
// degenerates to a sphere.
type Shape struct {
	Radius     float64
	HalfHeight float64
}

// SphereShape returns a sphere of the given radius.
func SphereShape(radius float64) Shape {
	return Shape{Radius: radius}
}

// CapsuleShape returns a capsule with the given radius and cylinder
// half-height (caps excluded).
func CapsuleShape(radius, halfHeight float64) Shape {
	return Shape{Radius: radius, HalfHeight: halfHeight}
}

// Body is one rigid body owned by a World. All mutation goes through the
// methods below; the solver reads and writes the internals directly.
type Body struct {
	id uint64

	pos    mgl64.Vec3
	rot    mgl64.Quat
	vel    mgl64.Vec3
	angVel mgl64.Vec3

	mass       float64
	invMass    float64
	invInertia float64

	shape     Shape
	filter    Filter
	kinematic bool
}

func newBody(pos mgl64.Vec3, shape Shape, mass float64, filter Filter) *Body {
	b := &Body{
		pos:    pos,
		rot:    mgl64.QuatIdent(),
		mass:   mass,
		shape:  shape,
		filter: filter,
	}
	if mass > 0 {
		b.invMass = 1 / mass
		// Solid sphere approximation over the whole capsule extent; close
		// enough for motor-guided limbs and it keeps the solver scalar.
		r := shape.Radius + shape.HalfHeight
		b.invInertia = 1 / (0.4 * mass * r * r)
	}
	return b
}

// Position returns the body's world position.
func (b *Body) Position() mgl64.Vec3 { return b.pos }

// Orientation returns the body's world orientation.
func (b *Body) Orientation() mgl64.Quat { return b.rot }

// Velocity returns the body's linear velocity.
func (b *Body) Velocity() mgl64.Vec3 { return b.vel }

// AngularVelocity returns the body's angular velocity.
func (b *Body) AngularVelocity() mgl64.Vec3 { return b.angVel }

// Mass returns the body's mass (0 for kinematic bodies).
func (b *Body) Mass() float64 { return b.mass }

// BodyShape returns the collision shape.
func (b *Body) BodyShape() Shape { return b.shape }

// CollisionFilter returns the group/mask pair.
func (b *Body) CollisionFilter() Filter { return b.filter }

// SetVelocity overwrites the linear velocity.
func (b *Body) SetVelocity(v mgl64.Vec3) { b.vel = v }

// SetAngularVelocity overwrites the angular velocity.
func (b *Body) SetAngularVelocity(w mgl64.Vec3) { b.angVel = w }

// SetKinematic marks the body as kinematically driven: infinite mass, never
// integrated, positioned only through Teleport/MoveKinematic.
func (b *Body) SetKinematic(kinematic bool) {
	b.kinematic = kinematic
	if kinematic {
		b.invMass = 0
		b.invInertia = 0
	} else if b.mass > 0 {
		b.invMass = 1 / b.mass
		r := b.shape.Radius + b.shape.HalfHeight
		b.invInertia = 1 / (0.4 * b.mass * r * r)
	}
}

// Kinematic reports whether the body is kinematically driven.
func (b *Body) Kinematic() bool { return b.kinematic }

// Teleport snaps the body to a pose and zeroes both velocities.
func (b *Body) Teleport(pos mgl64.Vec3, rot mgl64.Quat) {
	b.pos = pos
	b.rot = rot.Normalize()
	b.vel = mgl64.Vec3{}
	b.angVel = mgl64.Vec3{}
}

// MoveKinematic repositions a kinematic body for the current tick, deriving
// a velocity from the displacement so joint constraints and read-back see
// consistent motion.
func (b *Body) MoveKinematic(pos mgl64.Vec3, rot mgl64.Quat, dt float64) {
	if dt > 0 {
		b.vel = pos.Sub(b.pos).Mul(1 / dt)
	}
	b.pos = pos
	b.rot = rot.Normalize()
	b.angVel = mgl64.Vec3{}
}

// ApplyImpulse applies a linear impulse at the center of mass.
func (b *Body) ApplyImpulse(j mgl64.Vec3) {
	b.vel = b.vel.Add(j.Mul(b.invMass))
}

// ApplyImpulseAt applies an impulse at a world point, inducing both linear
// and angular response.
func (b *Body) ApplyImpulseAt(j, point mgl64.Vec3) {
	b.vel = b.vel.Add(j.Mul(b.invMass))
	r := point.Sub(b.pos)
	b.angVel = b.angVel.Add(r.Cross(j).Mul(b.invInertia))
}

// ApplyTorqueImpulse applies a pure angular impulse.
func (b *Body) ApplyTorqueImpulse(t mgl64.Vec3) {
	b.angVel = b.angVel.Add(t.Mul(b.invInertia))
}

// endpoints returns the capsule cap centers in world space (both equal the
// position for spheres).
func (b *Body) endpoints() (mgl64.Vec3, mgl64.Vec3) {
	if b.shape.HalfHeight == 0 {
		return b.pos, b.pos
	}
	half := b.rot.Rotate(mgl64.Vec3{0, b.shape.HalfHeight, 0})
	return b.pos.Add(half), b.pos.Sub(half)
}

func (b *Body) integrate(dt float64) {
	if b.kinematic {
		return
	}
	b.pos = b.pos.Add(b.vel.Mul(dt))
	if b.angVel.LenSqr() > 0 {
		dq := mgl64.Quat{W: 0, V: b.angVel.Mul(0.5 * dt)}
		b.rot = b.rot.Add(dq.Mul(b.rot)).Normalize()
	}
}
