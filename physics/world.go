package physics

import "github.com/go-gl/mathgl/mgl64"

// Def carries the world construction parameters.
type Def struct {
	Gravity    mgl64.Vec3
	FloorY     float64
	MaxStep    float64 // dt clamp for Step, seconds
	Iterations int     // constraint solver iterations per step

	LinearDamping  float64 // per-second velocity bleed
	AngularDamping float64
	Restitution    float64 // floor and body-body bounce
	Friction       float64 // floor tangential velocity retention per contact
}

// World owns all bodies and joints of one room and steps them together.
// Not safe for concurrent use.
type World struct {
	def Def

	nextID  uint64
	bodies  []*Body
	balls   []*BallJoint
	hinges  []*HingeJoint
	springs []*SpringJoint

	// Pairs excluded from contact while a spring with contact disable links
	// them (grabs).
	noContact map[bodyPair]int
}

type bodyPair struct{ a, b *Body }

func orderedPair(a, b *Body) bodyPair {
	if a.id > b.id {
		a, b = b, a
	}
	return bodyPair{a, b}
}

// NewWorld builds an empty world from the given definition. Zero-valued
// fields fall back to workable defaults.
func NewWorld(def Def) *World {
	if def.MaxStep <= 0 {
		def.MaxStep = 1.0 / 30.0
	}
	if def.Iterations <= 0 {
		def.Iterations = 8
	}
	if def.Gravity == (mgl64.Vec3{}) {
		def.Gravity = mgl64.Vec3{0, -9.81, 0}
	}
	if def.LinearDamping <= 0 {
		def.LinearDamping = 0.4
	}
	if def.AngularDamping <= 0 {
		def.AngularDamping = 1.2
	}
	if def.Friction <= 0 {
		def.Friction = 6.0
	}
	return &World{def: def, noContact: make(map[bodyPair]int)}
}

// AddBody creates a body and registers it with the world.
func (w *World) AddBody(pos mgl64.Vec3, shape Shape, mass float64, filter Filter) *Body {
	b := newBody(pos, shape, mass, filter)
	w.nextID++
	b.id = w.nextID
	w.bodies = append(w.bodies, b)
	return b
}

// AddBallJoint pins the two bodies together at the given world point.
func (w *World) AddBallJoint(a, b *Body, worldAnchor mgl64.Vec3) *BallJoint {
	j := newBallJoint(a, b, worldAnchor)
	w.balls = append(w.balls, j)
	return j
}

// AddHingeJoint pins the two bodies at the world point and constrains their
// relative rotation to the given axis (expressed in A's local frame, which
// matches B's at build time) within [min, max] radians.
func (w *World) AddHingeJoint(a, b *Body, worldAnchor, localAxis mgl64.Vec3, min, max float64) *HingeJoint {
	j := newHingeJoint(a, b, worldAnchor, localAxis, min, max)
	w.hinges = append(w.hinges, j)
	return j
}

// AddSpring attaches a spring-damper from a (or a fixed world anchor when a
// is nil) to b. disableContacts suppresses contact resolution between the
// pair for the spring's lifetime.
func (w *World) AddSpring(a, b *Body, worldAnchor mgl64.Vec3, rest, stiffness, damping float64, disableContacts bool) *SpringJoint {
	j := &SpringJoint{
		a:               a,
		b:               b,
		worldA:          worldAnchor,
		rest:            rest,
		stiffness:       stiffness,
		damping:         damping,
		disableContacts: disableContacts,
	}
	w.springs = append(w.springs, j)
	if disableContacts && a != nil {
		w.noContact[orderedPair(a, b)]++
	}
	return j
}

// RemoveSpring detaches a spring joint.
func (w *World) RemoveSpring(j *SpringJoint) {
	for i, s := range w.springs {
		if s == j {
			w.springs = append(w.springs[:i], w.springs[i+1:]...)
			break
		}
	}
	if j.disableContacts && j.a != nil {
		p := orderedPair(j.a, j.b)
		if w.noContact[p]--; w.noContact[p] <= 0 {
			delete(w.noContact, p)
		}
	}
}

// RemoveBody unregisters the body and every joint referencing it.
func (w *World) RemoveBody(b *Body) {
	for i, bb := range w.bodies {
		if bb == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	balls := w.balls[:0]
	for _, j := range w.balls {
		if j.a != b && j.b != b {
			balls = append(balls, j)
		}
	}
	w.balls = balls
	hinges := w.hinges[:0]
	for _, j := range w.hinges {
		if j.anchor.a != b && j.anchor.b != b {
			hinges = append(hinges, j)
		}
	}
	w.hinges = hinges
	springs := w.springs[:0]
	for _, j := range w.springs {
		if !j.AttachedTo(b) {
			springs = append(springs, j)
		} else if j.disableContacts && j.a != nil {
			delete(w.noContact, orderedPair(j.a, j.b))
		}
	}
	w.springs = springs
}

// BodyCount returns the number of registered bodies.
func (w *World) BodyCount() int { return len(w.bodies) }

// Step advances the simulation by dt seconds, clamped to the world's MaxStep
// so a hitched server tick cannot explode the integration.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	if dt > w.def.MaxStep {
		dt = w.def.MaxStep
	}

	for _, s := range w.springs {
		s.apply(dt)
	}
	for _, h := range w.hinges {
		h.applyMotor(dt)
		h.alignAxis()
	}
	linKeep := 1 / (1 + w.def.LinearDamping*dt)
	angKeep := 1 / (1 + w.def.AngularDamping*dt)
	for _, b := range w.bodies {
		if b.kinematic {
			continue
		}
		b.vel = b.vel.Add(w.def.Gravity.Mul(dt)).Mul(linKeep)
		b.angVel = b.angVel.Mul(angKeep)
	}

	for i := 0; i < w.def.Iterations; i++ {
		for _, j := range w.balls {
			j.solveVelocity(dt)
		}
		for _, j := range w.hinges {
			j.solveVelocity(dt)
		}
	}

	for _, b := range w.bodies {
		b.integrate(dt)
	}

	for i := 0; i < 2; i++ {
		for _, j := range w.balls {
			j.solvePosition()
		}
		for _, j := range w.hinges {
			j.solvePosition()
		}
	}

	w.resolveFloor(dt)
	w.resolveBodyContacts()
}

// resolveFloor pushes penetrating capsule caps out of the plane y = FloorY
// and kills the penetrating velocity with restitution and friction.
func (w *World) resolveFloor(dt float64) {
	for _, b := range w.bodies {
		if b.kinematic {
			continue
		}
		top, bottom := b.endpoints()
		pen := 0.0
		for _, e := range [2]mgl64.Vec3{top, bottom} {
			if p := w.def.FloorY - (e.Y() - b.shape.Radius); p > pen {
				pen = p
			}
		}
		if pen <= 0 {
			continue
		}
		b.pos = mgl64.Vec3{b.pos.X(), b.pos.Y() + pen, b.pos.Z()}
		if b.vel.Y() < 0 {
			keep := 1 / (1 + w.def.Friction*dt)
			b.vel = mgl64.Vec3{
				b.vel.X() * keep,
				-b.vel.Y() * w.def.Restitution,
				b.vel.Z() * keep,
			}
			b.angVel = b.angVel.Mul(keep)
		}
	}
}

// resolveBodyContacts handles inter-body collision as sphere contacts at the
// body centers with the combined capsule extents as radii. Coarse, but all
// it has to do is keep brawling ragdolls from interpenetrating.
func (w *World) resolveBodyContacts() {
	for i := 0; i < len(w.bodies); i++ {
		for k := i + 1; k < len(w.bodies); k++ {
			a, b := w.bodies[i], w.bodies[k]
			if a.kinematic && b.kinematic {
				continue
			}
			if !a.filter.ShouldCollide(b.filter) {
				continue
			}
			if _, excluded := w.noContact[orderedPair(a, b)]; excluded {
				continue
			}
			ra := a.shape.Radius + a.shape.HalfHeight*0.5
			rb := b.shape.Radius + b.shape.HalfHeight*0.5
			d := b.pos.Sub(a.pos)
			distSq := d.LenSqr()
			rsum := ra + rb
			if distSq >= rsum*rsum || distSq < 1e-12 {
				continue
			}
			dist := d.Len()
			n := d.Mul(1 / dist)
			pen := rsum - dist
			kSum := a.invMass + b.invMass
			if kSum < minSolveMass {
				continue
			}
			push := n.Mul(pen / kSum)
			a.pos = a.pos.Sub(push.Mul(a.invMass))
			b.pos = b.pos.Add(push.Mul(b.invMass))
			vn := b.vel.Sub(a.vel).Dot(n)
			if vn >= 0 {
				continue
			}
			imp := n.Mul(-(1 + w.def.Restitution) * vn / kSum)
			a.ApplyImpulse(imp.Mul(-1))
			b.ApplyImpulse(imp)
		}
	}
}
