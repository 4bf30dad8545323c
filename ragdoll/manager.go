// Package ragdoll is the public face of the active-ragdoll control layer.
// A Manager owns one physics world and one ragdoll instance per player id;
// the game server drives it once per tick:
//
//	mgr.DriveToPosition(id, input)   // per player
//	mgr.Step(dt)                     // once
//	mgr.AllBoneTransforms(id)        // read-back for replication
//
// The Manager is single-threaded by contract, like the rest of the server
// tick.
package ragdoll

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/yohamta/donburi"

	"github.com/automoto/beanbrawl/components"
	cfg "github.com/automoto/beanbrawl/config"
	"github.com/automoto/beanbrawl/physics"
	"github.com/automoto/beanbrawl/systems"
	"github.com/automoto/beanbrawl/systems/factory"
)

// Transform is one bone's world pose, ready for replication.
type Transform struct {
	X, Y, Z        float64
	QX, QY, QZ, QW float64
}

// Manager owns the ragdoll instances of one room.
type Manager struct {
	log zerolog.Logger
	rng *rand.Rand

	pw    *physics.World
	world donburi.World

	instances map[string]*donburi.Entry
	grabs     map[string]*grab // grabber id -> active grab

	nextGroup int
}

// New builds an empty room: a physics world with a floor and no instances.
func New(opts ...Option) *Manager {
	m := &Manager{
		log: zerolog.Nop(),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		pw: physics.NewWorld(physics.Def{
			Gravity:        mgl64.Vec3{0, cfg.World.Gravity, 0},
			FloorY:         cfg.World.FloorY,
			MaxStep:        cfg.World.MaxStepSeconds,
			Iterations:     cfg.World.SolverIterations,
			LinearDamping:  cfg.World.LinearDamping,
			AngularDamping: cfg.World.AngularDamping,
			Restitution:    cfg.World.Restitution,
			Friction:       cfg.World.Friction,
		}),
		world:     donburi.NewWorld(),
		instances: make(map[string]*donburi.Entry),
		grabs:     make(map[string]*grab),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ensure lazily creates the instance for id. Safe to call every tick.
func (m *Manager) Ensure(id string) {
	m.ensure(id)
}

func (m *Manager) ensure(id string) *donburi.Entry {
	if e, ok := m.instances[id]; ok {
		return e
	}
	group := m.nextGroup
	m.nextGroup++
	e := factory.SpawnRagdoll(m.world, m.pw, group, mgl64.Vec3{0, cfg.Pose.RootHeight, 0})
	m.instances[id] = e
	m.log.Info().Str("id", id).Int("group", group).Msg("ragdoll created")
	return e
}

// DriveToPosition runs one control tick for one instance: state machine,
// attack sub-state, pose resolution (including the teleport snap when the
// body drifted too far) and motor application. Animation targets set since
// the previous drive apply to this tick only and are consumed here.
func (m *Manager) DriveToPosition(id string, in components.ControllerInput) {
	e := m.ensure(id)
	if in.DT > cfg.World.MaxStepSeconds {
		in.DT = cfg.World.MaxStepSeconds
	}
	if in.DT <= 0 {
		return
	}

	systems.UpdateState(e, in.Stun, in.DT)
	systems.UpdateAttack(e, in.DT)
	targets := systems.UpdatePose(e, in)
	systems.ApplyMotors(e, targets, in.DT)

	at := components.AnimTargets.Get(e)
	at.Active = false
	for b := range at.Targets {
		delete(at.Targets, b)
	}

	if targets.Teleported {
		m.log.Debug().Str("id", id).Msg("ragdoll teleported to controller")
	}
}

// Step advances the shared physics world once. Call after every instance
// has been driven this tick. dt is clamped inside the world so a hitched
// tick cannot blow up the simulation.
func (m *Manager) Step(dt float64) {
	m.pw.Step(dt)
}

// ApplyHitImpulse shoves one bone of the target along dir with the given
// magnitude. dir is the world-space hit direction and does not need to be
// normalized. targetBone names the bone to strike; an empty or unknown name
// picks a weighted-random one instead. Unknown ids are a no-op.
func (m *Manager) ApplyHitImpulse(id string, dir [3]float64, magnitude float64, heavy bool, targetBone string) {
	e, ok := m.instances[id]
	if !ok {
		return
	}
	target := components.BoneNone
	if b, ok := components.BoneFromName(targetBone); ok {
		target = b
	}
	struck := systems.ApplyHitImpulse(e, mgl64.Vec3{dir[0], dir[1], dir[2]}, magnitude, heavy, target, m.rng)
	m.log.Debug().Str("id", id).Str("bone", struck.String()).Bool("heavy", heavy).Msg("hit impulse")
}

// SetKnockout toggles the knockout state for id. Unknown ids are a no-op.
func (m *Manager) SetKnockout(id string, on bool) {
	e, ok := m.instances[id]
	if !ok {
		return
	}
	systems.SetKnockout(e, on, m.rng)
	if on {
		m.log.Info().Str("id", id).Msg("knockout")
	}
}

// TriggerAttackPose starts a light jab or a heavy three-phase swing for id.
// Ignored while another attack is in flight or the bean is not in control.
func (m *Manager) TriggerAttackPose(id string, heavy bool) {
	e, ok := m.instances[id]
	if !ok {
		return
	}
	systems.TriggerAttack(e, heavy)
}

// SetAnimationTargets installs authored overrides for the next drive of id,
// keyed by bone name. Positions and rotations are torso-local. Targets are
// valid for one tick; unknown ids and bone names are dropped silently.
func (m *Manager) SetAnimationTargets(id string, targets map[string]components.AnimTarget) {
	e, ok := m.instances[id]
	if !ok {
		return
	}
	at := components.AnimTargets.Get(e)
	if at.Targets == nil {
		at.Targets = make(map[components.Bone]components.AnimTarget, len(targets))
	}
	for name, t := range targets {
		b, ok := components.BoneFromName(name)
		if !ok {
			continue
		}
		at.Targets[b] = t
	}
	at.Active = len(at.Targets) > 0
}

// BoneTransform returns the world pose of one bone. The second return is
// false for unknown ids or bone names.
func (m *Manager) BoneTransform(id, bone string) (Transform, bool) {
	e, ok := m.instances[id]
	if !ok {
		return Transform{}, false
	}
	b, ok := components.BoneFromName(bone)
	if !ok {
		return Transform{}, false
	}
	body := components.Skeleton.Get(e).Body(b)
	if body == nil {
		return Transform{}, false
	}
	return transformOf(body), true
}

// AllBoneTransforms returns every bone pose of id keyed by bone name, or
// nil for unknown ids.
func (m *Manager) AllBoneTransforms(id string) map[string]Transform {
	e, ok := m.instances[id]
	if !ok {
		return nil
	}
	sk := components.Skeleton.Get(e)
	out := make(map[string]Transform, components.BoneCount)
	for _, b := range components.Bones() {
		body := sk.Body(b)
		if body == nil {
			continue
		}
		out[b.String()] = transformOf(body)
	}
	return out
}

// Stiffness returns the whole-body stiffness scale of id in [0,1], or 0 for
// unknown ids.
func (m *Manager) Stiffness(id string) float64 {
	e, ok := m.instances[id]
	if !ok {
		return 0
	}
	return components.Control.Get(e).StiffnessScale
}

// State returns the control state name of id ("active", "hit_reaction",
// "knockout", "recovering"), or "" for unknown ids.
func (m *Manager) State(id string) string {
	e, ok := m.instances[id]
	if !ok {
		return ""
	}
	return components.Control.Get(e).CurrentState.String()
}

// Prune removes every instance whose id is not in activeIDs, releasing any
// grab joints touching it first. Called when players leave the room.
func (m *Manager) Prune(activeIDs []string) {
	keep := make(map[string]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		keep[id] = struct{}{}
	}
	for id := range m.instances {
		if _, ok := keep[id]; !ok {
			m.remove(id)
		}
	}
}

// Close tears down every instance. The Manager must not be used afterwards.
func (m *Manager) Close() {
	for id := range m.instances {
		m.remove(id)
	}
}

func (m *Manager) remove(id string) {
	e, ok := m.instances[id]
	if !ok {
		return
	}
	m.releaseGrabsTouching(id)
	sk := components.Skeleton.Get(e)
	for _, b := range components.Bones() {
		if body := sk.Body(b); body != nil {
			m.pw.RemoveBody(body)
		}
	}
	m.world.Remove(e.Entity())
	delete(m.instances, id)
	m.log.Info().Str("id", id).Msg("ragdoll pruned")
}

func transformOf(body *physics.Body) Transform {
	p := body.Position()
	q := body.Orientation()
	return Transform{
		X: p.X(), Y: p.Y(), Z: p.Z(),
		QX: q.V.X(), QY: q.V.Y(), QZ: q.V.Z(), QW: q.W,
	}
}
