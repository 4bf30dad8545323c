package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"

	"github.com/automoto/beanbrawl/components"
	cfg "github.com/automoto/beanbrawl/config"
)

var up = mgl64.Vec3{0, 1, 0}

// ApplyHitImpulse shoves one bone along dir plus a fixed upward term and
// drops the body's stiffness: every limb is capped at the configured drop
// and the struck limb falls to half of it. target picks the bone directly;
// BoneNone draws a weighted random one (heavy hits bias the upper body).
// Heavy hits also spin the limb and echo a fraction of the impulse into the
// rest of the body. During knockout only the impulse applies; the limbs stay
// at zero until recovery. Returns the bone that took the hit.
func ApplyHitImpulse(e *donburi.Entry, dir mgl64.Vec3, magnitude float64, heavy bool, target components.Bone, rng *rand.Rand) components.Bone {
	c := components.Control.Get(e)
	sk := components.Skeleton.Get(e)
	c.EnsureLimbMaps()

	if dir.LenSqr() < 1e-12 {
		dir = mgl64.Vec3{0, 0, 1}
	}
	dir = dir.Normalize()

	struck := target
	if struck < 0 || struck >= components.BoneCount {
		weights := cfg.Combat.HitWeightsLight
		if heavy {
			weights = cfg.Combat.HitWeightsHeavy
		}
		struck = pickHitBone(rng, weights)
	}
	drop := cfg.Combat.StiffnessDropLight
	timer := cfg.Combat.HitTimerLight
	if heavy {
		drop = cfg.Combat.StiffnessDropHeavy
		timer = cfg.Combat.HitTimerHeavy
	}
	scale := magnitude * cfg.Combat.DirectionalScale
	imp := mgl64.Vec3{
		dir.X() * scale,
		dir.Y()*magnitude + cfg.Combat.UpwardImpulse,
		dir.Z() * scale,
	}

	if body := sk.Body(struck); body != nil {
		body.ApplyImpulse(imp)
		if heavy {
			body.ApplyTorqueImpulse(up.Cross(dir).Mul(cfg.Combat.HeavyTorque))
		}
	}
	if heavy {
		echo := imp.Mul(cfg.Combat.SpreadFraction)
		for _, b := range components.Bones() {
			if b == struck {
				continue
			}
			if body := sk.Body(b); body != nil {
				body.ApplyImpulse(echo)
			}
		}
	}

	c.LastHitBone = struck
	// A knocked-out bean still takes the impulse but stays fully limp.
	if c.CurrentState != components.StateKnockout {
		for _, b := range components.Bones() {
			if c.LimbStiffness[b] > drop {
				c.LimbStiffness[b] = drop
			}
		}
		c.LimbStiffness[struck] = drop / 2
		c.HitTimer = timer
		transition(c, components.StateHitReaction)
	}
	return struck
}

// SetKnockout toggles the knockout state. Turning it on zeroes every limb
// and collapses the body with a small randomized scatter per limb; turning
// it off early starts recovery immediately.
func SetKnockout(e *donburi.Entry, on bool, rng *rand.Rand) {
	c := components.Control.Get(e)
	sk := components.Skeleton.Get(e)
	c.EnsureLimbMaps()

	if !on {
		if c.CurrentState == components.StateKnockout {
			StartRecovery(e)
		}
		return
	}
	if c.CurrentState == components.StateKnockout {
		return
	}

	var total float64
	for _, b := range components.Bones() {
		if body := sk.Body(b); body != nil && !body.Kinematic() {
			total += body.Mass()
		}
	}
	for _, b := range components.Bones() {
		c.LimbStiffness[b] = 0
		body := sk.Body(b)
		if body == nil || body.Kinematic() || total == 0 {
			continue
		}
		theta := rng.Float64() * 2 * math.Pi
		share := body.Mass() / total
		imp := mgl64.Vec3{
			math.Cos(theta) * cfg.Combat.KnockoutScatterImpulse * share,
			-cfg.Combat.KnockoutCollapseImpulse * share,
			math.Sin(theta) * cfg.Combat.KnockoutScatterImpulse * share,
		}
		body.ApplyImpulse(imp)
	}
	transition(c, components.StateKnockout)
}

// TriggerAttack starts an attack pose. Light attacks are a single jab;
// heavy attacks run windup, strike and follow-through. The striking arm
// alternates per attack. Ignored while an attack is in flight or the bean
// is not in control of its limbs.
func TriggerAttack(e *donburi.Entry, heavy bool) {
	c := components.Control.Get(e)
	atk := components.Attack.Get(e)
	if atk.Active() || c.CurrentState != components.StateActive {
		return
	}
	atk.LeftArm = atk.NextArmLeft
	atk.NextArmLeft = !atk.NextArmLeft
	if heavy {
		atk.Kind = components.AttackHeavy
		atk.Phase = components.PhaseWindup
		atk.Timer = cfg.Attack.WindupSeconds
	} else {
		atk.Kind = components.AttackLight
		atk.Phase = components.PhaseStrike
		atk.Timer = cfg.Attack.JabSeconds
	}
}

// UpdateAttack advances the attack sub-state by dt.
func UpdateAttack(e *donburi.Entry, dt float64) {
	atk := components.Attack.Get(e)
	if !atk.Active() {
		return
	}
	atk.Timer -= dt
	if atk.Timer > 0 {
		return
	}
	if atk.Kind == components.AttackLight {
		atk.Kind = components.AttackNone
		return
	}
	switch atk.Phase {
	case components.PhaseWindup:
		atk.Phase = components.PhaseStrike
		atk.Timer = cfg.Attack.StrikeSeconds
	case components.PhaseStrike:
		atk.Phase = components.PhaseFollow
		atk.Timer = cfg.Attack.FollowSeconds
	default:
		atk.Kind = components.AttackNone
	}
}

// ApplyThrow launches the whole body along dir after a grab release and
// puts the bean into a short hit reaction so it tumbles instead of fighting
// the flight.
func ApplyThrow(e *donburi.Entry, dir mgl64.Vec3) {
	c := components.Control.Get(e)
	sk := components.Skeleton.Get(e)
	c.EnsureLimbMaps()

	if dir.LenSqr() < 1e-12 {
		dir = mgl64.Vec3{0, 0, 1}
	}
	dir = dir.Normalize()
	launch := dir.Mul(cfg.Grab.ThrowImpulse * (1 - cfg.Grab.ThrowUpward)).
		Add(up.Mul(cfg.Grab.ThrowImpulse * cfg.Grab.ThrowUpward))

	var total float64
	for _, b := range components.Bones() {
		if body := sk.Body(b); body != nil && !body.Kinematic() {
			total += body.Mass()
		}
	}
	if total == 0 {
		return
	}
	for _, b := range components.Bones() {
		body := sk.Body(b)
		if body == nil || body.Kinematic() {
			continue
		}
		body.ApplyImpulse(launch.Mul(body.Mass() / total))
		if c.LimbStiffness[b] > cfg.Combat.StiffnessDropLight {
			c.LimbStiffness[b] = cfg.Combat.StiffnessDropLight
		}
	}
	c.HitTimer = cfg.Grab.ThrowReaction
	if c.CurrentState != components.StateKnockout {
		transition(c, components.StateHitReaction)
	}
}

func pickHitBone(rng *rand.Rand, w cfg.HitWeights) components.Bone {
	var total float64
	for _, b := range components.Bones() {
		total += hitWeight(b, w)
	}
	r := rng.Float64() * total
	for _, b := range components.Bones() {
		r -= hitWeight(b, w)
		if r < 0 {
			return b
		}
	}
	return components.BoneTorso
}

func hitWeight(b components.Bone, w cfg.HitWeights) float64 {
	switch b {
	case components.BoneTorso:
		return w.Torso
	case components.BoneHead:
		return w.Head
	case components.BoneUpperArmL, components.BoneUpperArmR:
		return w.UpperArm
	case components.BoneForearmL, components.BoneForearmR:
		return w.Forearm
	case components.BoneThighL, components.BoneThighR:
		return w.Thigh
	default:
		return w.Shin
	}
}
