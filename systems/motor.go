package systems

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/beanbrawl/components"
	cfg "github.com/automoto/beanbrawl/config"
)

// hinge motors are scaled by the stiffness of the bone downstream of the
// joint.
var boneForHinge = map[components.JointID]components.Bone{
	components.JointElbowL: components.BoneForearmL,
	components.JointElbowR: components.BoneForearmR,
	components.JointKneeL:  components.BoneShinL,
	components.JointKneeR:  components.BoneShinR,
}

// ApplyMotors turns the resolved pose into hinge motor settings and limb
// impulses for this tick. Missing bodies and joints are skipped silently so
// a partially built skeleton never faults the room.
func ApplyMotors(e *donburi.Entry, targets PoseTargets, dt float64) {
	if dt <= 0 {
		return
	}
	c := components.Control.Get(e)
	sk := components.Skeleton.Get(e)

	for id, angle := range targets.Hinge {
		h := sk.Hinge(id)
		if h == nil {
			continue
		}
		stiff := EffectiveStiffness(c, boneForHinge[id])
		h.SetMotorTarget(angle)
		h.SetMotor(cfg.Motor.HingeGain*stiff, cfg.Motor.HingeDamping*stiff)
	}

	gravity := -cfg.World.Gravity
	for b, target := range targets.BonePos {
		body := sk.Body(b)
		if body == nil || body.Kinematic() {
			continue
		}
		stiff := EffectiveStiffness(c, b)
		m := body.Mass()

		damp := cfg.Motor.VelDamping
		if body.Velocity().Len() < cfg.Motor.IdleSpeedThreshold {
			damp *= cfg.Motor.IdleDampingMultiplier
		}

		spring := target.Sub(body.Position()).Mul(cfg.Motor.PosGain * stiff)
		drag := body.Velocity().Mul(damp * stiff)
		imp := spring.Sub(drag).Mul(m * dt)

		// Slack limbs keep most of their weight; stiff limbs are carried.
		imp[1] += m * gravity * dt * cfg.Motor.GravityCompensation * stiff

		body.ApplyImpulse(imp)
	}
}
