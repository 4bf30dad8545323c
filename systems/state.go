package systems

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"

	"github.com/automoto/beanbrawl/components"
	cfg "github.com/automoto/beanbrawl/config"
	"github.com/automoto/beanbrawl/gamemath"
)

// UpdateState advances the stiffness state machine for one instance by dt.
// stun is the controller's current stun amount in [0,1]; it only softens the
// active state.
func UpdateState(e *donburi.Entry, stun, dt float64) {
	c := components.Control.Get(e)
	c.EnsureLimbMaps()
	c.StateTimer += dt

	landing := 1.0
	if c.Landing != nil {
		v, done := c.Landing.Update(float32(dt))
		landing = float64(v)
		if done {
			c.Landing = nil
		}
	}

	switch c.CurrentState {
	case components.StateActive:
		for _, b := range components.Bones() {
			c.LimbStiffness[b] = c.LimbCap[b]
		}
		c.DriveScale = gamemath.Clamp01(1-cfg.Stiffness.StunSoftening*stun) * landing
		c.StiffnessScale = min2(c.DriveScale, minCap(c))

	case components.StateHitReaction:
		c.HitTimer -= dt
		c.DriveScale = landing
		c.StiffnessScale = minStiffness(c)
		if c.HitTimer <= 0 {
			StartRecovery(e)
		}

	case components.StateKnockout:
		c.DriveScale = 1
		c.StiffnessScale = 0
		if c.StateTimer >= cfg.Combat.KnockoutRecoverySeconds {
			StartRecovery(e)
		}

	case components.StateRecovering:
		c.DriveScale = 1
		done := true
		for _, b := range components.Bones() {
			tw := c.Recovery[b]
			if tw == nil {
				continue
			}
			v, finished := tw.Update(float32(dt))
			cap := c.LimbCap[b]
			val := gamemath.Clamp(float64(v), 0, cap)
			if !finished && cap-val > cfg.Stiffness.RecoverySnapTolerance {
				done = false
			}
			c.LimbStiffness[b] = val
		}
		c.StiffnessScale = minStiffness(c)
		if done {
			for _, b := range components.Bones() {
				c.LimbStiffness[b] = c.LimbCap[b]
			}
			c.Recovery = nil
			transition(c, components.StateActive)
		}
	}
}

// StartRecovery moves the instance into recovering, ramping each limb from
// its current stiffness back to its cap. The torso leads and the forearms
// trail, so the bean rights itself before the arms firm up.
func StartRecovery(e *donburi.Entry) {
	c := components.Control.Get(e)
	c.EnsureLimbMaps()
	c.Recovery = make(map[components.Bone]*gween.Tween, components.BoneCount)
	for _, b := range components.Bones() {
		cur := float32(c.LimbStiffness[b])
		cap := float32(c.LimbCap[b])
		dur := float32(cfg.Stiffness.RecoveryBase * recoveryFactor(b))
		c.Recovery[b] = gween.New(cur, cap, dur, ease.OutQuad)
	}
	transition(c, components.StateRecovering)
}

// EffectiveStiffness is the stiffness the motors see for one limb.
func EffectiveStiffness(c *components.ControlData, b components.Bone) float64 {
	return gamemath.Clamp01(c.LimbStiffness[b] * c.DriveScale)
}

func recoveryFactor(b components.Bone) float64 {
	s := cfg.Stiffness
	switch b {
	case components.BoneTorso:
		return s.RecoveryFactorTorso
	case components.BoneHead:
		return s.RecoveryFactorHead
	case components.BoneThighL, components.BoneThighR:
		return s.RecoveryFactorThigh
	case components.BoneShinL, components.BoneShinR:
		return s.RecoveryFactorShin
	case components.BoneUpperArmL, components.BoneUpperArmR:
		return s.RecoveryFactorUpperArm
	default:
		return s.RecoveryFactorForearm
	}
}

func transition(c *components.ControlData, to components.StateID) {
	if c.CurrentState == to {
		return
	}
	c.PreviousState = c.CurrentState
	c.CurrentState = to
	c.StateTimer = 0
}

func minStiffness(c *components.ControlData) float64 {
	m := 1.0
	for _, b := range components.Bones() {
		if v := c.LimbStiffness[b]; v < m {
			m = v
		}
	}
	return m
}

func minCap(c *components.ControlData) float64 {
	m := 1.0
	for _, b := range components.Bones() {
		if v := c.LimbCap[b]; v < m {
			m = v
		}
	}
	return m
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
