package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"

	"github.com/automoto/beanbrawl/components"
	cfg "github.com/automoto/beanbrawl/config"
	"github.com/automoto/beanbrawl/gamemath"
)

// PoseTargets is the resolved pose for one tick: world-space position
// targets for the ball-socket limbs and motor angles for the hinges.
type PoseTargets struct {
	TorsoPos mgl64.Vec3
	TorsoRot mgl64.Quat

	BonePos map[components.Bone]mgl64.Vec3
	Hinge   map[components.JointID]float64

	Teleported bool
}

// hinge bone mapping: each hinge is named by the bone downstream of it.
var hingeForBone = map[components.Bone]components.JointID{
	components.BoneForearmL: components.JointElbowL,
	components.BoneForearmR: components.JointElbowR,
	components.BoneShinL:    components.JointKneeL,
	components.BoneShinR:    components.JointKneeR,
}

var elbowAxis = mgl64.Vec3{0, 1, 0}
var kneeAxis = mgl64.Vec3{1, 0, 0}

// UpdatePose resolves the per-tick pose targets from the controller input,
// the gait state, the attack sub-state and any animation overrides. It also
// drives the kinematic torso, including the teleport snap when the body has
// drifted too far from the controller.
func UpdatePose(e *donburi.Entry, in components.ControllerInput) PoseTargets {
	c := components.Control.Get(e)
	sk := components.Skeleton.Get(e)
	at := components.AnimTargets.Get(e)
	atk := components.Attack.Get(e)

	out := PoseTargets{
		BonePos: make(map[components.Bone]mgl64.Vec3, components.BoneCount),
		Hinge:   make(map[components.JointID]float64, 4),
	}

	torso := sk.Body(components.BoneTorso)
	if torso == nil {
		return out
	}

	dt := in.DT
	c.Elapsed += dt

	vel := mgl64.Vec3{in.Velocity[0], in.Velocity[1], in.Velocity[2]}
	rootTarget := mgl64.Vec3{in.Position[0], in.Position[1] + cfg.Pose.RootHeight, in.Position[2]}
	yawQ := gamemath.YawQuat(in.FacingYaw)

	if rootTarget.Sub(torso.Position()).LenSqr() > cfg.Pose.TeleportDistSq {
		teleport(sk, rootTarget, yawQ)
		c.LeanPitch, c.LeanRoll = 0, 0
		c.SwayPhase, c.GaitPhase = 0, 0
		c.Airborne = false
		c.PrevVel = in.Velocity
		out.TorsoPos = rootTarget
		out.TorsoRot = yawQ
		out.Teleported = true
		fillRestTargets(sk, &out)
		return out
	}

	forward := yawQ.Rotate(mgl64.Vec3{0, 0, 1})
	right := yawQ.Rotate(mgl64.Vec3{1, 0, 0})
	speed := math.Hypot(vel.X(), vel.Z())

	// Lean into horizontal acceleration.
	if dt > 0 {
		ax := (vel.X() - c.PrevVel[0]) / dt
		az := (vel.Z() - c.PrevVel[2]) / dt
		accel := mgl64.Vec3{ax, 0, az}
		pitchT := gamemath.Clamp(accel.Dot(forward)*cfg.Pose.LeanAccelScale, -cfg.Pose.MaxLean, cfg.Pose.MaxLean)
		rollT := gamemath.Clamp(-accel.Dot(right)*cfg.Pose.LeanAccelScale, -cfg.Pose.MaxLean, cfg.Pose.MaxLean)
		c.LeanPitch = gamemath.ExpDecayTo(c.LeanPitch, pitchT, cfg.Pose.LeanSmoothing, dt)
		c.LeanRoll = gamemath.ExpDecayTo(c.LeanRoll, rollT, cfg.Pose.LeanSmoothing, dt)
	}

	// Idle sway fades in as the bean stops.
	c.SwayPhase += dt * 2 * math.Pi * cfg.Pose.SwayFrequency
	swayBlend := gamemath.Clamp01(1 - speed/cfg.Pose.SwaySpeedThreshold)
	swayRoll := math.Sin(c.SwayPhase) * cfg.Pose.SwayAmplitude * swayBlend
	swayPitch := math.Sin(c.SwayPhase*cfg.Pose.SwayPitchFreqRatio) * cfg.Pose.SwayAmplitude * cfg.Pose.SwayPitchScale * swayBlend

	// Landing: a falling controller that stops falling just touched down.
	falling := vel.Y() < -cfg.Pose.FallSpeedThreshold
	if falling {
		c.Airborne = true
	} else if c.Airborne && vel.Y() > -cfg.Pose.LandSpeedThreshold {
		c.Airborne = false
		c.LeanPitch += cfg.Pose.LandingKickPitch
		c.Landing = gween.New(float32(cfg.Stiffness.LandingSoftness), 1, float32(cfg.Stiffness.LandingDuration), ease.OutQuad)
	}
	c.PrevVel = in.Velocity

	pitch := c.LeanPitch + swayPitch
	roll := c.LeanRoll + swayRoll
	torsoRot := yawQ.
		Mul(mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0})).
		Mul(mgl64.QuatRotate(roll, mgl64.Vec3{0, 0, 1})).
		Normalize()

	torsoPos := mgl64.Vec3{
		gamemath.ExpDecayTo(torso.Position().X(), rootTarget.X(), cfg.Pose.RootFollowRate, dt),
		gamemath.ExpDecayTo(torso.Position().Y(), rootTarget.Y(), cfg.Pose.RootFollowRate, dt),
		gamemath.ExpDecayTo(torso.Position().Z(), rootTarget.Z(), cfg.Pose.RootFollowRate, dt),
	}
	torso.MoveKinematic(torsoPos, torsoRot, dt)
	out.TorsoPos = torsoPos
	out.TorsoRot = torsoRot

	// Gait.
	freq := cfg.Pose.WalkFrequency
	if in.Sprinting {
		freq *= cfg.Pose.SprintFrequencyScale
	}
	speedNorm := gamemath.Clamp01(speed / cfg.Pose.StrideSpeedRef)
	c.GaitPhase += dt * 2 * math.Pi * freq * math.Max(speedNorm, 0.05)
	swing := math.Sin(c.GaitPhase)
	armSwing := gamemath.PowerShape(swing, cfg.Pose.ArmShapeExponent) * cfg.Pose.ArmSwingAmplitude * speedNorm
	legSwing := swing * cfg.Pose.LegSwingAmplitude * speedNorm

	for _, b := range components.Bones() {
		if b == components.BoneTorso {
			continue
		}
		target := torsoPos.Add(torsoRot.Rotate(sk.RestOffsets[b]))
		side := 1.0
		if b.Left() {
			side = -1
		}
		switch {
		case b.IsArm():
			// Arms counter-swing the legs of the same side.
			amt := armSwing * side
			if b == components.BoneUpperArmL || b == components.BoneUpperArmR {
				amt *= cfg.Pose.UpperArmSwingScale
			}
			target = target.Add(forward.Mul(amt))
		case b.IsLeg():
			amt := -legSwing * side
			if b == components.BoneShinL || b == components.BoneShinR {
				amt = -math.Sin(c.GaitPhase-cfg.Pose.ShinPhaseLag) * cfg.Pose.LegSwingAmplitude * speedNorm * side
			}
			target = target.Add(forward.Mul(amt))
		}
		out.BonePos[b] = target
	}

	// Hinge swing: elbows bend more the harder the arms pump, knees lift on
	// the forward half of the stride only.
	elbowBend := math.Abs(swing) * cfg.Pose.ElbowSwingAngle * speedNorm
	out.Hinge[components.JointElbowL] = cfg.Pose.RestElbowAngle - elbowBend
	out.Hinge[components.JointElbowR] = cfg.Pose.RestElbowAngle - elbowBend
	out.Hinge[components.JointKneeL] = math.Max(0, -swing) * cfg.Pose.KneeLiftAngle * speedNorm
	out.Hinge[components.JointKneeR] = math.Max(0, swing) * cfg.Pose.KneeLiftAngle * speedNorm

	if atk.Active() {
		applyAttackPose(atk, sk, torsoPos, torsoRot, forward, &out)
	}

	if at.Active {
		applyAnimTargets(at, torsoPos, torsoRot, &out)
	}

	return out
}

// teleport snaps every body to its yaw-rotated rest offset around the new
// torso position and zeroes all velocities.
func teleport(sk *components.SkeletonData, torsoPos mgl64.Vec3, yawQ mgl64.Quat) {
	for _, b := range components.Bones() {
		body := sk.Body(b)
		if body == nil {
			continue
		}
		body.Teleport(torsoPos.Add(yawQ.Rotate(sk.RestOffsets[b])), yawQ)
	}
}

func fillRestTargets(sk *components.SkeletonData, out *PoseTargets) {
	for _, b := range components.Bones() {
		if b == components.BoneTorso {
			continue
		}
		out.BonePos[b] = out.TorsoPos.Add(out.TorsoRot.Rotate(sk.RestOffsets[b]))
	}
	out.Hinge[components.JointElbowL] = cfg.Pose.RestElbowAngle
	out.Hinge[components.JointElbowR] = cfg.Pose.RestElbowAngle
	out.Hinge[components.JointKneeL] = 0
	out.Hinge[components.JointKneeR] = 0
}

// applyAttackPose distorts the attacking arm's targets per phase.
func applyAttackPose(atk *components.AttackData, sk *components.SkeletonData, torsoPos mgl64.Vec3, torsoRot mgl64.Quat, forward mgl64.Vec3, out *PoseTargets) {
	upper := components.BoneUpperArmR
	fore := components.BoneForearmR
	elbow := components.JointElbowR
	if atk.LeftArm {
		upper = components.BoneUpperArmL
		fore = components.BoneForearmL
		elbow = components.JointElbowL
	}
	base := torsoPos.Add(torsoRot.Rotate(sk.RestOffsets[fore]))

	switch atk.Kind {
	case components.AttackLight:
		// Single jab: out and back along a half sine.
		p := phaseProgress(atk.Timer, cfg.Attack.JabSeconds)
		reach := math.Sin(p*math.Pi) * cfg.Attack.JabReach
		out.BonePos[fore] = base.Add(forward.Mul(reach))
		out.BonePos[upper] = torsoPos.Add(torsoRot.Rotate(sk.RestOffsets[upper])).Add(forward.Mul(reach * 0.4))
		out.Hinge[elbow] = cfg.Attack.StrikeElbow * p

	case components.AttackHeavy:
		switch atk.Phase {
		case components.PhaseWindup:
			p := phaseProgress(atk.Timer, cfg.Attack.WindupSeconds)
			pull := float64(ease.InQuad(float32(p), 0, 1, 1)) * cfg.Attack.WindupPull
			out.BonePos[fore] = base.Sub(forward.Mul(pull))
			out.Hinge[elbow] = cfg.Skeleton.ElbowMin * 0.8
		case components.PhaseStrike:
			p := phaseProgress(atk.Timer, cfg.Attack.StrikeSeconds)
			reach := float64(ease.OutQuad(float32(p), 0, 1, 1)) * cfg.Attack.StrikeReach
			out.BonePos[fore] = base.Add(forward.Mul(reach))
			out.BonePos[upper] = torsoPos.Add(torsoRot.Rotate(sk.RestOffsets[upper])).Add(forward.Mul(reach * 0.5))
			out.Hinge[elbow] = cfg.Attack.StrikeElbow
		case components.PhaseFollow:
			p := phaseProgress(atk.Timer, cfg.Attack.FollowSeconds)
			reach := (1 - float64(ease.InOutQuad(float32(p), 0, 1, 1))*0.7) * cfg.Attack.StrikeReach
			out.BonePos[fore] = base.Add(forward.Mul(reach))
			out.Hinge[elbow] = cfg.Attack.StrikeElbow * (1 - p*0.5)
		}
	}
}

// applyAnimTargets replaces resolved targets with authored ones. Overrides
// win outright; there is no blending.
func applyAnimTargets(at *components.AnimTargetData, torsoPos mgl64.Vec3, torsoRot mgl64.Quat, out *PoseTargets) {
	for b, t := range at.Targets {
		if b == components.BoneTorso {
			continue
		}
		if t.HasPosition {
			out.BonePos[b] = torsoPos.Add(torsoRot.Rotate(t.Position))
		}
		if t.HasRotation {
			id, ok := hingeForBone[b]
			if !ok {
				continue
			}
			axis := kneeAxis
			if b.IsArm() {
				axis = elbowAxis
			}
			out.Hinge[id] = gamemath.HingeAngle(t.Rotation, axis)
		}
	}
}

// phaseProgress maps a countdown timer onto 0..1 progress.
func phaseProgress(timer, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return gamemath.Clamp01(1 - timer/duration)
}
