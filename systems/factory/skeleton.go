// Package factory builds the bean skeleton: bodies, joints and the donburi
// entity that ties them to the control state.
package factory

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"

	"github.com/automoto/beanbrawl/archetypes"
	"github.com/automoto/beanbrawl/components"
	cfg "github.com/automoto/beanbrawl/config"
	"github.com/automoto/beanbrawl/physics"
)

// RestOffsets returns the torso-local body positions of the build pose,
// derived from the skeleton config. Arms hang straight down from the
// shoulders, legs straight down from the hips.
func RestOffsets() map[components.Bone]mgl64.Vec3 {
	s := cfg.Skeleton
	armY := s.ShoulderY - s.UpperArmHalfHeight
	foreY := armY - s.UpperArmHalfHeight - s.ForearmHalfHeight
	thighY := s.HipY - s.ThighHalfHeight
	shinY := thighY - s.ThighHalfHeight - s.ShinHalfHeight
	return map[components.Bone]mgl64.Vec3{
		components.BoneTorso:     {0, 0, 0},
		components.BoneHead:      {0, s.NeckY + s.HeadRadius, 0},
		components.BoneUpperArmL: {-s.ShoulderX, armY, 0},
		components.BoneUpperArmR: {s.ShoulderX, armY, 0},
		components.BoneForearmL:  {-s.ShoulderX, foreY, 0},
		components.BoneForearmR:  {s.ShoulderX, foreY, 0},
		components.BoneThighL:    {-s.HipX, thighY, 0},
		components.BoneThighR:    {s.HipX, thighY, 0},
		components.BoneShinL:     {-s.HipX, shinY, 0},
		components.BoneShinR:     {s.HipX, shinY, 0},
	}
}

func boneShape(b components.Bone) physics.Shape {
	s := cfg.Skeleton
	switch b {
	case components.BoneTorso:
		return physics.CapsuleShape(s.TorsoRadius, s.TorsoHalfHeight)
	case components.BoneHead:
		return physics.SphereShape(s.HeadRadius)
	case components.BoneUpperArmL, components.BoneUpperArmR:
		return physics.CapsuleShape(s.UpperArmRadius, s.UpperArmHalfHeight)
	case components.BoneForearmL, components.BoneForearmR:
		return physics.CapsuleShape(s.ForearmRadius, s.ForearmHalfHeight)
	case components.BoneThighL, components.BoneThighR:
		return physics.CapsuleShape(s.ThighRadius, s.ThighHalfHeight)
	default:
		return physics.CapsuleShape(s.ShinRadius, s.ShinHalfHeight)
	}
}

func boneMass(b components.Bone) float64 {
	s := cfg.Skeleton
	switch b {
	case components.BoneTorso:
		return s.TorsoMass
	case components.BoneHead:
		return s.HeadMass
	case components.BoneUpperArmL, components.BoneUpperArmR:
		return s.UpperArmMass
	case components.BoneForearmL, components.BoneForearmR:
		return s.ForearmMass
	case components.BoneThighL, components.BoneThighR:
		return s.ThighMass
	default:
		return s.ShinMass
	}
}

// SpawnRagdoll builds the 10-body skeleton in the physics world with the
// torso at torsoPos, wires the 9 joints, and spawns the entity. index picks
// the collision group; it may exceed the group space and wraps.
func SpawnRagdoll(w donburi.World, pw *physics.World, index int, torsoPos mgl64.Vec3) *donburi.Entry {
	s := cfg.Skeleton
	filter := physics.InstanceFilter(index)
	offsets := RestOffsets()

	bodies := make(map[components.Bone]*physics.Body, components.BoneCount)
	for _, b := range components.Bones() {
		bodies[b] = pw.AddBody(torsoPos.Add(offsets[b]), boneShape(b), boneMass(b), filter)
	}
	// The torso is carried by the controller, not the solver.
	bodies[components.BoneTorso].SetKinematic(true)

	anchor := func(x, y float64) mgl64.Vec3 {
		return torsoPos.Add(mgl64.Vec3{x, y, 0})
	}
	torso := bodies[components.BoneTorso]

	balls := map[components.JointID]*physics.BallJoint{
		components.JointNeck:      pw.AddBallJoint(torso, bodies[components.BoneHead], anchor(0, s.NeckY)),
		components.JointShoulderL: pw.AddBallJoint(torso, bodies[components.BoneUpperArmL], anchor(-s.ShoulderX, s.ShoulderY)),
		components.JointShoulderR: pw.AddBallJoint(torso, bodies[components.BoneUpperArmR], anchor(s.ShoulderX, s.ShoulderY)),
		components.JointHipL:      pw.AddBallJoint(torso, bodies[components.BoneThighL], anchor(-s.HipX, s.HipY)),
		components.JointHipR:      pw.AddBallJoint(torso, bodies[components.BoneThighR], anchor(s.HipX, s.HipY)),
	}

	elbowY := s.ShoulderY - 2*s.UpperArmHalfHeight
	kneeY := s.HipY - 2*s.ThighHalfHeight
	elbowAxis := mgl64.Vec3{0, 1, 0}
	kneeAxis := mgl64.Vec3{1, 0, 0}
	hinges := map[components.JointID]*physics.HingeJoint{
		components.JointElbowL: pw.AddHingeJoint(bodies[components.BoneUpperArmL], bodies[components.BoneForearmL],
			anchor(-s.ShoulderX, elbowY), elbowAxis, s.ElbowMin, s.ElbowMax),
		components.JointElbowR: pw.AddHingeJoint(bodies[components.BoneUpperArmR], bodies[components.BoneForearmR],
			anchor(s.ShoulderX, elbowY), elbowAxis, s.ElbowMin, s.ElbowMax),
		components.JointKneeL: pw.AddHingeJoint(bodies[components.BoneThighL], bodies[components.BoneShinL],
			anchor(-s.HipX, kneeY), kneeAxis, s.KneeMin, s.KneeMax),
		components.JointKneeR: pw.AddHingeJoint(bodies[components.BoneThighR], bodies[components.BoneShinR],
			anchor(s.HipX, kneeY), kneeAxis, s.KneeMin, s.KneeMax),
	}

	e := archetypes.Ragdoll.Spawn(w)
	components.Skeleton.SetValue(e, components.SkeletonData{
		Bodies:      bodies,
		Balls:       balls,
		Hinges:      hinges,
		Filter:      filter,
		RestOffsets: offsets,
	})
	components.Control.SetValue(e, newControlData())
	components.Attack.SetValue(e, components.AttackData{Kind: components.AttackNone})
	components.AnimTargets.SetValue(e, components.AnimTargetData{
		Targets: make(map[components.Bone]components.AnimTarget, components.BoneCount),
	})
	return e
}

func newControlData() components.ControlData {
	c := components.ControlData{
		CurrentState:   components.StateActive,
		PreviousState:  components.StateActive,
		StiffnessScale: cfg.Stiffness.ActiveMax,
	}
	c.EnsureLimbMaps()
	for _, b := range components.Bones() {
		c.LimbStiffness[b] = cfg.Stiffness.ActiveMax
		c.LimbCap[b] = cfg.Stiffness.ActiveMax
	}
	return c
}
