package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"

	"github.com/automoto/beanbrawl/physics"
)

// JointID identifies one joint of the bean skeleton.
type JointID int

const (
	// Ball joints
	JointNeck JointID = iota
	JointShoulderL
	JointShoulderR
	JointHipL
	JointHipR

	// Hinges
	JointElbowL
	JointElbowR
	JointKneeL
	JointKneeR
)

// SkeletonData holds the physics bodies and joints of one ragdoll instance.
type SkeletonData struct {
	Bodies map[Bone]*physics.Body
	Balls  map[JointID]*physics.BallJoint
	Hinges map[JointID]*physics.HingeJoint

	Filter physics.Filter

	// RestOffsets are the torso-local body positions of the build pose, used
	// for teleports and as the base of every limb target.
	RestOffsets map[Bone]mgl64.Vec3
}

// Body returns the body for a bone, or nil when the skeleton does not have
// it. Callers treat nil as a silent skip.
func (s *SkeletonData) Body(b Bone) *physics.Body {
	if s.Bodies == nil {
		return nil
	}
	return s.Bodies[b]
}

// Hinge returns the hinge joint for an id, or nil.
func (s *SkeletonData) Hinge(id JointID) *physics.HingeJoint {
	if s.Hinges == nil {
		return nil
	}
	return s.Hinges[id]
}

var Skeleton = donburi.NewComponentType[SkeletonData]()
