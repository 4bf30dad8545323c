package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// StateID identifies a ragdoll control state.
type StateID int

const (
	StateActive StateID = iota
	StateHitReaction
	StateKnockout
	StateRecovering
)

func (s StateID) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateHitReaction:
		return "hit_reaction"
	case StateKnockout:
		return "knockout"
	case StateRecovering:
		return "recovering"
	}
	return "unknown"
}

// ControllerInput is the per-tick driving intent for one avatar, produced by
// the movement controller upstream of this layer.
type ControllerInput struct {
	Position  [3]float64 // desired root position, feet level
	Velocity  [3]float64 // controller velocity, used for gait and lean
	FacingYaw float64    // radians about world up
	Stun      float64    // 0..1, softens the whole body while active
	Sprinting bool
	DT        float64 // seconds since the previous drive
}

// ControlData is the stiffness state machine plus the pose resolver's
// per-instance scratch state.
type ControlData struct {
	CurrentState  StateID
	PreviousState StateID
	StateTimer    float64 // seconds in CurrentState

	// Per-limb stiffness in [0,1] and the ceiling it may recover to.
	LimbStiffness map[Bone]float64
	LimbCap       map[Bone]float64

	// Whole-body scale reported by Stiffness(); min over limbs while not
	// active.
	StiffnessScale float64

	// DriveScale multiplies every limb's stiffness at the motors. Carries
	// stun softening and the landing window while active.
	DriveScale float64

	HitTimer    float64 // remaining hit_reaction seconds
	LastHitBone Bone

	// Recovery ramps, one tween per limb, from the stiffness at knockout end
	// to the limb cap.
	Recovery map[Bone]*gween.Tween

	// Landing softness window.
	Landing *gween.Tween

	// Pose resolver scratch.
	LeanPitch float64
	LeanRoll  float64
	SwayPhase float64
	GaitPhase float64
	Elapsed   float64
	Airborne  bool
	PrevVel   [3]float64

	Grabbed bool // a grab joint currently holds this instance
}

// EnsureLimbMaps allocates the per-limb maps on first use.
func (c *ControlData) EnsureLimbMaps() {
	if c.LimbStiffness == nil {
		c.LimbStiffness = make(map[Bone]float64, BoneCount)
	}
	if c.LimbCap == nil {
		c.LimbCap = make(map[Bone]float64, BoneCount)
	}
}

var Control = donburi.NewComponentType[ControlData]()
