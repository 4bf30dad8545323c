package components

// Bone identifies one rigid body of the bean skeleton.
type Bone int

// BoneNone marks the absence of a bone (e.g. "pick one at random").
const BoneNone Bone = -1

const (
	BoneTorso Bone = iota
	BoneHead
	BoneUpperArmL
	BoneUpperArmR
	BoneForearmL
	BoneForearmR
	BoneThighL
	BoneThighR
	BoneShinL
	BoneShinR

	BoneCount
)

var boneNames = [BoneCount]string{
	"torso",
	"head",
	"l_upperArm",
	"r_upperArm",
	"l_foreArm",
	"r_foreArm",
	"l_thigh",
	"r_thigh",
	"l_shin",
	"r_shin",
}

// String returns the bone's wire name as used by renderers and animation
// data.
func (b Bone) String() string {
	if b < 0 || b >= BoneCount {
		return "unknown"
	}
	return boneNames[b]
}

// BoneFromName resolves a wire name back to a Bone. The second return is
// false for unknown names.
func BoneFromName(name string) (Bone, bool) {
	for b, n := range boneNames {
		if n == name {
			return Bone(b), true
		}
	}
	return 0, false
}

// Bones lists every bone in declaration order.
func Bones() [BoneCount]Bone {
	var all [BoneCount]Bone
	for i := range all {
		all[i] = Bone(i)
	}
	return all
}

// Left reports whether the bone is on the left side of the body.
func (b Bone) Left() bool {
	switch b {
	case BoneUpperArmL, BoneForearmL, BoneThighL, BoneShinL:
		return true
	}
	return false
}

// IsArm reports whether the bone belongs to an arm.
func (b Bone) IsArm() bool {
	switch b {
	case BoneUpperArmL, BoneUpperArmR, BoneForearmL, BoneForearmR:
		return true
	}
	return false
}

// IsLeg reports whether the bone belongs to a leg.
func (b Bone) IsLeg() bool {
	switch b {
	case BoneThighL, BoneThighR, BoneShinL, BoneShinR:
		return true
	}
	return false
}

// Mirror returns the bone on the opposite side, or the bone itself for the
// torso and head.
func (b Bone) Mirror() Bone {
	switch b {
	case BoneUpperArmL:
		return BoneUpperArmR
	case BoneUpperArmR:
		return BoneUpperArmL
	case BoneForearmL:
		return BoneForearmR
	case BoneForearmR:
		return BoneForearmL
	case BoneThighL:
		return BoneThighR
	case BoneThighR:
		return BoneThighL
	case BoneShinL:
		return BoneShinR
	case BoneShinR:
		return BoneShinL
	}
	return b
}
