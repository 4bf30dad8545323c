package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// AnimTarget is an externally authored override for one bone, torso-local.
// Either field may be absent.
type AnimTarget struct {
	Position    mgl64.Vec3
	HasPosition bool
	Rotation    mgl64.Quat
	HasRotation bool
}

// AnimTargetData holds animation overrides for the current tick. The drive
// call consumes and clears them; targets never persist across ticks.
type AnimTargetData struct {
	Active  bool
	Targets map[Bone]AnimTarget
}

var AnimTargets = donburi.NewComponentType[AnimTargetData]()
