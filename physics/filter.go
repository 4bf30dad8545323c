package physics

// Collision filtering uses one group bit per ragdoll instance plus a shared
// environment bit. A body collides with another when each side's mask admits
// the other's group. Instance indices wrap so the bit space is reused once
// more than instanceGroups ragdolls have ever been created in a room.

const instanceGroups = 16

// EnvironmentBit marks static geometry (the floor). Every instance mask
// includes it.
const EnvironmentBit uint32 = 1 << instanceGroups

// Filter is a collision group/mask pair.
type Filter struct {
	Group uint32
	Mask  uint32
}

// InstanceFilter derives the filter for the instance with the given index.
// The instance's own limbs never collide with each other, while colliding
// with every other instance and with the environment.
func InstanceFilter(index int) Filter {
	bit := uint32(1) << (uint(index) % instanceGroups)
	return Filter{Group: bit, Mask: ^bit}
}

// EnvironmentFilter is the filter for static world geometry.
func EnvironmentFilter() Filter {
	return Filter{Group: EnvironmentBit, Mask: ^uint32(0)}
}

// ShouldCollide reports whether two filters admit contact with each other.
func (f Filter) ShouldCollide(o Filter) bool {
	return f.Mask&o.Group != 0 && o.Mask&f.Group != 0
}
