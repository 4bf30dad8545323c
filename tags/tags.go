package tags

import "github.com/yohamta/donburi"

var (
	Ragdoll = donburi.NewTag().SetName("Ragdoll")
)
