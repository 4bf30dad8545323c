package archetypes

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/beanbrawl/components"
	"github.com/automoto/beanbrawl/tags"
)

var (
	Ragdoll = newArchetype(
		tags.Ragdoll,
		components.Skeleton,
		components.Control,
		components.Attack,
		components.AnimTargets,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	return w.Entry(w.Create(
		append(a.components, cs...)...,
	))
}
