package archetypes

import (
	"github.com/automoto/doomerang-bosses/components"
	"github.com/automoto/doomerang-bosses/tags"
	"github.com/yohamta/donburi"
)

var (
	Boss = newArchetype(
		tags.Boss,
		components.Boss,
		components.Transform,
		components.Health,
		components.Movement,
		components.Stuck,
		components.Attack,
		components.Buff,
		components.Flash,
		components.Presentation,
		components.Death,
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

// Spawn creates an entity with the archetype's components plus any extras.
func (a *archetype) Spawn(world donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	all := make([]donburi.IComponentType, 0, len(a.components)+len(cs))
	all = append(all, a.components...)
	all = append(all, cs...)
	return world.Entry(world.Create(all...))
}
