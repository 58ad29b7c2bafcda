package policy

import (
	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/data"
	"github.com/l1jgo/skirmish/internal/random"
)

// Spawner rolls kind and stats from an archetype table with the unit's own
// generator, and places the unit uniformly inside the world rectangle.
type Spawner struct {
	Table  *data.UnitTable
	Width  float32
	Height float32
}

func (s Spawner) Spawn(d component.Data, u *component.Unit) Spawned {
	g := random.New(u.Seed)
	arch := s.Table.Pick(g.Random(&u.Counter, s.Table.TotalWeight()))
	kind := arch.UnitKind()

	hp := g.Range(&u.Counter, arch.HP.Min, arch.HP.Max)
	atk := g.Range(&u.Counter, arch.Attack.Min, arch.Attack.Max)
	def := g.Range(&u.Counter, arch.Defence.Min, arch.Defence.Max)
	cd := g.Range(&u.Counter, arch.Cooldown.Min, arch.Cooldown.Max)

	x := g.Float(&u.Counter) * s.Width
	y := g.Float(&u.Counter) * s.Height

	u.SpawnTick = d.Tick
	return Spawned{
		Kind:     kind,
		Health:   component.Health{Hp: hp},
		Damage:   component.Damage{Attack: atk, Defence: def, Cooldown: cd},
		Sprite:   component.Sprite{Character: component.CharacterSpawn},
		Position: component.Position{V: component.Vec2{X: x, Y: y}},
	}
}

// Fixed spawns every unit with the same kind and stats at the origin. Tests
// use it to pin scenarios.
func Fixed(kind component.Kind, health component.Health, damage component.Damage) SpawnFunc {
	return func(d component.Data, u *component.Unit) Spawned {
		u.SpawnTick = d.Tick
		return Spawned{
			Kind:   kind,
			Health: health,
			Damage: damage,
			Sprite: component.Sprite{Character: component.CharacterSpawn},
		}
	}
}
