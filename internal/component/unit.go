package component

// Unit carries a unit's logical identity and its deterministic RNG state.
// Counter is the generator cursor and only ever grows for one identity.
type Unit struct {
	ID          uint32
	Seed        uint32
	Counter     uint32
	SpawnTick   int64
	RespawnTick int64
}

// Data is the per-entity simulation clock.
type Data struct {
	Tick int64
}

// Kind is the unit class assigned once at spawn resolution.
type Kind uint8

const (
	KindNPC Kind = iota
	KindHero
	KindMonster
)

func (k Kind) String() string {
	switch k {
	case KindNPC:
		return "npc"
	case KindHero:
		return "hero"
	case KindMonster:
		return "monster"
	default:
		return "unknown"
	}
}

// ParseKind maps a table name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "npc":
		return KindNPC, true
	case "hero":
		return KindHero, true
	case "monster":
		return KindMonster, true
	}
	return 0, false
}

// Sprite character a freshly resolved unit of this kind settles into.
func (k Kind) Character() Character {
	switch k {
	case KindHero:
		return CharacterHero
	case KindMonster:
		return CharacterMonster
	default:
		return CharacterNPC
	}
}
