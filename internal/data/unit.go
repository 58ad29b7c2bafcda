package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/skirmish/internal/component"
)

// Range is an inclusive stat range rolled at spawn time.
type Range struct {
	Min int32 `yaml:"min"`
	Max int32 `yaml:"max"`
}

// UnitArchetype holds the spawn stats for one unit kind loaded from YAML.
type UnitArchetype struct {
	Kind     string `yaml:"kind"`
	Weight   int    `yaml:"weight"` // relative spawn chance
	HP       Range  `yaml:"hp"`
	Attack   Range  `yaml:"attack"`
	Defence  Range  `yaml:"defence"`
	Cooldown Range  `yaml:"cooldown"` // ticks between attacks, <= 0 never attacks

	kind component.Kind
}

// UnitKind returns the parsed kind.
func (a *UnitArchetype) UnitKind() component.Kind { return a.kind }

type unitListFile struct {
	Units []UnitArchetype `yaml:"units"`
}

// UnitTable holds the archetypes in file order plus the weight total used by
// the weighted kind roll.
type UnitTable struct {
	archetypes  []UnitArchetype
	totalWeight int
}

// LoadUnitTable loads unit archetypes from a YAML file.
func LoadUnitTable(path string) (*UnitTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit_list: %w", err)
	}
	t, err := ParseUnitTable(raw)
	if err != nil {
		return nil, fmt.Errorf("parse unit_list %s: %w", path, err)
	}
	return t, nil
}

// ParseUnitTable decodes and validates a unit list document.
func ParseUnitTable(raw []byte) (*UnitTable, error) {
	var f unitListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return newUnitTable(f.Units)
}

// DefaultUnitTable is used when no unit list is configured.
func DefaultUnitTable() *UnitTable {
	t, err := newUnitTable([]UnitArchetype{
		{Kind: "npc", Weight: 65, HP: Range{40, 60}, Attack: Range{4, 8}, Defence: Range{0, 3}, Cooldown: Range{0, 8}},
		{Kind: "hero", Weight: 5, HP: Range{100, 150}, Attack: Range{15, 25}, Defence: Range{5, 10}, Cooldown: Range{3, 5}},
		{Kind: "monster", Weight: 30, HP: Range{60, 90}, Attack: Range{10, 18}, Defence: Range{2, 6}, Cooldown: Range{4, 6}},
	})
	if err != nil {
		panic(err)
	}
	return t
}

func newUnitTable(units []UnitArchetype) (*UnitTable, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("no units defined")
	}
	t := &UnitTable{archetypes: make([]UnitArchetype, 0, len(units))}
	seen := make(map[component.Kind]bool, len(units))
	for _, u := range units {
		k, ok := component.ParseKind(u.Kind)
		if !ok {
			return nil, fmt.Errorf("unit %q: unknown kind", u.Kind)
		}
		if seen[k] {
			return nil, fmt.Errorf("unit %q: duplicate kind", u.Kind)
		}
		seen[k] = true
		if u.Weight < 0 {
			return nil, fmt.Errorf("unit %q: negative weight", u.Kind)
		}
		for name, r := range map[string]Range{"hp": u.HP, "attack": u.Attack, "defence": u.Defence, "cooldown": u.Cooldown} {
			if r.Min > r.Max {
				return nil, fmt.Errorf("unit %q: %s min %d > max %d", u.Kind, name, r.Min, r.Max)
			}
		}
		if u.HP.Min <= 0 {
			return nil, fmt.Errorf("unit %q: hp must be positive", u.Kind)
		}
		u.kind = k
		t.archetypes = append(t.archetypes, u)
		t.totalWeight += u.Weight
	}
	if t.totalWeight <= 0 {
		return nil, fmt.Errorf("total unit weight must be positive")
	}
	return t, nil
}

// Pick maps a roll in [0, TotalWeight()) onto an archetype.
func (t *UnitTable) Pick(roll int) *UnitArchetype {
	for i := range t.archetypes {
		a := &t.archetypes[i]
		if roll < a.Weight {
			return a
		}
		roll -= a.Weight
	}
	return &t.archetypes[len(t.archetypes)-1]
}

// Get returns the archetype for a kind, or nil if not defined.
func (t *UnitTable) Get(k component.Kind) *UnitArchetype {
	for i := range t.archetypes {
		if t.archetypes[i].kind == k {
			return &t.archetypes[i]
		}
	}
	return nil
}

func (t *UnitTable) TotalWeight() int { return t.totalWeight }

// Count returns the number of loaded archetypes.
func (t *UnitTable) Count() int {
	return len(t.archetypes)
}
