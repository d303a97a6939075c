package state

import (
	"fmt"

	"astral-arena/server/internal/element"
)

// ItemKind tags the item union. Exactly one payload pointer is set per kind.
type ItemKind string

const (
	ItemAttackScroll ItemKind = "attack-scroll"
	ItemEvolveStone  ItemKind = "evolve-stone"
	ItemStatChip     ItemKind = "stat-chip"
)

// StatName identifies the single stat a chip boosts.
type StatName string

const (
	StatHP          StatName = "hp"
	StatDefense     StatName = "defense"
	StatAttackPower StatName = "attackPower"
	StatSpeed       StatName = "speed"
)

// EvolveSpec is the payload of an evolve stone. RequiredElement may be empty,
// in which case the stone applies to any character. Multipliers scale the
// current stats; the new sprite replaces the character emoji when non-empty.
type EvolveSpec struct {
	RequiredElement element.Element `json:"requiredElement,omitempty"`
	HPMultiplier    float64         `json:"hpMultiplier"`
	DefenseMult     float64         `json:"defenseMultiplier"`
	AttackPowerMult float64         `json:"attackPowerMultiplier"`
	SpeedMult       float64         `json:"speedMultiplier"`
	NewEmoji        string          `json:"newEmoji,omitempty"`
}

// ChipSpec is the payload of a stat chip: a flat bonus to one named stat.
type ChipSpec struct {
	Stat  StatName `json:"stat"`
	Bonus float64  `json:"bonus"`
}

// Item is the tagged union carried in inventories and sold on shop cards.
type Item struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Icon string   `json:"icon"`
	Kind ItemKind `json:"kind"`

	Scroll *AttackEffect `json:"scroll,omitempty"`
	Evolve *EvolveSpec   `json:"evolve,omitempty"`
	Chip   *ChipSpec     `json:"chip,omitempty"`
}

// Validate checks the union invariant: the payload matching Kind is present.
func (i Item) Validate() error {
	switch i.Kind {
	case ItemAttackScroll:
		if i.Scroll == nil {
			return fmt.Errorf("state: attack scroll %s is missing its attack payload", i.ID)
		}
		return i.Scroll.Validate()
	case ItemEvolveStone:
		if i.Evolve == nil {
			return fmt.Errorf("state: evolve stone %s is missing its payload", i.ID)
		}
		if i.Evolve.RequiredElement != "" {
			if _, err := element.Parse(string(i.Evolve.RequiredElement)); err != nil {
				return fmt.Errorf("state: evolve stone %s: %w", i.ID, err)
			}
		}
		return nil
	case ItemStatChip:
		if i.Chip == nil {
			return fmt.Errorf("state: stat chip %s is missing its payload", i.ID)
		}
		switch i.Chip.Stat {
		case StatHP, StatDefense, StatAttackPower, StatSpeed:
			return nil
		default:
			return fmt.Errorf("state: stat chip %s names unknown stat %q", i.ID, i.Chip.Stat)
		}
	default:
		return fmt.Errorf("state: unknown item kind %q", i.Kind)
	}
}

// InventoryCapacity is the hard cap on carried items.
const InventoryCapacity = 2

// ErrInventoryFull is returned when an add would exceed the capacity cap.
var ErrInventoryFull = fmt.Errorf("state: inventory full")

// Inventory is the small fixed-capacity item list carried by a character.
type Inventory struct {
	Items []Item `json:"items"`
}

// Add appends an item, rejecting the add when the inventory is at capacity.
func (inv *Inventory) Add(item Item) error {
	if len(inv.Items) >= InventoryCapacity {
		return ErrInventoryFull
	}
	inv.Items = append(inv.Items, item)
	return nil
}

// RemoveAt drops the item at index and reports whether the index was valid.
func (inv *Inventory) RemoveAt(index int) bool {
	if index < 0 || index >= len(inv.Items) {
		return false
	}
	inv.Items = append(inv.Items[:index], inv.Items[index+1:]...)
	return true
}

// Clone copies the inventory for snapshot serialization.
func (inv Inventory) Clone() Inventory {
	if len(inv.Items) == 0 {
		return Inventory{}
	}
	return Inventory{Items: append([]Item(nil), inv.Items...)}
}
