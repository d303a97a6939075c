package shop

import (
	"fmt"

	"astral-arena/server/internal/state"
)

// UseResult reports an item application attempt. Items are consumed only on
// success; a failed use leaves the inventory exactly as it was.
type UseResult struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// UseItem applies the inventory item at the given index to the character.
//
// Attack scrolls equip unconditionally, replacing the current attack. Evolve
// stones are gated on the stone's required element (when set) against the
// character's element; on success the stat multipliers apply, current HP
// refills to the new maximum, the sprite swaps, and the evolved flag raises.
// Stat chips add their flat bonus to the named stat, also healing current HP
// when the stat is hp.
func UseItem(c *state.Character, index int) UseResult {
	if index < 0 || index >= len(c.Inventory.Items) {
		return UseResult{Reason: "no item in that slot"}
	}
	item := c.Inventory.Items[index]

	switch item.Kind {
	case state.ItemAttackScroll:
		c.Attack = *item.Scroll

	case state.ItemEvolveStone:
		spec := item.Evolve
		if spec.RequiredElement != "" && spec.RequiredElement != c.Stats.Element {
			return UseResult{Reason: fmt.Sprintf("requires a %s character", spec.RequiredElement)}
		}
		c.Stats.HP *= spec.HPMultiplier
		c.Stats.Defense *= spec.DefenseMult
		c.Stats.AttackPower *= spec.AttackPowerMult
		c.Stats.Speed *= spec.SpeedMult
		c.CurrentHP = c.Stats.HP
		if spec.NewEmoji != "" {
			c.Emoji = spec.NewEmoji
		}
		c.IsEvolved = true

	case state.ItemStatChip:
		chip := item.Chip
		switch chip.Stat {
		case state.StatHP:
			c.Stats.HP += chip.Bonus
			c.CurrentHP += chip.Bonus
		case state.StatDefense:
			c.Stats.Defense += chip.Bonus
		case state.StatAttackPower:
			c.Stats.AttackPower += chip.Bonus
		case state.StatSpeed:
			c.Stats.Speed += chip.Bonus
		default:
			return UseResult{Reason: fmt.Sprintf("unknown stat %q", chip.Stat)}
		}

	default:
		return UseResult{Reason: fmt.Sprintf("unknown item kind %q", item.Kind)}
	}

	c.Inventory.RemoveAt(index)
	return UseResult{Applied: true}
}
