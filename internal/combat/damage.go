// Package combat resolves cooldown-gated attacks and applies the layered
// damage formula: base x power scaling x elemental modifier x a logarithmic
// defense ratio, floored and clamped to a minimum of one.
package combat

import (
	"math"

	"astral-arena/server/internal/element"
	"astral-arena/server/internal/state"
)

const damageTuning = 0.9

// Damage computes the hit damage and the combined elemental modifier for one
// attacker/defender pair.
//
// The defense term is the ratio log(defense)/log(attackPower), not a
// subtractive reduction. That shape is deliberate and tuned-around: defense=1
// collapses the product to zero before the minimum-damage clamp. Inputs at or
// below one are degenerate for the logarithms and are clamped here at the
// formula boundary so a bad stat can never crash or NaN the tick; the formula
// itself stays untouched for valid inputs.
func Damage(attack state.AttackEffect, attacker, defender state.Stats, chart *element.Chart) (damage float64, modifier float64) {
	modifier = chart.Modifier(attacker.Element, attack.Element, defender.Element)

	logPower := math.Log(attacker.AttackPower)
	if logPower <= 0 {
		// attackPower <= 1 has no meaningful scaling ratio; the floor is all
		// that is left of the formula.
		return 1, modifier
	}
	defense := defender.Defense
	if defense < 1 {
		defense = 1
	}

	powerMultiplier := 1 + attacker.AttackPower/100
	raw := math.Floor(attack.BaseDamage * powerMultiplier * modifier * (math.Log(defense) / logPower) * damageTuning)
	if raw < 1 {
		raw = 1
	}
	return raw, modifier
}
