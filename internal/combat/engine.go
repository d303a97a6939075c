package combat

import (
	"time"

	"astral-arena/server/internal/element"
	"astral-arena/server/internal/events"
	"astral-arena/server/internal/state"
	"astral-arena/server/internal/world"
)

// Engine resolves attacks each tick after movement has settled.
type Engine struct {
	chart *element.Chart
	bus   *events.Bus
}

func NewEngine(chart *element.Chart, bus *events.Bus) *Engine {
	return &Engine{chart: chart, bus: bus}
}

// Tick walks every living attacker with a resolved target. Once the cooldown
// gate clears the attack fires no matter what: the last-attack timestamp
// updates and a swing event goes out even when the primary target has slipped
// out of the footprint. That swing-and-miss behavior is intentional and
// matches the round's observable pacing; do not make the cooldown conditional
// on a hit.
//
// When the primary target is inside the footprint, every other living
// character is re-scanned against the same footprint so area attacks hit
// bystanders too.
func (e *Engine) Tick(store *world.Store, now time.Time) {
	living := store.Living()
	for _, attacker := range living {
		if !attacker.Alive() {
			// Killed earlier in this same tick.
			continue
		}
		target := store.Get(attacker.TargetID)
		if target == nil || !target.Alive() {
			continue
		}
		attack := attacker.Attack
		if !attacker.LastAttackTime.IsZero() && now.Sub(attacker.LastAttackTime) < attack.Cooldown {
			continue
		}
		attacker.LastAttackTime = now

		facing := target.Position.Sub(attacker.Position)
		e.bus.Publish(events.Swing{
			AttackerID: attacker.ID,
			AttackID:   attack.ID,
			Origin:     attacker.Position,
			Facing:     facing.Normalize(),
			Footprint:  attack.Footprint,
			Element:    attack.Element,
		})

		if !attack.Footprint.Contains(attacker.Position, facing, target.Position) {
			continue
		}

		victims := make([]*state.Character, 0, 4)
		victims = append(victims, target)
		for _, other := range living {
			if other.ID == attacker.ID || other.ID == target.ID || !other.Alive() {
				continue
			}
			if attack.Footprint.Contains(attacker.Position, facing, other.Position) {
				victims = append(victims, other)
			}
		}

		for _, victim := range victims {
			damage, modifier := Damage(attack, attacker.Stats, victim.Stats, e.chart)
			e.bus.Publish(events.Hit{
				AttackerID:    attacker.ID,
				TargetID:      victim.ID,
				AttackID:      attack.ID,
				Damage:        damage,
				Modifier:      modifier,
				Effectiveness: element.Classify(modifier),
			})
			store.TakeDamage(victim.ID, damage, attacker.ID)
		}
	}
}
