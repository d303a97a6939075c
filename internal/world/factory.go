package world

import (
	"math/rand"

	"github.com/google/uuid"

	"astral-arena/server/internal/config"
	"astral-arena/server/internal/element"
	"astral-arena/server/internal/state"
)

// Factory rolls new characters from the archetype and attack tables.
type Factory struct {
	tables *config.Tables
	rng    *rand.Rand
}

func NewFactory(tables *config.Tables, rng *rand.Rand) *Factory {
	return &Factory{tables: tables, rng: rng}
}

// RandomCharacter produces one fully randomized, unplaced character: stats
// rolled within an archetype's ranges, random element, house, and attack,
// sprite and color from the archetype pools.
func (f *Factory) RandomCharacter() *state.Character {
	archetype := f.tables.Archetypes[f.rng.Intn(len(f.tables.Archetypes))]
	stats := state.Stats{
		HP:          f.roll(archetype.HP),
		Defense:     f.roll(archetype.Defense),
		AttackPower: f.roll(archetype.AttackPower),
		Speed:       f.roll(archetype.Speed),
		Element:     element.All[f.rng.Intn(len(element.All))],
	}
	character := &state.Character{
		ID:        uuid.NewString(),
		Emoji:     archetype.Emojis[f.rng.Intn(len(archetype.Emojis))],
		Color:     archetype.Colors[f.rng.Intn(len(archetype.Colors))],
		Stats:     stats,
		BaseStats: stats,
		CurrentHP: stats.HP,
		House:     state.Houses[f.rng.Intn(len(state.Houses))],
		Level:     1,
		Attack:    f.tables.Attacks[f.rng.Intn(len(f.tables.Attacks))],
	}
	return character
}

// Candidates produces n randomized characters for the selection screen. The
// call has no side effects on any store.
func (f *Factory) Candidates(n int) []*state.Character {
	candidates := make([]*state.Character, 0, n)
	for i := 0; i < n; i++ {
		candidates = append(candidates, f.RandomCharacter())
	}
	return candidates
}

// FromStarter instantiates a preset starter as a fresh character.
func (f *Factory) FromStarter(starter config.Starter) *state.Character {
	attack, _ := f.tables.AttackByID(starter.AttackID)
	return &state.Character{
		ID:        uuid.NewString(),
		Emoji:     starter.Emoji,
		Color:     starter.Color,
		Stats:     starter.Stats,
		BaseStats: starter.Stats,
		CurrentHP: starter.Stats.HP,
		House:     starter.House,
		Level:     1,
		Attack:    attack,
	}
}

// RandomAttack picks one attack template from the table.
func (f *Factory) RandomAttack() state.AttackEffect {
	return f.tables.Attacks[f.rng.Intn(len(f.tables.Attacks))]
}

func (f *Factory) roll(r config.Range) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + f.rng.Float64()*(r.Max-r.Min)
}
