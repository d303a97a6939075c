package world

import (
	"math/rand"

	"astral-arena/server/internal/events"
	"astral-arena/server/internal/geom"
	"astral-arena/server/internal/state"
)

// placementRetries bounds the rejection sampling for spawn positions. When
// the retries run out the last sampled position is accepted, trading a rare
// overlap for guaranteed termination.
const placementRetries = 50

// Store owns the authoritative combatant set for the active round. Dead
// characters stay in the store with the dead flag raised; the ordered death
// list is what gives placement its meaning.
type Store struct {
	characters map[string]*state.Character
	order      []string
	deaths     []string

	factory   *Factory
	bus       *events.Bus
	rng       *rand.Rand
	arena     geom.Vec2
	size      float64
	killBonus int
}

// NewStore wires the store to its event bus and spawn RNG. arena is the
// bounds in pixels, size the character diameter used for separation, and
// killBonus the fixed score carried on kill events.
func NewStore(factory *Factory, bus *events.Bus, rng *rand.Rand, arena geom.Vec2, size float64, killBonus int) *Store {
	return &Store{
		characters: make(map[string]*state.Character),
		factory:    factory,
		bus:        bus,
		rng:        rng,
		arena:      arena,
		size:       size,
		killBonus:  killBonus,
	}
}

// SpawnCombatants clears the store and places the player plus the enemy
// roster for a new round. When existing enemies are provided (round two and
// later) their transient combat state is reset while persisted stats and
// level survive; otherwise total-1 fresh NPCs are generated. The spawned
// enemy list is returned so the session can persist it across rounds.
func (s *Store) SpawnCombatants(player *state.Character, existing []*state.Character, total int) []*state.Character {
	s.characters = make(map[string]*state.Character, total)
	s.order = s.order[:0]

	player.IsPlayer = true
	player.ResetForRound(s.randomPosition())
	s.insert(player)

	enemies := existing
	if len(enemies) == 0 {
		enemies = make([]*state.Character, 0, total-1)
		for i := 0; i < total-1; i++ {
			enemies = append(enemies, s.factory.RandomCharacter())
		}
	}
	for _, enemy := range enemies {
		enemy.IsPlayer = false
		enemy.ResetForRound(s.randomPosition())
		s.insert(enemy)
	}
	return enemies
}

func (s *Store) insert(c *state.Character) {
	s.characters[c.ID] = c
	s.order = append(s.order, c.ID)
}

// randomPosition samples spawn points until the minimum separation of twice
// the character size holds against every placed combatant, falling back to
// the last sample when the retries are exhausted.
func (s *Store) randomPosition() geom.Vec2 {
	margin := s.size
	minSeparation := 2 * s.size
	var candidate geom.Vec2
	for attempt := 0; attempt < placementRetries; attempt++ {
		candidate = geom.Vec2{
			X: margin + s.rng.Float64()*(s.arena.X-2*margin),
			Y: margin + s.rng.Float64()*(s.arena.Y-2*margin),
		}
		clear := true
		for _, id := range s.order {
			if geom.Distance(s.characters[id].Position, candidate) < minSeparation {
				clear = false
				break
			}
		}
		if clear {
			return candidate
		}
	}
	return candidate
}

// Get returns the character with the given id, or nil.
func (s *Store) Get(id string) *state.Character {
	return s.characters[id]
}

// Player returns the player character, or nil before a round is spawned.
func (s *Store) Player() *state.Character {
	for _, id := range s.order {
		if c := s.characters[id]; c.IsPlayer {
			return c
		}
	}
	return nil
}

// All returns every combatant, dead or alive, in insertion order.
func (s *Store) All() []*state.Character {
	out := make([]*state.Character, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.characters[id])
	}
	return out
}

// Living returns the characters still in the fight, in insertion order.
func (s *Store) Living() []*state.Character {
	out := make([]*state.Character, 0, len(s.order))
	for _, id := range s.order {
		if c := s.characters[id]; c.Alive() {
			out = append(out, c)
		}
	}
	return out
}

// LivingCount counts the characters still in the fight.
func (s *Store) LivingCount() int {
	count := 0
	for _, id := range s.order {
		if s.characters[id].Alive() {
			count++
		}
	}
	return count
}

// TakeDamage applies damage to a living character. Unknown ids and already
// dead targets are silent no-ops: targets naturally vanish between ticks and
// that is routine, not exceptional. On the death transition the character is
// appended to the ordered death list and a death event fires; when the
// attacker is the player a kill event carrying the fixed score bonus follows.
func (s *Store) TakeDamage(id string, amount float64, attackerID string) {
	target, ok := s.characters[id]
	if !ok || target.IsDead {
		return
	}
	target.CurrentHP -= amount
	if target.CurrentHP > 0 {
		return
	}
	target.CurrentHP = 0
	target.IsDead = true
	s.deaths = append(s.deaths, id)

	s.bus.Publish(events.Death{
		CharacterID: id,
		AttackerID:  attackerID,
		Place:       s.placeOf(id),
	})
	if attacker, ok := s.characters[attackerID]; ok && attacker.IsPlayer {
		s.bus.Publish(events.Kill{
			KillerID:   attackerID,
			VictimID:   id,
			ScoreBonus: s.killBonus,
		})
	}
}

// placeOf ranks a dead character as one plus its index in the ordered death
// list, mirroring PlayerPlace.
func (s *Store) placeOf(id string) int {
	for index, dead := range s.deaths {
		if dead == id {
			return 1 + index
		}
	}
	return 0
}

// PlayerPlace ranks the player for the current round: alive means first
// place, dead means one plus the player's index in the ordered death list.
// The round score formula |place - (total+1)| is built on exactly this
// numbering, so it must not be "improved".
func (s *Store) PlayerPlace() int {
	player := s.Player()
	if player == nil {
		return 0
	}
	if !player.IsDead {
		return 1
	}
	return s.placeOf(player.ID)
}

// ClearDeaths resets the death tracker. The session machine calls this
// exactly once per round; clearing anywhere else would drift the ranks.
func (s *Store) ClearDeaths() {
	s.deaths = s.deaths[:0]
}

// Deaths exposes the ordered death list for inspection.
func (s *Store) Deaths() []string {
	return append([]string(nil), s.deaths...)
}
