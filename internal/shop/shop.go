// Package shop implements the between-round economy: card generation,
// rerolls with a capped escalating cost, purchases, and item application.
// Economy failures are explicit outcomes, never errors or panics. Running
// out of gold is gameplay, not an exceptional condition.
package shop

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"astral-arena/server/internal/element"
	"astral-arena/server/internal/state"
	"astral-arena/server/internal/world"
)

const (
	// CardCount is the number of cards every generation produces.
	CardCount = 6

	characterChance = 0.30

	characterBaseCost     = 25
	characterCostPerRound = 10
	scrollBaseCost        = 15
	scrollCostPerRound    = 5
	evolveBaseCost        = 30
	evolveCostPerRound    = 10
	chipBaseCost          = 10
	chipCostPerRound      = 5

	// RerollBaseCost escalates by RerollCostIncrement per reroll up to
	// RerollCostCap and never decreases within a shop visit.
	RerollBaseCost       = 10
	RerollCostIncrement  = 5
	RerollCostCap        = 40
)

// CardKind separates character cards from item cards.
type CardKind string

const (
	CardCharacter CardKind = "character"
	CardItem      CardKind = "item"
)

// Card is one purchasable shop slot.
type Card struct {
	ID        string           `json:"id"`
	Kind      CardKind         `json:"kind"`
	Character *state.Character `json:"character,omitempty"`
	Item      *state.Item      `json:"item,omitempty"`
	Cost      int              `json:"cost"`
	Sold      bool             `json:"sold"`
}

// Outcome reports the result of a purchase or reroll attempt.
type Outcome string

const (
	OutcomePurchased        Outcome = "purchased"
	OutcomeInsufficientGold Outcome = "insufficient-gold"
	OutcomeInventoryFull    Outcome = "inventory-full"
	OutcomeInvalidSlot      Outcome = "invalid-slot"
)

// Shop holds the six current cards for one upgrade phase.
type Shop struct {
	Round      int    `json:"round"`
	Cards      []Card `json:"cards"`
	RerollCost int    `json:"rerollCost"`
	Rerolls    int    `json:"rerolls"`

	factory *world.Factory
	rng     *rand.Rand
}

// New generates the initial card set for the given round.
func New(round int, factory *world.Factory, rng *rand.Rand) *Shop {
	s := &Shop{
		Round:      round,
		RerollCost: RerollBaseCost,
		factory:    factory,
		rng:        rng,
	}
	s.Cards = s.generate()
	return s
}

// generate rolls six fresh cards: 30% characters, 70% items with a uniform
// item subtype.
func (s *Shop) generate() []Card {
	cards := make([]Card, 0, CardCount)
	for i := 0; i < CardCount; i++ {
		if s.rng.Float64() < characterChance {
			cards = append(cards, Card{
				ID:        uuid.NewString(),
				Kind:      CardCharacter,
				Character: s.factory.RandomCharacter(),
				Cost:      scaledCost(characterBaseCost, characterCostPerRound, s.Round),
			})
			continue
		}
		item, cost := s.rollItem()
		cards = append(cards, Card{
			ID:   uuid.NewString(),
			Kind: CardItem,
			Item: &item,
			Cost: cost,
		})
	}
	return cards
}

func (s *Shop) rollItem() (state.Item, int) {
	switch s.rng.Intn(3) {
	case 0:
		attack := s.factory.RandomAttack()
		return state.Item{
			ID:     uuid.NewString(),
			Name:   attack.Name + " Scroll",
			Icon:   "📜",
			Kind:   state.ItemAttackScroll,
			Scroll: &attack,
		}, scaledCost(scrollBaseCost, scrollCostPerRound, s.Round)
	case 1:
		spec := state.EvolveSpec{
			HPMultiplier:    1.5,
			DefenseMult:     1.3,
			AttackPowerMult: 1.4,
			SpeedMult:       1.2,
			NewEmoji:        evolveEmojis[s.rng.Intn(len(evolveEmojis))],
		}
		name := "Evolve Stone"
		if s.rng.Float64() < 0.5 {
			spec.RequiredElement = element.All[s.rng.Intn(len(element.All))]
			name = fmt.Sprintf("%s Evolve Stone", spec.RequiredElement)
		}
		return state.Item{
			ID:     uuid.NewString(),
			Name:   name,
			Icon:   "💎",
			Kind:   state.ItemEvolveStone,
			Evolve: &spec,
		}, scaledCost(evolveBaseCost, evolveCostPerRound, s.Round)
	default:
		stat := chipStats[s.rng.Intn(len(chipStats))]
		return state.Item{
			ID:   uuid.NewString(),
			Name: fmt.Sprintf("%s Chip", stat),
			Icon: "🔧",
			Kind: state.ItemStatChip,
			// Chips grant a flat +1 by design; bigger boosts come from
			// evolve stones.
			Chip: &state.ChipSpec{Stat: stat, Bonus: 1},
		}, scaledCost(chipBaseCost, chipCostPerRound, s.Round)
	}
}

var evolveEmojis = []string{"🐉", "🦖", "🦄", "🐺", "🦂"}

var chipStats = []state.StatName{
	state.StatHP,
	state.StatDefense,
	state.StatAttackPower,
	state.StatSpeed,
}

func scaledCost(base, perRound, round int) int {
	if round < 1 {
		round = 1
	}
	return base + perRound*(round-1)
}

// Reroll regenerates all six cards when the player can afford it. The cost
// escalates by a fixed increment up to the cap, and the reroll count only
// ever grows within a visit.
func (s *Shop) Reroll(gold int) (remaining int, outcome Outcome) {
	if gold < s.RerollCost {
		return gold, OutcomeInsufficientGold
	}
	gold -= s.RerollCost
	s.Cards = s.generate()
	s.Rerolls++
	s.RerollCost += RerollCostIncrement
	if s.RerollCost > RerollCostCap {
		s.RerollCost = RerollCostCap
	}
	return gold, OutcomePurchased
}

// Purchase applies the card at the given slot to the player. Character cards
// replace the player's combat identity (stats, sprite, house, attack) while
// preserving the inventory; item cards need a free inventory slot. Gold is
// only deducted on success, and "inventory full" is reported distinctly from
// "insufficient gold".
func (s *Shop) Purchase(slot int, player *state.Character, gold int) (remaining int, outcome Outcome) {
	if slot < 0 || slot >= len(s.Cards) || s.Cards[slot].Sold {
		return gold, OutcomeInvalidSlot
	}
	card := &s.Cards[slot]
	if gold < card.Cost {
		return gold, OutcomeInsufficientGold
	}

	switch card.Kind {
	case CardCharacter:
		adoptCharacter(player, card.Character)
	case CardItem:
		if err := player.Inventory.Add(*card.Item); err != nil {
			return gold, OutcomeInventoryFull
		}
	default:
		return gold, OutcomeInvalidSlot
	}

	card.Sold = true
	return gold - card.Cost, OutcomePurchased
}

// adoptCharacter swaps the player's combat identity for the purchased one.
// Identity (id, player flag, level) and the inventory survive the swap; HP
// refills to the new maximum.
func adoptCharacter(player, purchased *state.Character) {
	player.Stats = purchased.Stats
	player.BaseStats = purchased.BaseStats
	player.CurrentHP = purchased.Stats.HP
	player.Emoji = purchased.Emoji
	player.Color = purchased.Color
	player.House = purchased.House
	player.Attack = purchased.Attack
	player.IsEvolved = false
}
