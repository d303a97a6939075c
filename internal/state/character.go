package state

import (
	"fmt"
	"math"
	"time"

	"astral-arena/server/internal/element"
	"astral-arena/server/internal/geom"
)

// Stats holds the combat attributes of a character. HP is the maximum pool;
// the live value lives on Character.CurrentHP. AttackPower is a percentage
// multiplier with a baseline of 100. Speed is in pixels per second.
type Stats struct {
	HP          float64         `json:"hp" yaml:"hp"`
	Defense     float64         `json:"defense" yaml:"defense"`
	AttackPower float64         `json:"attackPower" yaml:"attack_power"`
	Speed       float64         `json:"speed" yaml:"speed"`
	Element     element.Element `json:"element" yaml:"element"`
}

// Validate rejects non-finite or out-of-range attributes before they can
// reach the simulation.
func (s Stats) Validate() error {
	for name, value := range map[string]float64{
		"hp":          s.HP,
		"defense":     s.Defense,
		"attackPower": s.AttackPower,
		"speed":       s.Speed,
	} {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("state: stat %s is not finite", name)
		}
	}
	if s.HP <= 0 {
		return fmt.Errorf("state: hp must be positive, got %v", s.HP)
	}
	if s.Defense < 0 {
		return fmt.Errorf("state: defense must be non-negative, got %v", s.Defense)
	}
	if s.AttackPower <= 0 {
		return fmt.Errorf("state: attackPower must be positive, got %v", s.AttackPower)
	}
	if s.Speed <= 0 {
		return fmt.Errorf("state: speed must be positive, got %v", s.Speed)
	}
	if _, err := element.Parse(string(s.Element)); err != nil {
		return err
	}
	return nil
}

// Character is the central mutable combatant entity. All mutation during a
// round goes through the store and the per-tick systems; nothing outside the
// simulation goroutine touches these fields.
type Character struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`

	Stats          Stats        `json:"stats"`
	BaseStats      Stats        `json:"baseStats"`
	CurrentHP      float64      `json:"currentHP"`
	IsDead         bool         `json:"isDead"`
	TargetID       string       `json:"-"`
	LastAttackTime time.Time    `json:"-"`
	Attack         AttackEffect `json:"attack"`

	Position geom.Vec2 `json:"position"`
	Velocity geom.Vec2 `json:"velocity"`

	IsPlayer  bool      `json:"isPlayer"`
	House     House     `json:"house"`
	Level     int       `json:"level"`
	Inventory Inventory `json:"inventory"`
	IsEvolved bool      `json:"isEvolved"`

	// Per-house AI bookkeeping. WanderAngle is the current randomized
	// direction, NextDecision gates the houses that re-plan on a timer, and
	// RetreatStart tracks Jupiter's continuous retreat window (zero value
	// means not retreating).
	NextDecision time.Time `json:"-"`
	WanderAngle  float64   `json:"-"`
	RetreatStart time.Time `json:"-"`

	// IntentX/IntentY carry the human movement vector for the player
	// character; AI-driven characters leave them at zero.
	IntentX float64 `json:"-"`
	IntentY float64 `json:"-"`
}

// Alive reports whether the character still participates in the round.
func (c *Character) Alive() bool {
	return c != nil && !c.IsDead
}

// ResetForRound clears the transient combat state ahead of a new round while
// preserving persisted stats, level, inventory, and evolution status.
func (c *Character) ResetForRound(position geom.Vec2) {
	c.Position = position
	c.Velocity = geom.Vec2{}
	c.CurrentHP = c.Stats.HP
	c.IsDead = false
	c.TargetID = ""
	c.LastAttackTime = time.Time{}
	c.NextDecision = time.Time{}
	c.WanderAngle = 0
	c.RetreatStart = time.Time{}
	c.IntentX = 0
	c.IntentY = 0
}
