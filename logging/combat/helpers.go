// Package combat carries the typed combat log events: swings, hits, and
// eliminations.
package combat

import (
	"context"

	"astral-arena/server/logging"
)

const (
	// EventSwing is emitted whenever an attack fires, hit or miss.
	EventSwing logging.EventType = "combat.swing"
	// EventHit is emitted for every damaged target.
	EventHit logging.EventType = "combat.hit"
	// EventElimination is emitted when a character dies.
	EventElimination logging.EventType = "combat.elimination"
)

// SwingPayload identifies the attack that fired.
type SwingPayload struct {
	Attack  string `json:"attack"`
	Element string `json:"element,omitempty"`
}

// HitPayload captures one resolved hit.
type HitPayload struct {
	Attack        string  `json:"attack,omitempty"`
	Damage        float64 `json:"damage"`
	Modifier      float64 `json:"modifier"`
	Effectiveness string  `json:"effectiveness,omitempty"`
	TargetHealth  float64 `json:"targetHealth"`
}

// EliminationPayload records where the victim placed.
type EliminationPayload struct {
	Place int `json:"place"`
}

// Swing publishes a swing event.
func Swing(ctx context.Context, pub logging.Publisher, tick uint64, round int, actor logging.EntityRef, payload SwingPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSwing,
		Tick:     tick,
		Round:    round,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// Hit publishes a hit event for a single target.
func Hit(ctx context.Context, pub logging.Publisher, tick uint64, round int, actor, target logging.EntityRef, payload HitPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventHit,
		Tick:     tick,
		Round:    round,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// Elimination publishes an elimination event for the dead character.
func Elimination(ctx context.Context, pub logging.Publisher, tick uint64, round int, actor, victim logging.EntityRef, payload EliminationPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventElimination,
		Tick:     tick,
		Round:    round,
		Actor:    actor,
		Targets:  []logging.EntityRef{victim},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}
