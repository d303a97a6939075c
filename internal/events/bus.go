// Package events carries the synchronous in-process game events produced by
// the character store, the combat engine, and the session machine. Delivery
// is inline and FIFO within a listener list; nothing here is buffered or
// asynchronous, matching the single-writer tick model.
package events

import (
	"astral-arena/server/internal/element"
	"astral-arena/server/internal/geom"
)

// Kind routes an event to its listener list.
type Kind string

const (
	KindSwing      Kind = "swing"
	KindHit        Kind = "hit"
	KindDeath      Kind = "death"
	KindKill       Kind = "kill"
	KindRoundEnded Kind = "round-ended"
)

// Event is implemented by every published payload.
type Event interface {
	Kind() Kind
}

// Swing is emitted whenever an attacker's cooldown gate clears, whether or
// not anything was hit.
type Swing struct {
	AttackerID string          `json:"attackerId"`
	AttackID   string          `json:"attackId"`
	Origin     geom.Vec2       `json:"origin"`
	Facing     geom.Vec2       `json:"facing"`
	Footprint  geom.Footprint  `json:"footprint"`
	Element    element.Element `json:"element"`
}

func (Swing) Kind() Kind { return KindSwing }

// Hit is emitted once per damaged target.
type Hit struct {
	AttackerID    string                `json:"attackerId"`
	TargetID      string                `json:"targetId"`
	AttackID      string                `json:"attackId"`
	Damage        float64               `json:"damage"`
	Modifier      float64               `json:"modifier"`
	Effectiveness element.Effectiveness `json:"effectiveness"`
}

func (Hit) Kind() Kind { return KindHit }

// Death is emitted exactly once per character, on the false-to-true
// transition of the dead flag.
type Death struct {
	CharacterID string `json:"characterId"`
	AttackerID  string `json:"attackerId,omitempty"`
	Place       int    `json:"place"`
}

func (Death) Kind() Kind { return KindDeath }

// Kill is emitted in addition to Death when the attacker is the player; it
// carries the fixed score bonus awarded for the takedown.
type Kill struct {
	KillerID   string `json:"killerId"`
	VictimID   string `json:"victimId"`
	ScoreBonus int    `json:"scoreBonus"`
}

func (Kill) Kind() Kind { return KindKill }

// RoundEnded is emitted by the session machine when the living-character
// count drops to one or below.
type RoundEnded struct {
	Round int `json:"round"`
	Place int `json:"place"`
	Score int `json:"score"`
}

func (RoundEnded) Kind() Kind { return KindRoundEnded }

// Handler consumes one event. Handlers run inline on the simulation
// goroutine and must not block.
type Handler func(Event)

// Bus is the single pub/sub fan-out for game events. Listener lists preserve
// registration order; publishing invokes them synchronously.
type Bus struct {
	handlers map[Kind][]Handler
	all      []Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// Subscribe registers a handler for one event kind.
func (b *Bus) Subscribe(kind Kind, handler Handler) {
	if handler == nil {
		return
	}
	b.handlers[kind] = append(b.handlers[kind], handler)
}

// SubscribeAll registers a handler that observes every event kind.
func (b *Bus) SubscribeAll(handler Handler) {
	if handler == nil {
		return
	}
	b.all = append(b.all, handler)
}

// Publish delivers the event to the kind's listener list, then to the
// catch-all list, both in registration order.
func (b *Bus) Publish(event Event) {
	if b == nil || event == nil {
		return
	}
	for _, handler := range b.handlers[event.Kind()] {
		handler(event)
	}
	for _, handler := range b.all {
		handler(event)
	}
}
