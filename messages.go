package server

import (
	"astral-arena/server/internal/session"
	"astral-arena/server/internal/shop"
	"astral-arena/server/internal/state"
)

// characterView is the per-combatant slice of a snapshot. Dead characters
// are included with the flag raised; renderers filter on it.
type characterView struct {
	ID       string  `json:"id"`
	Emoji    string  `json:"emoji"`
	Color    string  `json:"color"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	HP       float64 `json:"hp"`
	MaxHP    float64 `json:"maxHp"`
	IsDead   bool    `json:"isDead"`
	IsPlayer bool    `json:"isPlayer"`
	Element  string  `json:"element"`
	House    string  `json:"house"`
	Level    int     `json:"level"`
}

func viewOf(c *state.Character) characterView {
	return characterView{
		ID:       c.ID,
		Emoji:    c.Emoji,
		Color:    c.Color,
		X:        c.Position.X,
		Y:        c.Position.Y,
		HP:       c.CurrentHP,
		MaxHP:    c.Stats.HP,
		IsDead:   c.IsDead,
		IsPlayer: c.IsPlayer,
		Element:  string(c.Stats.Element),
		House:    string(c.House),
		Level:    c.Level,
	}
}

// zoneView is the safe-zone slice of a snapshot.
type zoneView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Active bool    `json:"active"`
}

// tickEvent wraps one game event for the feed. Data carries the event's own
// JSON shape; Type routes it on the client.
type tickEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// stateMessage is the per-tick broadcast. Subscribers are read-only; nothing
// they send mutates the simulation.
type stateMessage struct {
	Type       string          `json:"type"`
	Phase      session.Phase   `json:"phase"`
	Round      int             `json:"round"`
	Score      int             `json:"score"`
	Gold       int             `json:"gold"`
	Tick       uint64          `json:"t"`
	Characters []characterView `json:"characters"`
	Zone       *zoneView       `json:"zone,omitempty"`
	Events     []tickEvent     `json:"events,omitempty"`
	ServerTime int64           `json:"serverTime"`
}

type sessionResponse struct {
	Phase      session.Phase           `json:"phase"`
	Round      int                     `json:"round"`
	Score      int                     `json:"score"`
	Gold       int                     `json:"gold"`
	Candidates []characterView         `json:"candidates,omitempty"`
	Starters   []starterView           `json:"starters,omitempty"`
	Results    []session.RoundResult   `json:"results,omitempty"`
	Player     *characterView          `json:"player,omitempty"`
	Inventory  []state.Item            `json:"inventory,omitempty"`
	Shop       *shop.Shop              `json:"shop,omitempty"`
	Won        bool                    `json:"won,omitempty"`
}

type starterView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Emoji   string `json:"emoji"`
	Color   string `json:"color"`
	House   string `json:"house"`
	Element string `json:"element"`
}

type shopResponse struct {
	Outcome shop.Outcome `json:"outcome"`
	Gold    int          `json:"gold"`
	Shop    *shop.Shop   `json:"shop,omitempty"`
}

type useItemResponse struct {
	shop.UseResult
	Inventory []state.Item   `json:"inventory"`
	Player    *characterView `json:"player,omitempty"`
}

type diagnosticsResponse struct {
	Phase         session.Phase `json:"phase"`
	Round         int           `json:"round"`
	Tick          uint64        `json:"t"`
	TickRate      int           `json:"tickRate"`
	LivingCount   int           `json:"livingCount"`
	Subscribers   int           `json:"subscribers"`
	EventsTotal   uint64        `json:"eventsTotal"`
	EventsDropped uint64        `json:"eventsDropped"`
}

type errorResponse struct {
	Error string `json:"error"`
}
