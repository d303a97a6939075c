// Package server hosts the arena match behind a WebSocket snapshot feed and
// a small HTTP command surface. One hub owns one session; the simulation
// runs on a single goroutine and every external command is serialized
// through the hub mutex before it touches the machine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"astral-arena/server/internal/config"
	"astral-arena/server/internal/events"
	"astral-arena/server/internal/geom"
	"astral-arena/server/internal/session"
	"astral-arena/server/logging"
	"astral-arena/server/logging/lifecycle"
	logsim "astral-arena/server/logging/simulation"
)

// Hub owns the session machine and the subscriber set.
type Hub struct {
	mu          sync.Mutex
	machine     *session.Machine
	pending     []tickEvent
	subscribers map[uint64]*subscriber
	nextSub     atomic.Uint64

	tables *config.Tables
	board  session.Leaderboard
	pub    logging.Publisher
	router *logging.Router
	seed   string
}

type subscriber struct {
	id   uint64
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub wires a hub around the loaded data tables. The router may be nil;
// it is only consulted for diagnostics stats.
func NewHub(tables *config.Tables, board session.Leaderboard, pub logging.Publisher, router *logging.Router, seed string) *Hub {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	if board == nil {
		board = session.NewMemoryLeaderboard()
	}
	h := &Hub{
		subscribers: make(map[uint64]*subscriber),
		tables:      tables,
		board:       board,
		pub:         pub,
		router:      router,
		seed:        seed,
	}
	h.machine = h.newMachine()
	return h
}

func sessionConfig() session.Config {
	return session.Config{
		Arena:           geom.Vec2{X: arenaWidth, Y: arenaHeight},
		CharacterSize:   characterSize,
		TotalCombatants: totalCombatants,
		TotalRounds:     totalRounds,
		Candidates:      candidateCount,
		KillBonus:       killScoreBonus,
		StartingGold:    startingGold,
		Zone: session.ZoneConfig{
			Enabled:         true,
			ActivationDelay: zoneActivationDelay,
			ShrinkDuration:  zoneShrinkDuration,
			MinRadius:       zoneMinRadius,
			PushSpeed:       zonePushSpeed,
		},
	}
}

// newMachine builds a fresh session wired to a fresh bus. The hub buffers
// the tick's game events off the bus and drains them into the next
// broadcast.
func (h *Hub) newMachine() *session.Machine {
	bus := events.NewBus()
	bus.SubscribeAll(func(event events.Event) {
		switch event.Kind() {
		case events.KindSwing, events.KindHit, events.KindDeath, events.KindKill, events.KindRoundEnded:
			h.pending = append(h.pending, tickEvent{Type: string(event.Kind()), Data: event})
		}
	})
	seed := fmt.Sprintf("%s/%d", h.seed, time.Now().UnixNano())
	return session.NewMachine(sessionConfig(), h.tables, bus, h.board, h.pub, seed)
}

// StartSession discards any running match and opens character selection.
func (h *Hub) StartSession() sessionResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = nil
	h.machine = h.newMachine()
	return h.sessionViewLocked()
}

// Select finalizes the player character: a candidate index or a starter id.
func (h *Hub) Select(candidate int, starter string) (sessionResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var err error
	if starter != "" {
		err = h.machine.SelectStarter(starter)
	} else {
		err = h.machine.SelectCandidate(candidate)
	}
	if err != nil {
		return sessionResponse{}, err
	}
	return h.sessionViewLocked(), nil
}

// Continue advances past a round-end or upgrade screen.
func (h *Hub) Continue() (sessionResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.machine.Continue(); err != nil {
		return sessionResponse{}, err
	}
	return h.sessionViewLocked(), nil
}

// Session returns the current session view without mutating anything.
func (h *Hub) Session() sessionResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessionViewLocked()
}

// Reroll regenerates the open shop.
func (h *Hub) Reroll() (shopResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	outcome, err := h.machine.Reroll()
	if err != nil {
		return shopResponse{}, err
	}
	return shopResponse{Outcome: outcome, Gold: h.machine.Gold(), Shop: h.machine.Shop()}, nil
}

// Buy purchases a shop card by slot.
func (h *Hub) Buy(slot int) (shopResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	outcome, err := h.machine.Buy(slot)
	if err != nil {
		return shopResponse{}, err
	}
	return shopResponse{Outcome: outcome, Gold: h.machine.Gold(), Shop: h.machine.Shop()}, nil
}

// UseItem applies a player inventory item by index.
func (h *Hub) UseItem(index int) (useItemResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	result, err := h.machine.UseItem(index)
	if err != nil {
		return useItemResponse{}, err
	}
	resp := useItemResponse{UseResult: result}
	if player := h.machine.Player(); player != nil {
		resp.Inventory = player.Inventory.Clone().Items
		view := viewOf(player)
		resp.Player = &view
	}
	return resp, nil
}

// UpdateIntent stores the player's movement vector.
func (h *Hub) UpdateIntent(x, y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.machine.SetIntent(x, y)
}

// SubmitScore records the finished match under the given name.
func (h *Hub) SubmitScore(name string) (session.Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.machine.SubmitScore(name)
}

// Leaderboard exposes the stored entries.
func (h *Hub) Leaderboard() []session.Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.machine.Leaderboard().Entries()
}

func (h *Hub) sessionViewLocked() sessionResponse {
	m := h.machine
	resp := sessionResponse{
		Phase:   m.Phase(),
		Round:   m.Round(),
		Score:   m.Score(),
		Gold:    m.Gold(),
		Results: m.Results(),
		Shop:    m.Shop(),
		Won:     m.Won(),
	}
	if m.Phase() == session.PhaseCharSelect {
		for _, candidate := range m.Candidates() {
			resp.Candidates = append(resp.Candidates, viewOf(candidate))
		}
		for _, starter := range m.Starters() {
			resp.Starters = append(resp.Starters, starterView{
				ID:      starter.ID,
				Name:    starter.Name,
				Emoji:   starter.Emoji,
				Color:   starter.Color,
				House:   string(starter.House),
				Element: string(starter.Stats.Element),
			})
		}
	}
	if player := m.Player(); player != nil {
		view := viewOf(player)
		resp.Player = &view
		resp.Inventory = player.Inventory.Clone().Items
	}
	return resp
}

// RunSimulation drives the fixed-rate tick loop until the stop channel
// closes. Frames whose wall-clock delta exceeds the degenerate threshold are
// skipped entirely; the loop still schedules the next tick so a long GC
// pause or suspend cannot corrupt the physics with one huge step.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			if delta > maxFrameDelta {
				logsim.FrameSkipped(context.Background(), h.pub, h.tick(), h.round(),
					logsim.FrameSkippedPayload{
						DTMillis: float64(delta.Milliseconds()),
						Limit:    float64(maxFrameDelta.Milliseconds()),
					})
				continue
			}
			dt := delta.Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(tickRate)
			}

			h.mu.Lock()
			h.machine.Step(dt, now)
			msg := h.snapshotLocked(now)
			h.mu.Unlock()

			h.broadcastState(msg)
		}
	}
}

func (h *Hub) tick() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.machine.Tick()
}

func (h *Hub) round() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.machine.Round()
}

// snapshotLocked copies the broadcast payload and drains the tick's buffered
// events while holding the mutex.
func (h *Hub) snapshotLocked(now time.Time) stateMessage {
	m := h.machine
	msg := stateMessage{
		Type:       "state",
		Phase:      m.Phase(),
		Round:      m.Round(),
		Score:      m.Score(),
		Gold:       m.Gold(),
		Tick:       m.Tick(),
		Events:     h.pending,
		ServerTime: now.UnixMilli(),
	}
	h.pending = nil

	if store := m.Store(); store != nil {
		all := store.All()
		msg.Characters = make([]characterView, 0, len(all))
		for _, character := range all {
			msg.Characters = append(msg.Characters, viewOf(character))
		}
	}
	if zone := m.Zone(); zone != nil {
		msg.Zone = &zoneView{
			X:      zone.Center.X,
			Y:      zone.Center.Y,
			Radius: zone.RadiusAt(now),
			Active: zone.Active(now),
		}
	}
	return msg
}

// Subscribe attaches a read-only render client.
func (h *Hub) Subscribe(conn *websocket.Conn) *subscriber {
	sub := &subscriber{id: h.nextSub.Add(1), conn: conn}
	h.mu.Lock()
	h.subscribers[sub.id] = sub
	h.mu.Unlock()
	lifecycle.ClientConnected(context.Background(), h.pub,
		logging.EntityRef{ID: fmt.Sprintf("sub-%d", sub.id), Kind: logging.EntityKindSystem})
	return sub
}

// Unsubscribe detaches a render client and closes its connection.
func (h *Hub) Unsubscribe(sub *subscriber, reason string) {
	h.mu.Lock()
	_, ok := h.subscribers[sub.id]
	delete(h.subscribers, sub.id)
	h.mu.Unlock()
	if !ok {
		return
	}
	sub.conn.Close()
	lifecycle.ClientDisconnected(context.Background(), h.pub,
		logging.EntityRef{ID: fmt.Sprintf("sub-%d", sub.id), Kind: logging.EntityKindSystem},
		lifecycle.DisconnectPayload{Reason: reason})
}

// broadcastState sends the snapshot to every subscriber. Write failures drop
// the subscriber; they never affect the simulation.
func (h *Hub) broadcastState(msg stateMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal state message: %v", err)
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			h.Unsubscribe(sub, err.Error())
		}
	}
}

// Diagnostics summarizes loop and router health.
func (h *Hub) Diagnostics() diagnosticsResponse {
	h.mu.Lock()
	living := 0
	if store := h.machine.Store(); store != nil {
		living = store.LivingCount()
	}
	resp := diagnosticsResponse{
		Phase:       h.machine.Phase(),
		Round:       h.machine.Round(),
		Tick:        h.machine.Tick(),
		TickRate:    tickRate,
		LivingCount: living,
		Subscribers: len(h.subscribers),
	}
	h.mu.Unlock()

	if h.router != nil {
		stats := h.router.Stats()
		resp.EventsTotal = stats.EventsTotal
		resp.EventsDropped = stats.DroppedTotal
	}
	return resp
}
