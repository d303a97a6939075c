// Package session owns the match state machine: character selection, the
// playing rounds, round-end accounting, the upgrade phase between rounds, and
// the final leaderboard handoff. All transitions run on the simulation
// goroutine; the hub serializes external commands before they reach here.
package session

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"astral-arena/server/internal/ai"
	"astral-arena/server/internal/combat"
	"astral-arena/server/internal/config"
	"astral-arena/server/internal/events"
	"astral-arena/server/internal/geom"
	"astral-arena/server/internal/shop"
	"astral-arena/server/internal/state"
	"astral-arena/server/internal/world"
	"astral-arena/server/logging"
	logcombat "astral-arena/server/logging/combat"
	"astral-arena/server/logging/economy"
	"astral-arena/server/logging/lifecycle"
	"astral-arena/server/logging/simulation"
)

// Phase is the session state machine position.
type Phase string

const (
	PhaseCharSelect  Phase = "char-select"
	PhasePlaying     Phase = "playing"
	PhaseRoundEnd    Phase = "round-end"
	PhaseUpgrade     Phase = "upgrade"
	PhaseGameOver    Phase = "game-over"
	PhaseLeaderboard Phase = "leaderboard"
)

// RoundResult is the per-round accounting line.
type RoundResult struct {
	Round int `json:"round"`
	Place int `json:"place"`
	Score int `json:"score"`
}

// ZoneConfig tunes the optional shrinking safe zone.
type ZoneConfig struct {
	Enabled         bool
	ActivationDelay time.Duration
	ShrinkDuration  time.Duration
	MinRadius       float64
	PushSpeed       float64
}

// Config carries the match tuning knobs.
type Config struct {
	Arena           geom.Vec2
	CharacterSize   float64
	TotalCombatants int
	TotalRounds     int
	Candidates      int
	KillBonus       int
	StartingGold    int
	Zone            ZoneConfig
}

// Machine drives one player's match from character selection to the
// leaderboard. The player character is a single value carried across every
// round so shop and item mutations stay visible; enemies persist between
// rounds on the enemies slice and are upgraded before each respawn.
type Machine struct {
	cfg     Config
	tables  *config.Tables
	factory *world.Factory
	store   *world.Store
	ai      *ai.Controller
	engine  *combat.Engine
	bus     *events.Bus
	board   Leaderboard
	pub     logging.Publisher

	upgradeRNG *rand.Rand
	shopRNG    *rand.Rand

	phase      Phase
	round      int
	score      int
	gold       int
	results    []RoundResult
	won        bool
	candidates []*state.Character
	player     *state.Character
	enemies    []*state.Character
	shop       *shop.Shop
	zone       *world.Zone
	tick       uint64
}

// NewMachine wires the per-subsystem deterministic RNG streams and the tick
// systems, and subscribes the machine to its own game events for scoring and
// the combat log.
func NewMachine(cfg Config, tables *config.Tables, bus *events.Bus, board Leaderboard, pub logging.Publisher, seed string) *Machine {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	if board == nil {
		board = NewMemoryLeaderboard()
	}
	factory := world.NewFactory(tables, world.NewRNG(seed, "factory"))
	m := &Machine{
		cfg:        cfg,
		tables:     tables,
		factory:    factory,
		store:      world.NewStore(factory, bus, world.NewRNG(seed, "spawn"), cfg.Arena, cfg.CharacterSize, cfg.KillBonus),
		ai:         ai.NewController(cfg.Arena, cfg.CharacterSize, cfg.Zone.PushSpeed, world.NewRNG(seed, "ai")),
		engine:     combat.NewEngine(tables.Chart, bus),
		bus:        bus,
		board:      board,
		pub:        pub,
		upgradeRNG: world.NewRNG(seed, "upgrade"),
		shopRNG:    world.NewRNG(seed, "shop"),
		phase:      PhaseCharSelect,
		gold:       cfg.StartingGold,
	}
	m.subscribe()
	return m
}

func (m *Machine) subscribe() {
	m.bus.Subscribe(events.KindKill, func(event events.Event) {
		kill := event.(events.Kill)
		m.score += kill.ScoreBonus
	})
	m.bus.Subscribe(events.KindSwing, func(event events.Event) {
		swing := event.(events.Swing)
		logcombat.Swing(context.Background(), m.pub, m.tick, m.round,
			m.entityRef(swing.AttackerID),
			logcombat.SwingPayload{Attack: swing.AttackID, Element: string(swing.Element)})
	})
	m.bus.Subscribe(events.KindHit, func(event events.Event) {
		hit := event.(events.Hit)
		target := m.store.Get(hit.TargetID)
		health := 0.0
		if target != nil {
			health = target.CurrentHP
		}
		logcombat.Hit(context.Background(), m.pub, m.tick, m.round,
			m.entityRef(hit.AttackerID), m.entityRef(hit.TargetID),
			logcombat.HitPayload{
				Attack:        hit.AttackID,
				Damage:        hit.Damage,
				Modifier:      hit.Modifier,
				Effectiveness: string(hit.Effectiveness),
				TargetHealth:  health,
			})
	})
	m.bus.Subscribe(events.KindDeath, func(event events.Event) {
		death := event.(events.Death)
		logcombat.Elimination(context.Background(), m.pub, m.tick, m.round,
			m.entityRef(death.AttackerID), m.entityRef(death.CharacterID),
			logcombat.EliminationPayload{Place: death.Place})
	})
}

func (m *Machine) entityRef(id string) logging.EntityRef {
	if id == "" {
		return logging.EntityRef{Kind: logging.EntityKindUnknown}
	}
	kind := logging.EntityKindEnemy
	if c := m.store.Get(id); c != nil && c.IsPlayer {
		kind = logging.EntityKindPlayer
	}
	return logging.EntityRef{ID: id, Kind: kind}
}

// Phase, Round, Score, Gold, Results, Shop, Player, Store, Zone and Tick are
// read by the hub when building snapshots.
func (m *Machine) Phase() Phase           { return m.phase }
func (m *Machine) Round() int             { return m.round }
func (m *Machine) Score() int             { return m.score }
func (m *Machine) Gold() int              { return m.gold }
func (m *Machine) Won() bool              { return m.won }
func (m *Machine) Shop() *shop.Shop       { return m.shop }
func (m *Machine) Player() *state.Character { return m.player }
func (m *Machine) Store() *world.Store    { return m.store }
func (m *Machine) Zone() *world.Zone      { return m.zone }
func (m *Machine) Tick() uint64           { return m.tick }

func (m *Machine) Results() []RoundResult {
	return append([]RoundResult(nil), m.results...)
}

// Candidates generates the selection roster once and returns the cached set
// on later calls.
func (m *Machine) Candidates() []*state.Character {
	if m.phase != PhaseCharSelect {
		return nil
	}
	if m.candidates == nil {
		m.candidates = m.factory.Candidates(m.cfg.Candidates)
	}
	return m.candidates
}

// Starters exposes the preset roster alongside the random candidates.
func (m *Machine) Starters() []config.Starter {
	return m.tables.Starters
}

// SelectCandidate finalizes the player from the generated candidate list and
// starts round one.
func (m *Machine) SelectCandidate(index int) error {
	if m.phase != PhaseCharSelect {
		return fmt.Errorf("session: cannot select a character during %s", m.phase)
	}
	roster := m.Candidates()
	if index < 0 || index >= len(roster) {
		return fmt.Errorf("session: no candidate at index %d", index)
	}
	m.finalizePlayer(roster[index])
	return nil
}

// SelectStarter finalizes the player from a preset starter.
func (m *Machine) SelectStarter(id string) error {
	if m.phase != PhaseCharSelect {
		return fmt.Errorf("session: cannot select a character during %s", m.phase)
	}
	for _, starter := range m.tables.Starters {
		if starter.ID == id {
			m.finalizePlayer(m.factory.FromStarter(starter))
			return nil
		}
	}
	return fmt.Errorf("session: unknown starter %q", id)
}

func (m *Machine) finalizePlayer(chosen *state.Character) {
	m.player = chosen
	m.player.IsPlayer = true
	m.candidates = nil
	lifecycle.SessionStarted(context.Background(), m.pub,
		logging.EntityRef{ID: m.player.ID, Kind: logging.EntityKindPlayer},
		lifecycle.SessionStartedPayload{
			Character: m.player.Emoji,
			House:     string(m.player.House),
			Element:   string(m.player.Stats.Element),
		})
	m.startRound(time.Now())
}

func (m *Machine) startRound(now time.Time) {
	m.round++
	m.enemies = m.store.SpawnCombatants(m.player, m.enemies, m.cfg.TotalCombatants)
	m.zone = nil
	if m.cfg.Zone.Enabled {
		center := geom.Vec2{X: m.cfg.Arena.X / 2, Y: m.cfg.Arena.Y / 2}
		initial := math.Hypot(m.cfg.Arena.X, m.cfg.Arena.Y) * 0.45
		m.zone = world.NewZone(center, initial, m.cfg.Zone.MinRadius, now,
			m.cfg.Zone.ActivationDelay, m.cfg.Zone.ShrinkDuration)
	}
	m.phase = PhasePlaying
	lifecycle.RoundStarted(context.Background(), m.pub, m.round,
		logging.EntityRef{ID: m.player.ID, Kind: logging.EntityKindPlayer})
}

// Step advances one simulation tick while playing. Each per-tick system runs
// behind a recover guard: a panic in one system is logged as an error event
// and the remaining systems still run, so a single bad branch cannot halt
// the loop.
func (m *Machine) Step(dt float64, now time.Time) {
	if m.phase != PhasePlaying {
		return
	}
	m.tick++
	m.guarded("ai", func() { m.ai.Tick(m.store, m.zone, dt, now) })
	m.guarded("combat", func() { m.engine.Tick(m.store, now) })
	if m.store.LivingCount() <= 1 {
		m.endRound()
	}
}

func (m *Machine) guarded(system string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			simulation.SystemRecovered(context.Background(), m.pub, m.tick, m.round,
				simulation.SystemRecoveredPayload{System: system, Panic: fmt.Sprint(r)})
		}
	}()
	fn()
}

// endRound settles the round: place from the ordered death list, round score
// |place - (total+1)| credited to both cumulative score and gold, and the
// death tracker cleared exactly once. First place scores the combatant
// count, last place scores zero; the absolute value tolerates a place beyond
// the roster, which should not occur.
func (m *Machine) endRound() {
	place := m.store.PlayerPlace()
	roundScore := place - (m.cfg.TotalCombatants + 1)
	if roundScore < 0 {
		roundScore = -roundScore
	}
	m.score += roundScore
	m.gold += roundScore
	m.results = append(m.results, RoundResult{Round: m.round, Place: place, Score: roundScore})
	m.store.ClearDeaths()
	m.phase = PhaseRoundEnd

	m.bus.Publish(events.RoundEnded{Round: m.round, Place: place, Score: roundScore})
	lifecycle.RoundEnded(context.Background(), m.pub, m.round,
		logging.EntityRef{ID: m.player.ID, Kind: logging.EntityKindPlayer},
		lifecycle.RoundEndedPayload{Place: place, Score: roundScore, Gold: m.gold})
}

// Continue advances past a round-end screen: into the upgrade phase while
// rounds remain, otherwise into game-over or the leaderboard depending on
// whether the final score ranks.
func (m *Machine) Continue() error {
	switch m.phase {
	case PhaseRoundEnd:
		if m.round < m.cfg.TotalRounds {
			m.shop = shop.New(m.round, m.factory, m.shopRNG)
			m.phase = PhaseUpgrade
			return nil
		}
		m.finish()
		return nil
	case PhaseUpgrade:
		m.shop = nil
		m.upgradeEnemies()
		m.startRound(time.Now())
		return nil
	default:
		return fmt.Errorf("session: nothing to continue from %s", m.phase)
	}
}

func (m *Machine) finish() {
	m.won = len(m.results) > 0 && m.results[len(m.results)-1].Place == 1
	if m.board.IsHighScore(m.score) {
		m.phase = PhaseLeaderboard
	} else {
		m.phase = PhaseGameOver
	}
	lifecycle.GameOver(context.Background(), m.pub, m.round,
		logging.EntityRef{ID: m.player.ID, Kind: logging.EntityKindPlayer},
		lifecycle.GameOverPayload{TotalScore: m.score, Won: m.won})
}

// upgradeEnemies applies the per-round enemy scaling before the next spawn:
// every persisted enemy's stats multiply by 1 + rand(0.1,0.3) x
// max(nextRound - level, 1), the level increments, and HP refills. Enemies
// that fell behind the round count compound harder. The player never
// upgrades here; player progression happens only through the shop.
func (m *Machine) upgradeEnemies() {
	nextRound := m.round + 1
	for _, enemy := range m.enemies {
		behind := nextRound - enemy.Level
		if behind < 1 {
			behind = 1
		}
		factor := 1 + (0.1+m.upgradeRNG.Float64()*0.2)*float64(behind)
		enemy.Stats.HP *= factor
		enemy.Stats.Defense *= factor
		enemy.Stats.AttackPower *= factor
		enemy.Stats.Speed *= factor
		enemy.Level++
		enemy.CurrentHP = enemy.Stats.HP
	}
}

// Reroll regenerates the shop cards against the player's gold.
func (m *Machine) Reroll() (shop.Outcome, error) {
	if m.phase != PhaseUpgrade || m.shop == nil {
		return "", fmt.Errorf("session: no shop open during %s", m.phase)
	}
	cost := m.shop.RerollCost
	remaining, outcome := m.shop.Reroll(m.gold)
	m.gold = remaining
	economy.Reroll(context.Background(), m.pub, m.round,
		logging.EntityRef{ID: m.player.ID, Kind: logging.EntityKindPlayer},
		economy.RerollPayload{Cost: cost, Rerolls: m.shop.Rerolls, Outcome: string(outcome), Gold: m.gold})
	return outcome, nil
}

// Buy purchases the card at the given slot for the player.
func (m *Machine) Buy(slot int) (shop.Outcome, error) {
	if m.phase != PhaseUpgrade || m.shop == nil {
		return "", fmt.Errorf("session: no shop open during %s", m.phase)
	}
	var kind shop.CardKind
	var cost int
	if slot >= 0 && slot < len(m.shop.Cards) {
		kind = m.shop.Cards[slot].Kind
		cost = m.shop.Cards[slot].Cost
	}
	remaining, outcome := m.shop.Purchase(slot, m.player, m.gold)
	m.gold = remaining
	economy.Purchase(context.Background(), m.pub, m.round,
		logging.EntityRef{ID: m.player.ID, Kind: logging.EntityKindPlayer},
		economy.PurchasePayload{Slot: slot, Kind: string(kind), Cost: cost, Outcome: string(outcome), Gold: m.gold})
	return outcome, nil
}

// UseItem applies the player's inventory item at the given index. Allowed
// during the upgrade phase and at round end.
func (m *Machine) UseItem(index int) (shop.UseResult, error) {
	if m.phase != PhaseUpgrade && m.phase != PhaseRoundEnd {
		return shop.UseResult{}, fmt.Errorf("session: cannot use items during %s", m.phase)
	}
	itemName := ""
	if index >= 0 && index < len(m.player.Inventory.Items) {
		itemName = m.player.Inventory.Items[index].Name
	}
	result := shop.UseItem(m.player, index)
	economy.ItemUsed(context.Background(), m.pub, m.round,
		logging.EntityRef{ID: m.player.ID, Kind: logging.EntityKindPlayer},
		economy.ItemUsedPayload{Item: itemName, Applied: result.Applied, Reason: result.Reason})
	return result, nil
}

// SetIntent records the human movement vector for the player character.
func (m *Machine) SetIntent(x, y float64) {
	if m.phase != PhasePlaying || m.player == nil {
		return
	}
	m.player.IntentX = x
	m.player.IntentY = y
}

// SubmitScore records the finished match on the leaderboard.
func (m *Machine) SubmitScore(name string) (Entry, error) {
	if m.phase != PhaseLeaderboard {
		return Entry{}, fmt.Errorf("session: no high score to submit during %s", m.phase)
	}
	entry := m.board.AddEntry(name, m.score, m.results)
	m.phase = PhaseGameOver
	return entry, nil
}

// Leaderboard exposes the persistence collaborator for the HTTP surface.
func (m *Machine) Leaderboard() Leaderboard {
	return m.board
}
