package combat

import (
	"testing"
	"time"

	"astral-arena/server/internal/config"
	"astral-arena/server/internal/element"
	"astral-arena/server/internal/events"
	"astral-arena/server/internal/geom"
	"astral-arena/server/internal/state"
	"astral-arena/server/internal/world"
)

func newArena(t *testing.T, bus *events.Bus, enemies int) (*world.Store, *state.Character, []*state.Character) {
	t.Helper()
	tables := config.Default()
	factory := world.NewFactory(tables, world.NewRNG("engine-test", "factory"))
	store := world.NewStore(factory, bus, world.NewRNG("engine-test", "spawn"),
		geom.Vec2{X: 800, Y: 600}, 30, 10)

	player := factory.RandomCharacter()
	roster := make([]*state.Character, 0, enemies)
	for i := 0; i < enemies; i++ {
		roster = append(roster, factory.RandomCharacter())
	}
	store.SpawnCombatants(player, roster, enemies+1)

	// Tests position characters explicitly and give everyone deep health so
	// only intentional kills change the death list.
	for _, c := range store.All() {
		c.CurrentHP = 1e9
		c.Stats.HP = 1e9
		c.TargetID = ""
	}
	return store, player, roster
}

func testAttack(cooldown time.Duration) state.AttackEffect {
	return state.AttackEffect{
		ID:         "test-bolt",
		Name:       "Test Bolt",
		BaseDamage: 10,
		Cooldown:   cooldown,
		Element:    element.Electric,
		Footprint:  geom.Footprint{Shape: geom.ShapeCircle, Size: 100},
	}
}

func collect(bus *events.Bus) (swings *int, hits *int) {
	s, h := 0, 0
	bus.Subscribe(events.KindSwing, func(events.Event) { s++ })
	bus.Subscribe(events.KindHit, func(events.Event) { h++ })
	return &s, &h
}

func TestCooldownGate(t *testing.T) {
	bus := events.NewBus()
	store, player, roster := newArena(t, bus, 1)
	swings, _ := collect(bus)

	enemy := roster[0]
	player.Position = geom.Vec2{X: 100, Y: 100}
	enemy.Position = geom.Vec2{X: 150, Y: 100}
	player.Attack = testAttack(500 * time.Millisecond)
	player.TargetID = enemy.ID

	engine := NewEngine(element.DefaultChart(), bus)
	now := time.Now()

	engine.Tick(store, now)
	if *swings != 1 {
		t.Fatalf("a fresh character should attack immediately, swings = %d", *swings)
	}
	if !player.LastAttackTime.Equal(now) {
		t.Fatalf("lastAttackTime should update on the attack tick")
	}

	engine.Tick(store, now.Add(499*time.Millisecond))
	if *swings != 1 {
		t.Errorf("attack fired before the cooldown elapsed, swings = %d", *swings)
	}

	engine.Tick(store, now.Add(500*time.Millisecond))
	if *swings != 2 {
		t.Errorf("attack should fire once the cooldown elapses, swings = %d", *swings)
	}
}

func TestSwingAndMissStillSpendsCooldown(t *testing.T) {
	bus := events.NewBus()
	store, player, roster := newArena(t, bus, 1)
	swings, hits := collect(bus)

	enemy := roster[0]
	player.Position = geom.Vec2{X: 100, Y: 100}
	enemy.Position = geom.Vec2{X: 500, Y: 100} // outside the 100px footprint
	player.Attack = testAttack(time.Second)
	player.TargetID = enemy.ID

	engine := NewEngine(element.DefaultChart(), bus)
	now := time.Now()
	engine.Tick(store, now)

	if *swings != 1 || *hits != 0 {
		t.Fatalf("expected one swing and no hits, got swings=%d hits=%d", *swings, *hits)
	}
	if player.LastAttackTime.IsZero() {
		t.Error("a missed swing must still spend the cooldown")
	}

	// Move the target inside the footprint: the cooldown spent on the miss
	// must still gate the next attack.
	enemy.Position = geom.Vec2{X: 150, Y: 100}
	engine.Tick(store, now.Add(100*time.Millisecond))
	if *swings != 1 {
		t.Errorf("cooldown from the missed swing was not honored, swings = %d", *swings)
	}
}

func TestAreaRescanHitsBystanders(t *testing.T) {
	bus := events.NewBus()
	store, player, roster := newArena(t, bus, 3)
	_, hits := collect(bus)

	player.Position = geom.Vec2{X: 100, Y: 100}
	roster[0].Position = geom.Vec2{X: 150, Y: 100} // primary target, in range
	roster[1].Position = geom.Vec2{X: 120, Y: 130} // bystander, in range
	roster[2].Position = geom.Vec2{X: 700, Y: 500} // out of range
	player.Attack = testAttack(time.Second)
	player.TargetID = roster[0].ID

	engine := NewEngine(element.DefaultChart(), bus)
	engine.Tick(store, time.Now())

	if *hits != 2 {
		t.Errorf("expected the primary target and one bystander to be hit, got %d hits", *hits)
	}
}

func TestNoAttackWithoutTarget(t *testing.T) {
	bus := events.NewBus()
	store, player, _ := newArena(t, bus, 1)
	swings, _ := collect(bus)

	player.Attack = testAttack(time.Second)
	player.TargetID = ""

	engine := NewEngine(element.DefaultChart(), bus)
	engine.Tick(store, time.Now())
	if *swings != 0 {
		t.Errorf("characters without a target must not swing, swings = %d", *swings)
	}
}
