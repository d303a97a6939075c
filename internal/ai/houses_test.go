package ai

import (
	"math"
	"testing"
	"time"

	"astral-arena/server/internal/geom"
	"astral-arena/server/internal/state"
	"astral-arena/server/internal/world"
)

func testCharacter(house state.House, pos geom.Vec2) *state.Character {
	return &state.Character{
		ID:       string(house) + "-under-test",
		House:    house,
		Position: pos,
		Stats:    state.Stats{HP: 100, Defense: 10, AttackPower: 100, Speed: 100},
		Attack: state.AttackEffect{
			Footprint: geom.Footprint{Shape: geom.ShapeCircle, Size: 60},
		},
	}
}

func testContext(self, target *state.Character, now time.Time) *Context {
	living := []*state.Character{self}
	if target != nil {
		living = append(living, target)
	}
	return &Context{
		Self:   self,
		Target: target,
		Living: living,
		Arena:  geom.Vec2{X: 800, Y: 600},
		DT:     0.05,
		Now:    now,
		RNG:    world.NewRNG("houses-test", "ai"),
	}
}

func towardTarget(ctx *Context, velocity geom.Vec2) float64 {
	return velocity.Dot(ctx.Target.Position.Sub(ctx.Self.Position).Normalize())
}

func TestDefaultMoveJitterStaysNarrow(t *testing.T) {
	self := testCharacter(state.HouseJupiter, geom.Vec2{X: 100, Y: 100})
	target := testCharacter(state.HouseMars, geom.Vec2{X: 300, Y: 100})
	ctx := testContext(self, target, time.Now())

	for i := 0; i < 50; i++ {
		velocity := defaultMove(ctx)
		if math.Abs(velocity.Length()-self.Stats.Speed) > 1e-9 {
			t.Fatalf("default move speed = %v, want %v", velocity.Length(), self.Stats.Speed)
		}
		deviation := math.Acos(geom.Clamp(towardTarget(ctx, velocity)/velocity.Length(), -1, 1))
		if deviation > 5.01*math.Pi/180 {
			t.Fatalf("default move deviated %.2f rad from the target bearing", deviation)
		}
	}
}

func TestDefaultMoveNoTarget(t *testing.T) {
	self := testCharacter(state.HouseJupiter, geom.Vec2{X: 100, Y: 100})
	ctx := testContext(self, nil, time.Now())
	if got := defaultMove(ctx); got != (geom.Vec2{}) {
		t.Errorf("default move without a target = %+v, want zero", got)
	}
}

func TestJupiterRetreatsInsideStandOff(t *testing.T) {
	now := time.Now()
	self := testCharacter(state.HouseJupiter, geom.Vec2{X: 100, Y: 100})
	target := testCharacter(state.HouseMars, geom.Vec2{X: 140, Y: 100}) // inside 1.5x60=90
	ctx := testContext(self, target, now)

	velocity := jupiterMove(ctx)
	if towardTarget(ctx, velocity) >= 0 {
		t.Error("jupiter inside the stand-off distance should retreat")
	}
	if self.RetreatStart.IsZero() {
		t.Error("retreat start should be recorded on the first retreating tick")
	}
	speed := velocity.Length()
	if speed < 0.5*self.Stats.Speed-1e-9 || speed > self.Stats.Speed+1e-9 {
		t.Errorf("retreat speed = %v, want within [0.5x, 1.0x] of base", speed)
	}
}

func TestJupiterRetreatCapForcesApproach(t *testing.T) {
	now := time.Now()
	self := testCharacter(state.HouseJupiter, geom.Vec2{X: 100, Y: 100})
	target := testCharacter(state.HouseMars, geom.Vec2{X: 140, Y: 100})
	self.RetreatStart = now.Add(-3000 * time.Millisecond)
	ctx := testContext(self, target, now)

	velocity := jupiterMove(ctx)
	if towardTarget(ctx, velocity) <= 0 {
		t.Error("jupiter past the 3000ms retreat cap must approach instead")
	}
	if self.RetreatStart.IsZero() {
		t.Error("the retreat timer must not reset while still inside the stand-off distance")
	}
}

func TestJupiterRetreatTimerResetsAtStandOff(t *testing.T) {
	now := time.Now()
	self := testCharacter(state.HouseJupiter, geom.Vec2{X: 100, Y: 100})
	target := testCharacter(state.HouseMars, geom.Vec2{X: 300, Y: 100}) // beyond stand-off
	self.RetreatStart = now.Add(-time.Second)
	ctx := testContext(self, target, now)

	jupiterMove(ctx)
	if !self.RetreatStart.IsZero() {
		t.Error("the retreat timer should reset once the stand-off distance is restored")
	}
}

func TestSaturnLocksBearingBetweenDecisions(t *testing.T) {
	now := time.Now()
	self := testCharacter(state.HouseSaturn, geom.Vec2{X: 100, Y: 100})
	target := testCharacter(state.HouseMars, geom.Vec2{X: 300, Y: 100})
	ctx := testContext(self, target, now)

	first := saturnMove(ctx)
	if self.NextDecision.IsZero() {
		t.Fatal("saturn should schedule its next decision")
	}
	wait := self.NextDecision.Sub(now)
	if wait < saturnDecisionMin || wait > saturnDecisionMax {
		t.Fatalf("decision interval = %v, want within [%v, %v]", wait, saturnDecisionMin, saturnDecisionMax)
	}

	// Move the target; before the deadline the bearing must not change.
	target.Position = geom.Vec2{X: 100, Y: 300}
	ctx.Now = now.Add(time.Second)
	second := saturnMove(ctx)
	if first != second {
		t.Errorf("saturn changed bearing before its decision deadline: %+v vs %+v", first, second)
	}

	ctx.Now = self.NextDecision
	third := saturnMove(ctx)
	if towardTarget(ctx, third) <= 0 {
		t.Error("saturn should re-aim at the target once the deadline passes")
	}
}

func TestMarsSpeedBurst(t *testing.T) {
	now := time.Now()
	self := testCharacter(state.HouseMars, geom.Vec2{X: 100, Y: 100})
	close := testCharacter(state.HouseSol, geom.Vec2{X: 180, Y: 100}) // within 2x60
	far := testCharacter(state.HouseSol, geom.Vec2{X: 400, Y: 100})

	ctx := testContext(self, close, now)
	if got := marsMove(ctx).Length(); math.Abs(got-self.Stats.Speed*marsCloseSpeed) > 1e-9 {
		t.Errorf("mars close-range speed = %v, want %v", got, self.Stats.Speed*marsCloseSpeed)
	}
	ctx = testContext(self, far, now)
	if got := marsMove(ctx).Length(); math.Abs(got-self.Stats.Speed*marsCruiseSpeed) > 1e-9 {
		t.Errorf("mars cruise speed = %v, want %v", got, self.Stats.Speed*marsCruiseSpeed)
	}
}

func TestNeptuneSpeedOscillatesWithinBand(t *testing.T) {
	self := testCharacter(state.HouseNeptune, geom.Vec2{X: 100, Y: 100})
	target := testCharacter(state.HouseSol, geom.Vec2{X: 400, Y: 100})

	now := time.Now()
	for i := 0; i < 40; i++ {
		ctx := testContext(self, target, now.Add(time.Duration(i)*100*time.Millisecond))
		speed := neptuneMove(ctx).Length()
		min := self.Stats.Speed * (1 - neptuneSpeedSwing)
		max := self.Stats.Speed * (1 + neptuneSpeedSwing)
		if speed < min-1e-6 || speed > max+1e-6 {
			t.Fatalf("neptune speed %v outside [%v, %v]", speed, min, max)
		}
	}
}

func TestMercuryRetreatsInCloseRange(t *testing.T) {
	now := time.Now()
	self := testCharacter(state.HouseMercury, geom.Vec2{X: 100, Y: 100})
	target := testCharacter(state.HouseSol, geom.Vec2{X: 150, Y: 100}) // inside 1.2x60
	ctx := testContext(self, target, now)

	velocity := mercuryMove(ctx)
	if towardTarget(ctx, velocity) >= 0 {
		t.Error("mercury inside its retreat range should flee")
	}
	if math.Abs(velocity.Length()-self.Stats.Speed*mercurySpeed) > 1e-9 {
		t.Errorf("mercury speed = %v, want %v", velocity.Length(), self.Stats.Speed*mercurySpeed)
	}
}

func TestVenusFleesCrowd(t *testing.T) {
	now := time.Now()
	self := testCharacter(state.HouseVenus, geom.Vec2{X: 400, Y: 300})
	crowd := []*state.Character{
		testCharacter(state.HouseMars, geom.Vec2{X: 420, Y: 300}),
		testCharacter(state.HouseMars, geom.Vec2{X: 400, Y: 330}),
		testCharacter(state.HouseMars, geom.Vec2{X: 430, Y: 320}),
	}
	ctx := &Context{
		Self:   self,
		Target: crowd[0],
		Living: append([]*state.Character{self}, crowd...),
		Arena:  geom.Vec2{X: 800, Y: 600},
		DT:     0.05,
		Now:    now,
		RNG:    world.NewRNG("houses-test", "venus"),
	}

	velocity := venusMove(ctx)
	if towardTarget(ctx, velocity) >= 0 {
		t.Error("venus surrounded by more than two enemies should move away from the crowd")
	}
}

func TestVenusBlendsVelocity(t *testing.T) {
	now := time.Now()
	self := testCharacter(state.HouseVenus, geom.Vec2{X: 100, Y: 100})
	target := testCharacter(state.HouseMars, geom.Vec2{X: 700, Y: 100})
	ctx := testContext(self, target, now)

	velocity := venusMove(ctx)
	want := self.Stats.Speed * venusBlend
	if math.Abs(velocity.Length()-want) > 1e-9 {
		t.Errorf("venus first-tick speed = %v, want the blended %v", velocity.Length(), want)
	}
}

func TestSolBiasesTowardCenterWhenFar(t *testing.T) {
	now := time.Now()
	// Far corner: more than 30% of the arena size from the center.
	self := testCharacter(state.HouseSol, geom.Vec2{X: 40, Y: 40})
	target := testCharacter(state.HouseMars, geom.Vec2{X: 60, Y: 40})
	ctx := testContext(self, target, now)

	velocity := solMove(ctx)
	center := geom.Vec2{X: 400, Y: 300}
	toCenter := center.Sub(self.Position).Normalize()
	if velocity.Normalize().Dot(toCenter) < 0.999 {
		t.Errorf("sol far from center should head straight for it, got %+v", velocity)
	}
	if math.Abs(velocity.Length()-self.Stats.Speed*solSpeed) > 1e-9 {
		t.Errorf("sol speed = %v, want %v", velocity.Length(), self.Stats.Speed*solSpeed)
	}
}

func TestSolEngagesDirectlyWhenClose(t *testing.T) {
	now := time.Now()
	self := testCharacter(state.HouseSol, geom.Vec2{X: 400, Y: 300})
	target := testCharacter(state.HouseMars, geom.Vec2{X: 450, Y: 300}) // within 2x60
	ctx := testContext(self, target, now)

	velocity := solMove(ctx)
	if velocity.Normalize().Dot(geom.Vec2{X: 1, Y: 0}) < 0.999 {
		t.Errorf("sol near the center with a close target should engage directly, got %+v", velocity)
	}
}

func TestIDPhaseStableAndBounded(t *testing.T) {
	a := idPhase("character-a")
	if a != idPhase("character-a") {
		t.Error("idPhase must be deterministic per id")
	}
	if a < 0 || a >= 2*math.Pi {
		t.Errorf("idPhase out of range: %v", a)
	}
	if a == idPhase("character-b") && a == idPhase("character-c") {
		t.Error("distinct ids should generally desync their phases")
	}
}
