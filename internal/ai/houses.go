package ai

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"astral-arena/server/internal/geom"
	"astral-arena/server/internal/state"
)

// House tuning. Distances are multiples of the equipped attack's AOE size so
// every house scales its behavior with its own reach.
const (
	defaultJitterDeg = 5.0

	jupiterStandOffFactor = 1.5
	jupiterRetreatCap     = 3000 * time.Millisecond

	saturnDecisionMin = 2000 * time.Millisecond
	saturnDecisionMax = 3000 * time.Millisecond

	marsJitterDeg    = 15.0
	marsCloseFactor  = 2.0
	marsCloseSpeed   = 1.3
	marsCruiseSpeed  = 1.1

	neptuneWeaveFreq  = 3.0 // radians per second
	neptuneWeaveBlend = 0.6
	neptuneSpeedSwing = 0.2

	mercuryDecisionMin   = 300 * time.Millisecond
	mercuryDecisionMax   = 700 * time.Millisecond
	mercuryRetreatFactor = 1.2
	mercuryRetreatSpread = 60.0 // degrees either side when fleeing
	mercuryApproachSpread = 15.0
	mercurySpeed         = 1.2

	venusCrowdFactor = 3.0
	venusCrowdLimit  = 2
	venusBlend       = 0.1

	solCenterFraction = 0.3
	solEngageFactor   = 2.0
	solTargetWeight   = 0.7
	solCenterWeight   = 0.3
	solSpeed          = 0.9
)

// Context carries everything one movement decision may read. Movers return
// the desired velocity; the controller owns integration and collisions.
type Context struct {
	Self   *state.Character
	Target *state.Character
	Living []*state.Character
	Arena  geom.Vec2
	DT     float64
	Now    time.Time
	RNG    *rand.Rand
}

// MoveFunc is one house strategy. Pure apart from the RNG stream and the
// self aux fields it is allowed to update.
type MoveFunc func(ctx *Context) geom.Vec2

// movers is the closed dispatch table over planetary houses. Houses without
// an entry, and any house without a target, fall back to defaultMove.
func movers() map[state.House]MoveFunc {
	return map[state.House]MoveFunc{
		state.HouseJupiter: jupiterMove,
		state.HouseSaturn:  saturnMove,
		state.HouseMars:    marsMove,
		state.HouseNeptune: neptuneMove,
		state.HouseMercury: mercuryMove,
		state.HouseVenus:   venusMove,
		state.HouseSol:     solMove,
	}
}

func (ctx *Context) aoeSize() float64 {
	return ctx.Self.Attack.Footprint.Size
}

func (ctx *Context) toTarget() geom.Vec2 {
	return ctx.Target.Position.Sub(ctx.Self.Position).Normalize()
}

func (ctx *Context) targetDistance() float64 {
	return geom.Distance(ctx.Self.Position, ctx.Target.Position)
}

// jitter rotates a direction by a uniform angle within ±spread degrees.
func jitter(rng *rand.Rand, dir geom.Vec2, spreadDeg float64) geom.Vec2 {
	angle := (rng.Float64()*2 - 1) * spreadDeg * math.Pi / 180
	return dir.Rotate(angle)
}

// defaultMove steers straight at the target with a small random wobble.
func defaultMove(ctx *Context) geom.Vec2 {
	if ctx.Target == nil {
		return geom.Vec2{}
	}
	dir := jitter(ctx.RNG, ctx.toTarget(), defaultJitterDeg)
	return dir.Scale(ctx.Self.Stats.Speed)
}

// jupiterMove holds a stand-off distance of 1.5x the attack's AOE size.
// Retreat is capped at 3000ms of continuous backing off, after which the
// character is forced to close in; the retreat timer only resets once the
// stand-off distance is restored. Both halves of that rule are load-bearing:
// without the cap Jupiter kites forever, without the reset it never retreats
// again.
func jupiterMove(ctx *Context) geom.Vec2 {
	if ctx.Target == nil {
		return defaultMove(ctx)
	}
	self := ctx.Self
	standOff := jupiterStandOffFactor * ctx.aoeSize()
	if ctx.targetDistance() < standOff {
		if self.RetreatStart.IsZero() {
			self.RetreatStart = ctx.Now
		}
		if ctx.Now.Sub(self.RetreatStart) >= jupiterRetreatCap {
			return ctx.toTarget().Scale(self.Stats.Speed)
		}
		retreatSpeed := self.Stats.Speed * (0.5 + ctx.RNG.Float64()*0.5)
		return ctx.toTarget().Scale(-retreatSpeed)
	}
	self.RetreatStart = time.Time{}
	return jitter(ctx.RNG, ctx.toTarget(), defaultJitterDeg).Scale(self.Stats.Speed)
}

// saturnMove re-evaluates its bearing only every 2000-3000ms and otherwise
// travels in a straight line locked to the bearing chosen at decision time.
func saturnMove(ctx *Context) geom.Vec2 {
	if ctx.Target == nil {
		return defaultMove(ctx)
	}
	self := ctx.Self
	if self.NextDecision.IsZero() || !ctx.Now.Before(self.NextDecision) {
		self.WanderAngle = ctx.toTarget().Angle()
		self.NextDecision = ctx.Now.Add(randomDuration(ctx.RNG, saturnDecisionMin, saturnDecisionMax))
	}
	return geom.FromAngle(self.WanderAngle).Scale(self.Stats.Speed)
}

// marsMove charges with heavy jitter, bursting to 1.3x speed inside twice
// the AOE size and cruising at 1.1x beyond it.
func marsMove(ctx *Context) geom.Vec2 {
	if ctx.Target == nil {
		return defaultMove(ctx)
	}
	multiplier := marsCruiseSpeed
	if ctx.targetDistance() <= marsCloseFactor*ctx.aoeSize() {
		multiplier = marsCloseSpeed
	}
	dir := jitter(ctx.RNG, ctx.toTarget(), marsJitterDeg)
	return dir.Scale(ctx.Self.Stats.Speed * multiplier)
}

// neptuneMove weaves a sinusoidal lateral offset onto the direct approach.
// The phase is seeded from the character id so several Neptune characters
// drift out of sync, and speed oscillates between 0.8x and 1.2x.
func neptuneMove(ctx *Context) geom.Vec2 {
	if ctx.Target == nil {
		return defaultMove(ctx)
	}
	self := ctx.Self
	phase := idPhase(self.ID)
	wave := math.Sin(phase + float64(ctx.Now.UnixMilli())/1000*neptuneWeaveFreq)
	dir := ctx.toTarget()
	weaved := dir.Add(dir.Perp().Scale(neptuneWeaveBlend * wave)).Normalize()
	speed := self.Stats.Speed * (1 + neptuneSpeedSwing*wave)
	return weaved.Scale(speed)
}

// mercuryMove re-plans every 300-700ms: inside 1.2x AOE it bolts away with a
// wide random spread, beyond it it darts in with a narrow spread, always at
// 1.2x base speed.
func mercuryMove(ctx *Context) geom.Vec2 {
	if ctx.Target == nil {
		return defaultMove(ctx)
	}
	self := ctx.Self
	if self.NextDecision.IsZero() || !ctx.Now.Before(self.NextDecision) {
		var heading geom.Vec2
		if ctx.targetDistance() < mercuryRetreatFactor*ctx.aoeSize() {
			heading = jitter(ctx.RNG, ctx.toTarget().Scale(-1), mercuryRetreatSpread)
		} else {
			heading = jitter(ctx.RNG, ctx.toTarget(), mercuryApproachSpread)
		}
		self.WanderAngle = heading.Angle()
		self.NextDecision = ctx.Now.Add(randomDuration(ctx.RNG, mercuryDecisionMin, mercuryDecisionMax))
	}
	return geom.FromAngle(self.WanderAngle).Scale(self.Stats.Speed * mercurySpeed)
}

// venusMove flees the crowd when more than two living enemies are inside 3x
// the AOE size, combining an escape vector away from all of them; otherwise
// it approaches the target. Either way the new velocity is blended into the
// old one so turns stay gradual.
func venusMove(ctx *Context) geom.Vec2 {
	if ctx.Target == nil {
		return defaultMove(ctx)
	}
	self := ctx.Self
	crowdRadius := venusCrowdFactor * ctx.aoeSize()
	escape := geom.Vec2{}
	crowded := 0
	for _, other := range ctx.Living {
		if other.ID == self.ID {
			continue
		}
		if geom.Distance(self.Position, other.Position) <= crowdRadius {
			crowded++
			escape = escape.Add(self.Position.Sub(other.Position).Normalize())
		}
	}
	var desired geom.Vec2
	if crowded > venusCrowdLimit && escape.Length() > 0 {
		desired = escape.Normalize().Scale(self.Stats.Speed)
	} else {
		desired = ctx.toTarget().Scale(self.Stats.Speed)
	}
	delta := desired.Sub(self.Velocity).Scale(venusBlend)
	return self.Velocity.Add(delta)
}

// solMove gravitates toward the arena center: hard center bias when more
// than 30% of the arena away from it, a 70/30 target/center blend while the
// target is distant, and a direct engage once the target is close. Always at
// 0.9x speed.
func solMove(ctx *Context) geom.Vec2 {
	if ctx.Target == nil {
		return defaultMove(ctx)
	}
	self := ctx.Self
	center := geom.Vec2{X: ctx.Arena.X / 2, Y: ctx.Arena.Y / 2}
	arenaSize := math.Min(ctx.Arena.X, ctx.Arena.Y)
	toCenter := center.Sub(self.Position)

	var dir geom.Vec2
	switch {
	case toCenter.Length() > solCenterFraction*arenaSize:
		dir = toCenter.Normalize()
	case ctx.targetDistance() > solEngageFactor*ctx.aoeSize():
		dir = ctx.toTarget().Scale(solTargetWeight).
			Add(toCenter.Normalize().Scale(solCenterWeight)).
			Normalize()
	default:
		dir = ctx.toTarget()
	}
	return dir.Scale(self.Stats.Speed * solSpeed)
}

func randomDuration(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Int63n(int64(max-min)))
}

// idPhase hashes a character id into a stable phase offset in [0, 2pi).
func idPhase(id string) float64 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return float64(h.Sum32()%3600) / 3600 * 2 * math.Pi
}
