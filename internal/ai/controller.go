// Package ai owns per-tick targeting and motion for every living character.
// Movement dispatch is a strategy table keyed by planetary house; collision
// response runs as a single pairwise pass after all characters have moved.
package ai

import (
	"math"
	"math/rand"
	"time"

	"astral-arena/server/internal/geom"
	"astral-arena/server/internal/state"
	"astral-arena/server/internal/world"
)

// Controller drives movement for the combatants in a store.
type Controller struct {
	arena         geom.Vec2
	characterSize float64
	zonePushSpeed float64
	rng           *rand.Rand
	movers        map[state.House]MoveFunc
}

func NewController(arena geom.Vec2, characterSize, zonePushSpeed float64, rng *rand.Rand) *Controller {
	return &Controller{
		arena:         arena,
		characterSize: characterSize,
		zonePushSpeed: zonePushSpeed,
		rng:           rng,
		movers:        movers(),
	}
}

// Tick advances targeting, movement decisions, integration, arena bounds,
// zone push-back, and the collision pass, in that order. The zone may be nil.
func (c *Controller) Tick(store *world.Store, zone *world.Zone, dt float64, now time.Time) {
	living := store.Living()

	// Targeting happens for every living character every tick with no
	// hysteresis: a nearer enemy replaces the previous target immediately.
	for _, character := range living {
		target := nearestEnemy(character, living)
		if target != nil {
			character.TargetID = target.ID
		} else {
			character.TargetID = ""
		}

		if character.IsPlayer {
			character.Velocity = playerVelocity(character)
			continue
		}

		ctx := &Context{
			Self:   character,
			Target: target,
			Living: living,
			Arena:  c.arena,
			DT:     dt,
			Now:    now,
			RNG:    c.rng,
		}
		mover := c.movers[character.House]
		if mover == nil || target == nil {
			character.Velocity = defaultMove(ctx)
		} else {
			character.Velocity = mover(ctx)
		}
	}

	for _, character := range living {
		character.Position = character.Position.Add(character.Velocity.Scale(dt))
		c.bounceOffWalls(character)
		c.applyZone(character, zone, dt, now)
	}

	c.resolveCollisions(living)
}

// nearestEnemy picks the closest living non-self character by squared
// distance.
func nearestEnemy(self *state.Character, living []*state.Character) *state.Character {
	var best *state.Character
	bestDistSq := math.MaxFloat64
	for _, other := range living {
		if other.ID == self.ID {
			continue
		}
		distSq := geom.DistanceSq(self.Position, other.Position)
		if distSq < bestDistSq {
			bestDistSq = distSq
			best = other
		}
	}
	return best
}

// playerVelocity converts the human intent vector into motion at the
// character's own speed.
func playerVelocity(player *state.Character) geom.Vec2 {
	intent := geom.Vec2{X: player.IntentX, Y: player.IntentY}
	if intent.LengthSq() == 0 {
		return geom.Vec2{}
	}
	return intent.Normalize().Scale(player.Stats.Speed)
}

// bounceOffWalls clamps the position to the arena and softly reflects the
// velocity component pointing out of bounds, flipping the wander angle so
// timer-locked houses do not grind against the wall until their next
// decision.
func (c *Controller) bounceOffWalls(character *state.Character) {
	half := c.characterSize / 2

	if character.Position.X < half {
		character.Position.X = half
		character.Velocity.X = -character.Velocity.X
		character.WanderAngle = math.Pi - character.WanderAngle
	} else if character.Position.X > c.arena.X-half {
		character.Position.X = c.arena.X - half
		character.Velocity.X = -character.Velocity.X
		character.WanderAngle = math.Pi - character.WanderAngle
	}

	if character.Position.Y < half {
		character.Position.Y = half
		character.Velocity.Y = -character.Velocity.Y
		character.WanderAngle = -character.WanderAngle
	} else if character.Position.Y > c.arena.Y-half {
		character.Position.Y = c.arena.Y - half
		character.Velocity.Y = -character.Velocity.Y
		character.WanderAngle = -character.WanderAngle
	}
}

// applyZone pushes characters caught outside the shrinking safe zone back
// toward its center and re-aims their wander direction inward.
func (c *Controller) applyZone(character *state.Character, zone *world.Zone, dt float64, now time.Time) {
	if zone == nil || !zone.Active(now) || zone.Contains(character.Position, now) {
		return
	}
	inward := zone.Center.Sub(character.Position).Normalize()
	character.Position = character.Position.Add(inward.Scale(c.zonePushSpeed * dt))
	character.WanderAngle = inward.Angle()
}

// resolveCollisions runs the O(n^2) circle-overlap pass once per tick after
// all movement, pushing both parties apart by half the overlap along the
// separation normal.
func (c *Controller) resolveCollisions(living []*state.Character) {
	minDist := c.characterSize
	for i := 0; i < len(living); i++ {
		for j := i + 1; j < len(living); j++ {
			a, b := living[i], living[j]
			delta := b.Position.Sub(a.Position)
			dist := delta.Length()
			if dist >= minDist {
				continue
			}
			var normal geom.Vec2
			if dist == 0 {
				normal = geom.Vec2{X: 1, Y: 0}
				dist = 1
			} else {
				normal = delta.Scale(1 / dist)
			}
			push := (minDist - dist) / 2
			a.Position = a.Position.Sub(normal.Scale(push))
			b.Position = b.Position.Add(normal.Scale(push))

			a.Position.X = geom.Clamp(a.Position.X, c.characterSize/2, c.arena.X-c.characterSize/2)
			a.Position.Y = geom.Clamp(a.Position.Y, c.characterSize/2, c.arena.Y-c.characterSize/2)
			b.Position.X = geom.Clamp(b.Position.X, c.characterSize/2, c.arena.X-c.characterSize/2)
			b.Position.Y = geom.Clamp(b.Position.Y, c.characterSize/2, c.arena.Y-c.characterSize/2)
		}
	}
}
