package world

import (
	"time"

	"astral-arena/server/internal/geom"
)

// Zone is the shrinking circular safe area. Characters outside the current
// radius are pushed back toward the center by the AI controller and get their
// wander direction re-aimed inward.
type Zone struct {
	Center        geom.Vec2
	InitialRadius float64
	MinRadius     float64

	activatesAt time.Time
	shrinkFor   time.Duration
}

// NewZone schedules a zone for a round that started at startedAt: dormant for
// the activation delay, then shrinking linearly from the initial to the
// minimum radius over the shrink duration.
func NewZone(center geom.Vec2, initial, min float64, startedAt time.Time, activationDelay, shrinkDuration time.Duration) *Zone {
	if min > initial {
		min = initial
	}
	return &Zone{
		Center:        center,
		InitialRadius: initial,
		MinRadius:     min,
		activatesAt:   startedAt.Add(activationDelay),
		shrinkFor:     shrinkDuration,
	}
}

// Active reports whether the zone constrains movement yet.
func (z *Zone) Active(now time.Time) bool {
	return z != nil && !now.Before(z.activatesAt)
}

// RadiusAt returns the current safe radius.
func (z *Zone) RadiusAt(now time.Time) float64 {
	if z == nil || now.Before(z.activatesAt) {
		return z.InitialRadius
	}
	elapsed := now.Sub(z.activatesAt)
	if elapsed >= z.shrinkFor {
		return z.MinRadius
	}
	progress := float64(elapsed) / float64(z.shrinkFor)
	return z.InitialRadius - (z.InitialRadius-z.MinRadius)*progress
}

// Contains reports whether the position is inside the current safe radius.
func (z *Zone) Contains(position geom.Vec2, now time.Time) bool {
	if !z.Active(now) {
		return true
	}
	radius := z.RadiusAt(now)
	return geom.DistanceSq(position, z.Center) <= radius*radius
}
