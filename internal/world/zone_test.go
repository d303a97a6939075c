package world

import (
	"testing"
	"time"

	"astral-arena/server/internal/geom"
)

func TestZoneLifecycle(t *testing.T) {
	start := time.Now()
	center := geom.Vec2{X: 400, Y: 300}
	zone := NewZone(center, 500, 100, start, 15*time.Second, 60*time.Second)

	if zone.Active(start.Add(14 * time.Second)) {
		t.Error("zone should be dormant before the activation delay")
	}
	if !zone.Active(start.Add(15 * time.Second)) {
		t.Error("zone should be active once the delay elapses")
	}

	activated := start.Add(15 * time.Second)
	if got := zone.RadiusAt(activated); got != 500 {
		t.Errorf("radius at activation = %v, want 500", got)
	}
	if got := zone.RadiusAt(activated.Add(30 * time.Second)); got != 300 {
		t.Errorf("radius at half shrink = %v, want 300", got)
	}
	if got := zone.RadiusAt(activated.Add(61 * time.Second)); got != 100 {
		t.Errorf("radius after shrink = %v, want the minimum 100", got)
	}
}

func TestZoneContains(t *testing.T) {
	start := time.Now()
	center := geom.Vec2{X: 400, Y: 300}
	zone := NewZone(center, 200, 50, start, 0, time.Minute)

	inside := geom.Vec2{X: 400, Y: 150}
	outside := geom.Vec2{X: 400, Y: 90}
	if !zone.Contains(inside, start) {
		t.Error("point within the initial radius should be inside")
	}
	if zone.Contains(outside, start) {
		t.Error("point beyond the initial radius should be outside")
	}
	// Before activation everything counts as inside.
	delayed := NewZone(center, 200, 50, start, time.Hour, time.Minute)
	if !delayed.Contains(outside, start) {
		t.Error("a dormant zone should not constrain anyone")
	}
}
