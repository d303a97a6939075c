// Package simulation carries the typed tick-loop health events.
package simulation

import (
	"context"

	"astral-arena/server/logging"
)

const (
	// EventFrameSkipped is emitted when a frame exceeds the degenerate
	// threshold and its dt is discarded.
	EventFrameSkipped logging.EventType = "simulation.frame_skipped"
	// EventSystemRecovered is emitted when a per-tick system panics and the
	// loop continues without it for that tick.
	EventSystemRecovered logging.EventType = "simulation.system_recovered"
)

// FrameSkippedPayload records the oversized frame.
type FrameSkippedPayload struct {
	DTMillis float64 `json:"dtMillis"`
	Limit    float64 `json:"limitMillis"`
}

// SystemRecoveredPayload records which system failed.
type SystemRecoveredPayload struct {
	System string `json:"system"`
	Panic  string `json:"panic"`
}

// FrameSkipped publishes a frame skip warning.
func FrameSkipped(ctx context.Context, pub logging.Publisher, tick uint64, round int, payload FrameSkippedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventFrameSkipped,
		Tick:     tick,
		Round:    round,
		Actor:    logging.EntityRef{Kind: logging.EntityKindSystem},
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}

// SystemRecovered publishes a panic recovery error event.
func SystemRecovered(ctx context.Context, pub logging.Publisher, tick uint64, round int, payload SystemRecoveredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSystemRecovered,
		Tick:     tick,
		Round:    round,
		Actor:    logging.EntityRef{Kind: logging.EntityKindSystem},
		Severity: logging.SeverityError,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}
