// Package lifecycle carries the typed session and connection log events.
package lifecycle

import (
	"context"

	"astral-arena/server/logging"
)

const (
	// EventSessionStarted is emitted when character selection completes.
	EventSessionStarted logging.EventType = "lifecycle.session_started"
	// EventRoundStarted is emitted when combat begins.
	EventRoundStarted logging.EventType = "lifecycle.round_started"
	// EventRoundEnded is emitted when the living count reaches one or less.
	EventRoundEnded logging.EventType = "lifecycle.round_ended"
	// EventGameOver is emitted when the match concludes.
	EventGameOver logging.EventType = "lifecycle.game_over"
	// EventClientConnected is emitted when a render client attaches.
	EventClientConnected logging.EventType = "lifecycle.client_connected"
	// EventClientDisconnected is emitted when a render client detaches.
	EventClientDisconnected logging.EventType = "lifecycle.client_disconnected"
)

// SessionStartedPayload captures the chosen character.
type SessionStartedPayload struct {
	Character string `json:"character"`
	House     string `json:"house,omitempty"`
	Element   string `json:"element,omitempty"`
}

// RoundEndedPayload captures the player's result for the round.
type RoundEndedPayload struct {
	Place int `json:"place"`
	Score int `json:"score"`
	Gold  int `json:"gold"`
}

// GameOverPayload captures the final standing across all rounds.
type GameOverPayload struct {
	TotalScore int  `json:"totalScore"`
	Won        bool `json:"won"`
}

// DisconnectPayload captures why a client left.
type DisconnectPayload struct {
	Reason string `json:"reason,omitempty"`
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	event.Severity = logging.SeverityInfo
	event.Category = logging.CategoryLifecycle
	pub.Publish(ctx, event)
}

func SessionStarted(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload SessionStartedPayload) {
	publish(ctx, pub, logging.Event{Type: EventSessionStarted, Actor: actor, Payload: payload})
}

func RoundStarted(ctx context.Context, pub logging.Publisher, round int, actor logging.EntityRef) {
	publish(ctx, pub, logging.Event{Type: EventRoundStarted, Round: round, Actor: actor})
}

func RoundEnded(ctx context.Context, pub logging.Publisher, round int, actor logging.EntityRef, payload RoundEndedPayload) {
	publish(ctx, pub, logging.Event{Type: EventRoundEnded, Round: round, Actor: actor, Payload: payload})
}

func GameOver(ctx context.Context, pub logging.Publisher, round int, actor logging.EntityRef, payload GameOverPayload) {
	publish(ctx, pub, logging.Event{Type: EventGameOver, Round: round, Actor: actor, Payload: payload})
}

func ClientConnected(ctx context.Context, pub logging.Publisher, actor logging.EntityRef) {
	publish(ctx, pub, logging.Event{Type: EventClientConnected, Actor: actor})
}

func ClientDisconnected(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload DisconnectPayload) {
	publish(ctx, pub, logging.Event{Type: EventClientDisconnected, Actor: actor, Payload: payload})
}
