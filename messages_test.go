package server

import (
	"encoding/json"
	"testing"

	"astral-arena/server/internal/element"
	"astral-arena/server/internal/geom"
	"astral-arena/server/internal/session"
	"astral-arena/server/internal/state"
)

func TestViewOfProjectsTheWireFields(t *testing.T) {
	c := &state.Character{
		ID:        "c1",
		Emoji:     "🦊",
		Color:     "#ff8800",
		Position:  geom.Vec2{X: 120, Y: 240},
		CurrentHP: 42,
		Stats:     state.Stats{HP: 100, Element: element.Fire},
		House:     state.HouseMars,
		Level:     3,
		IsPlayer:  true,
	}
	view := viewOf(c)
	if view.ID != "c1" || view.X != 120 || view.Y != 240 {
		t.Errorf("view = %+v", view)
	}
	if view.HP != 42 || view.MaxHP != 100 {
		t.Errorf("health projection = %v/%v, want 42/100", view.HP, view.MaxHP)
	}
	if view.Element != "fire" || view.House != "mars" || view.Level != 3 || !view.IsPlayer {
		t.Errorf("identity projection wrong: %+v", view)
	}
}

func TestStateMessageWireShape(t *testing.T) {
	msg := stateMessage{
		Type:       "state",
		Phase:      session.PhasePlaying,
		Round:      2,
		Tick:       99,
		ServerTime: 12345,
		Characters: []characterView{{ID: "c1"}},
		Events:     []tickEvent{{Type: "hit", Data: map[string]any{"damage": 3}}},
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decoding: %v", err)
	}

	// Clients key on these exact names.
	for _, key := range []string{"type", "phase", "round", "t", "characters", "events", "serverTime"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("payload is missing %q: %v", key, payload)
		}
	}
	if payload["t"].(float64) != 99 {
		t.Errorf("tick field = %v, want 99", payload["t"])
	}
	if _, ok := payload["zone"]; ok {
		t.Error("nil zone must be omitted from the payload")
	}
}
