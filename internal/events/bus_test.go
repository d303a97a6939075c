package events

import (
	"reflect"
	"testing"
)

func TestPublishDeliversInRegistrationOrder(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.Subscribe(KindDeath, func(Event) { order = append(order, "first") })
	bus.Subscribe(KindDeath, func(Event) { order = append(order, "second") })
	bus.SubscribeAll(func(Event) { order = append(order, "catch-all") })

	bus.Publish(Death{CharacterID: "c1", Place: 1})

	want := []string{"first", "second", "catch-all"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("delivery order = %v, want %v", order, want)
	}
}

func TestPublishRoutesByKind(t *testing.T) {
	bus := NewBus()
	deaths, kills := 0, 0
	bus.Subscribe(KindDeath, func(Event) { deaths++ })
	bus.Subscribe(KindKill, func(Event) { kills++ })

	bus.Publish(Death{CharacterID: "c1"})
	bus.Publish(Death{CharacterID: "c2"})
	bus.Publish(Kill{KillerID: "p", VictimID: "c2", ScoreBonus: 10})

	if deaths != 2 || kills != 1 {
		t.Errorf("deaths=%d kills=%d, want 2 and 1", deaths, kills)
	}
}

func TestCatchAllSeesEveryKind(t *testing.T) {
	bus := NewBus()
	var kinds []Kind
	bus.SubscribeAll(func(event Event) { kinds = append(kinds, event.Kind()) })

	bus.Publish(Swing{AttackerID: "a"})
	bus.Publish(Hit{AttackerID: "a", TargetID: "b"})
	bus.Publish(RoundEnded{Round: 1, Place: 2, Score: 3})

	want := []Kind{KindSwing, KindHit, KindRoundEnded}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("observed kinds = %v, want %v", kinds, want)
	}
}

func TestPublishIsSynchronous(t *testing.T) {
	bus := NewBus()
	seen := false
	bus.Subscribe(KindSwing, func(Event) { seen = true })

	bus.Publish(Swing{AttackerID: "a"})
	if !seen {
		t.Error("handlers must run inline before Publish returns")
	}
}

func TestNilSafety(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(KindSwing, nil)
	bus.SubscribeAll(nil)
	bus.Publish(nil)
	bus.Publish(Swing{AttackerID: "a"}) // no registered handlers, must not panic

	var nilBus *Bus
	nilBus.Publish(Swing{AttackerID: "a"})
}
