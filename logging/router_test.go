package logging_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"astral-arena/server/logging"
	"astral-arena/server/logging/sinks"
)

func closeRouter(t *testing.T, r *logging.Router) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Close(ctx); err != nil {
		t.Fatalf("closing the router: %v", err)
	}
}

func TestRouterDeliversToEverySink(t *testing.T) {
	memA := sinks.NewMemorySink()
	memB := sinks.NewMemorySink()
	router := logging.NewRouter(nil, logging.Config{BufferSize: 8}, []logging.NamedSink{
		{Name: "a", Sink: memA},
		{Name: "b", Sink: memB},
	})

	router.Publish(context.Background(), logging.Event{
		Type:     "combat.hit",
		Tick:     7,
		Round:    2,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
	})
	closeRouter(t, router)

	for name, sink := range map[string]*sinks.MemorySink{"a": memA, "b": memB} {
		events := sink.Events()
		if len(events) != 1 {
			t.Fatalf("sink %s received %d events, want 1", name, len(events))
		}
		event := events[0]
		if event.Type != "combat.hit" || event.Tick != 7 || event.Round != 2 {
			t.Errorf("sink %s event = %+v", name, event)
		}
		if event.Time.IsZero() {
			t.Errorf("sink %s event is missing its timestamp", name)
		}
	}
	if stats := router.Stats(); stats.EventsTotal != 1 || stats.DroppedTotal != 0 {
		t.Errorf("stats = %+v, want 1 event and no drops", stats)
	}
}

func TestRouterSeverityFilter(t *testing.T) {
	mem := sinks.NewMemorySink()
	router := logging.NewRouter(nil, logging.Config{
		BufferSize:      8,
		MinimumSeverity: logging.SeverityWarn,
	}, []logging.NamedSink{{Name: "memory", Sink: mem}})

	router.Publish(context.Background(), logging.Event{Type: "combat.swing", Severity: logging.SeverityDebug})
	router.Publish(context.Background(), logging.Event{Type: "lifecycle.round-started", Severity: logging.SeverityInfo})
	router.Publish(context.Background(), logging.Event{Type: "simulation.frame-skipped", Severity: logging.SeverityWarn})
	closeRouter(t, router)

	events := mem.Events()
	if len(events) != 1 || events[0].Type != "simulation.frame-skipped" {
		t.Errorf("filtered events = %+v, want only the warning", events)
	}
}

func TestRouterMergesGlobalFields(t *testing.T) {
	mem := sinks.NewMemorySink()
	router := logging.NewRouter(nil, logging.Config{
		BufferSize: 8,
		Fields:     map[string]any{"service": "arena", "node": "test"},
	}, []logging.NamedSink{{Name: "memory", Sink: mem}})

	router.Publish(context.Background(), logging.Event{
		Type:  "economy.purchase",
		Extra: map[string]any{"service": "override-wins"},
	})
	closeRouter(t, router)

	events := mem.Events()
	if len(events) != 1 {
		t.Fatalf("received %d events, want 1", len(events))
	}
	extra := events[0].Extra
	if extra["service"] != "override-wins" {
		t.Errorf("event-level field was overwritten: %v", extra["service"])
	}
	if extra["node"] != "test" {
		t.Errorf("global field missing: %v", extra)
	}
}

// blockingSink parks its first write until released so tests can fill the
// queue deterministically.
type blockingSink struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once

	mu     sync.Mutex
	writes int
}

func newBlockingSink() *blockingSink {
	return &blockingSink{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *blockingSink) Write(logging.Event) error {
	s.once.Do(func() {
		close(s.started)
		<-s.release
	})
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return nil
}

func (s *blockingSink) Close(context.Context) error { return nil }

func TestRouterDropsWhenTheQueueIsFull(t *testing.T) {
	sink := newBlockingSink()
	router := logging.NewRouter(nil, logging.Config{BufferSize: 1},
		[]logging.NamedSink{{Name: "slow", Sink: sink}})

	// First event occupies the dispatcher inside the blocked write.
	router.Publish(context.Background(), logging.Event{Type: "one"})
	<-sink.started
	// Second event fills the single queue slot; the third must drop.
	router.Publish(context.Background(), logging.Event{Type: "two"})
	router.Publish(context.Background(), logging.Event{Type: "three"})

	if stats := router.Stats(); stats.DroppedTotal != 1 {
		t.Errorf("dropped = %d, want 1", stats.DroppedTotal)
	}

	close(sink.release)
	closeRouter(t, router)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.writes != 2 {
		t.Errorf("sink writes = %d, want the two undropped events", sink.writes)
	}
}

func TestPublishAfterCloseIsIgnored(t *testing.T) {
	mem := sinks.NewMemorySink()
	router := logging.NewRouter(nil, logging.Config{BufferSize: 8},
		[]logging.NamedSink{{Name: "memory", Sink: mem}})
	closeRouter(t, router)

	router.Publish(context.Background(), logging.Event{Type: "late"})
	if got := mem.Events(); len(got) != 0 {
		t.Errorf("closed router still delivered: %+v", got)
	}
}

// failingSink always errors; the router must keep serving other sinks.
type failingSink struct{}

func (failingSink) Write(logging.Event) error   { return errors.New("disk on fire") }
func (failingSink) Close(context.Context) error { return nil }

func TestRouterSurvivesSinkWriteErrors(t *testing.T) {
	mem := sinks.NewMemorySink()
	router := logging.NewRouter(nil, logging.Config{BufferSize: 8}, []logging.NamedSink{
		{Name: "broken", Sink: failingSink{}},
		{Name: "memory", Sink: mem},
	})

	for i := 0; i < 3; i++ {
		router.Publish(context.Background(), logging.Event{Type: "combat.swing"})
	}
	closeRouter(t, router)

	if got := len(mem.Events()); got != 3 {
		t.Errorf("healthy sink received %d events, want 3", got)
	}
}

func TestRouterSinkLookup(t *testing.T) {
	mem := sinks.NewMemorySink()
	router := logging.NewRouter(nil, logging.Config{BufferSize: 8},
		[]logging.NamedSink{{Name: "memory", Sink: mem}})
	defer closeRouter(t, router)

	if router.Sink("memory") == nil {
		t.Error("registered sink not found by name")
	}
	if router.Sink("nope") != nil {
		t.Error("unknown sink name should return nil")
	}
}

func TestBoundedMemorySinkKeepsTheTail(t *testing.T) {
	mem := sinks.NewBoundedMemorySink(2)
	for _, typ := range []logging.EventType{"one", "two", "three"} {
		if err := mem.Write(logging.Event{Type: typ}); err != nil {
			t.Fatalf("writing: %v", err)
		}
	}
	events := mem.Events()
	if len(events) != 2 || events[0].Type != "two" || events[1].Type != "three" {
		t.Errorf("bounded sink retained %+v, want the two most recent", events)
	}
}

func TestWithFieldsDoesNotOverrideEventFields(t *testing.T) {
	var captured logging.Event
	pub := logging.WithFields(logging.PublisherFunc(func(_ context.Context, event logging.Event) {
		captured = event
	}), map[string]any{"session": "s1", "build": "dev"})

	pub.Publish(context.Background(), logging.Event{
		Type:  "lifecycle.session-started",
		Extra: map[string]any{"session": "event-owned"},
	})

	if captured.Extra["session"] != "event-owned" {
		t.Errorf("event field overridden: %v", captured.Extra["session"])
	}
	if captured.Extra["build"] != "dev" {
		t.Errorf("wrapper field missing: %v", captured.Extra)
	}
}
