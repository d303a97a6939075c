package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"astral-arena/server/internal/session"
)

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	h := newTestHub(t)
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, h
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := post(t, srv.URL+"/session/start", "{}")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status = %d", resp.StatusCode)
	}
	var started sessionResponse
	decode(t, resp, &started)
	if started.Phase != session.PhaseCharSelect || len(started.Candidates) != candidateCount {
		t.Fatalf("start response = %+v", started)
	}

	resp = post(t, srv.URL+"/session/select", `{"candidate": 0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select status = %d", resp.StatusCode)
	}
	var playing sessionResponse
	decode(t, resp, &playing)
	if playing.Phase != session.PhasePlaying || playing.Round != 1 {
		t.Errorf("select response = %+v", playing)
	}

	resp, err := http.Get(srv.URL + "/session")
	if err != nil {
		t.Fatalf("GET /session: %v", err)
	}
	var current sessionResponse
	decode(t, resp, &current)
	if current.Phase != session.PhasePlaying {
		t.Errorf("session view phase = %q", current.Phase)
	}
}

func TestSelectRejectsMalformedAndInvalidBodies(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := post(t, srv.URL+"/session/select", "{not json")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", resp.StatusCode)
	}

	resp = post(t, srv.URL+"/session/select", `{"candidate": 99}`)
	var failure errorResponse
	decode(t, resp, &failure)
	if resp.StatusCode != http.StatusBadRequest || failure.Error == "" {
		t.Errorf("invalid candidate: status=%d body=%+v", resp.StatusCode, failure)
	}
}

func TestPhaseGuardedRoutesConflict(t *testing.T) {
	srv, _ := newTestServer(t)
	post(t, srv.URL+"/session/select", `{"candidate": 0}`).Body.Close()

	for _, route := range []struct {
		path, body string
	}{
		{"/shop/reroll", "{}"},
		{"/shop/buy", `{"slot": 0}`},
		{"/inventory/use", `{"index": 0}`},
		{"/session/continue", "{}"},
		{"/session/score", `{"name": "ACE"}`},
	} {
		resp := post(t, srv.URL+route.path, route.body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("%s while playing: status = %d, want 409", route.path, resp.StatusCode)
		}
	}
}

func TestIntentRoute(t *testing.T) {
	srv, h := newTestServer(t)
	post(t, srv.URL+"/session/select", `{"candidate": 0}`).Body.Close()

	resp := post(t, srv.URL+"/player/intent", `{"x": 1, "y": 0}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("intent status = %d, want 204", resp.StatusCode)
	}
	if h.machine.Player().IntentX != 1 {
		t.Error("intent did not reach the player character")
	}
}

func TestLeaderboardRoute(t *testing.T) {
	srv, h := newTestServer(t)
	h.board.AddEntry("ACE", 25, nil)

	resp, err := http.Get(srv.URL + "/leaderboard")
	if err != nil {
		t.Fatalf("GET /leaderboard: %v", err)
	}
	var entries []session.Entry
	decode(t, resp, &entries)
	if len(entries) != 1 || entries[0].Name != "ACE" || entries[0].Score != 25 {
		t.Errorf("leaderboard = %+v", entries)
	}
}

func TestDiagnosticsRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/diagnostics")
	if err != nil {
		t.Fatalf("GET /diagnostics: %v", err)
	}
	var diag diagnosticsResponse
	decode(t, resp, &diag)
	if diag.TickRate != tickRate {
		t.Errorf("diagnostics = %+v", diag)
	}
}
