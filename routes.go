package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Local tooling and the dev client connect from arbitrary origins.
		return true
	},
}

// NewRouter wires the HTTP command surface around a hub. Every mutating
// route delegates to a hub method that serializes through the hub mutex, so
// handlers never touch simulation state directly.
func NewRouter(h *Hub) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/diagnostics", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.Diagnostics())
	}).Methods(http.MethodGet)

	r.HandleFunc("/session", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.Session())
	}).Methods(http.MethodGet)

	r.HandleFunc("/session/start", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.StartSession())
	}).Methods(http.MethodPost)

	r.HandleFunc("/session/select", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Candidate *int   `json:"candidate"`
			Starter   string `json:"starter"`
		}
		if !decodeBody(w, req, &body) {
			return
		}
		candidate := -1
		if body.Candidate != nil {
			candidate = *body.Candidate
		}
		resp, err := h.Select(candidate, body.Starter)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}).Methods(http.MethodPost)

	r.HandleFunc("/session/continue", func(w http.ResponseWriter, _ *http.Request) {
		resp, err := h.Continue()
		if err != nil {
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}).Methods(http.MethodPost)

	r.HandleFunc("/session/score", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if !decodeBody(w, req, &body) {
			return
		}
		entry, err := h.SubmitScore(body.Name)
		if err != nil {
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}).Methods(http.MethodPost)

	r.HandleFunc("/shop/reroll", func(w http.ResponseWriter, _ *http.Request) {
		resp, err := h.Reroll()
		if err != nil {
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}).Methods(http.MethodPost)

	r.HandleFunc("/shop/buy", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Slot int `json:"slot"`
		}
		if !decodeBody(w, req, &body) {
			return
		}
		resp, err := h.Buy(body.Slot)
		if err != nil {
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}).Methods(http.MethodPost)

	r.HandleFunc("/inventory/use", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Index int `json:"index"`
		}
		if !decodeBody(w, req, &body) {
			return
		}
		resp, err := h.UseItem(body.Index)
		if err != nil {
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}).Methods(http.MethodPost)

	r.HandleFunc("/player/intent", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		}
		if !decodeBody(w, req, &body) {
			return
		}
		h.UpdateIntent(body.X, body.Y)
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodPost)

	r.HandleFunc("/leaderboard", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.Leaderboard())
	}).Methods(http.MethodGet)

	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		sub := h.Subscribe(conn)
		// The feed is one-way. The read loop only drains control frames and
		// detects the close.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					h.Unsubscribe(sub, err.Error())
					return
				}
			}
		}()
	}).Methods(http.MethodGet)

	return r
}

func decodeBody(w http.ResponseWriter, req *http.Request, out any) bool {
	if err := json.NewDecoder(req.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already out; nothing useful left to do.
		return
	}
}
