package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"kriegsspiel/engine"
	"kriegsspiel/game"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// server exposes one running battle over HTTP: state snapshots, legal-action
// queries and action submission for the manual team, plus a websocket stream
// of resolved actions for renderers. The engine is not safe for concurrent
// use; the mutex serializes every access.
type server struct {
	mu     sync.Mutex
	engine *engine.Engine

	upgrader websocket.Upgrader
	clientMu sync.Mutex
	clients  map[*websocket.Conn]bool
}

func newServer(e *engine.Engine) *server {
	return &server{
		engine:   e,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  map[*websocket.Conn]bool{},
	}
}

// start plays any leading AI turns so the first mover in the configured turn
// order acts before the first request arrives.
func (s *server) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runAgentTurns()
}

func (s *server) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/units/{id:[0-9]+}/moves", s.handleMoves).Methods(http.MethodGet)
	r.HandleFunc("/api/units/{id:[0-9]+}/targets", s.handleTargets).Methods(http.MethodGet)
	r.HandleFunc("/api/actions", s.handleAction).Methods(http.MethodPost)
	r.HandleFunc("/api/turn/end", s.handleEndTurn).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleWS)
	return r
}

// cellView mirrors a board cell in responses and requests.
type cellView struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type unitView struct {
	ID       int      `json:"id"`
	Team     string   `json:"team"`
	Type     string   `json:"type"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"max_hp"`
	Armor    int      `json:"armor"`
	Attack   int      `json:"attack"`
	Range    int      `json:"range"`
	Movement int      `json:"movement"`
	Pos      cellView `json:"pos"`
	State    string   `json:"state"`
}

type stateView struct {
	Tiles      []string   `json:"tiles"`
	Units      []unitView `json:"units"`
	ActiveTeam string     `json:"active_team"`
	Turn       int        `json:"turn"`
	Outcome    string     `json:"outcome"`
}

// terrainChar uses the same characters as map layout files.
func terrainChar(t game.Terrain) byte {
	switch t {
	case game.Hills:
		return 'h'
	case game.Water:
		return 'w'
	case game.Mountain:
		return 'm'
	default:
		return '.'
	}
}

func snapshot(st *game.BattleState) stateView {
	tiles := make([]string, st.Grid.Rows())
	for r := 0; r < st.Grid.Rows(); r++ {
		row := make([]byte, st.Grid.Cols())
		for c := 0; c < st.Grid.Cols(); c++ {
			row[c] = terrainChar(st.Grid.TerrainAt(game.Cell{Row: r, Col: c}))
		}
		tiles[r] = string(row)
	}
	units := make([]unitView, len(st.Units))
	for i, u := range st.Units {
		units[i] = unitView{
			ID:       u.ID,
			Team:     u.Team.String(),
			Type:     u.Type.String(),
			HP:       u.HP,
			MaxHP:    u.Stats.MaxHP,
			Armor:    u.Stats.Armor,
			Attack:   u.Stats.Attack,
			Range:    u.Stats.Range,
			Movement: u.Stats.Movement,
			Pos:      cellView{Row: u.Pos.Row, Col: u.Pos.Col},
			State:    u.State.String(),
		}
	}
	return stateView{
		Tiles:      tiles,
		Units:      units,
		ActiveTeam: st.ActiveTeam.String(),
		Turn:       st.Turn,
		Outcome:    st.Outcome.String(),
	}
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.engine.State()
	s.mu.Unlock()
	writeJSON(w, snapshot(st))
}

func (s *server) handleMoves(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s.mu.Lock()
	st := s.engine.State()
	s.mu.Unlock()

	unit := st.UnitByID(id)
	if unit == nil {
		writeError(w, http.StatusNotFound, "no such unit")
		return
	}
	cells := []cellView{}
	for _, c := range st.LegalMoveCells(unit) {
		cells = append(cells, cellView{Row: c.Row, Col: c.Col})
	}
	writeJSON(w, cells)
}

func (s *server) handleTargets(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s.mu.Lock()
	st := s.engine.State()
	s.mu.Unlock()

	unit := st.UnitByID(id)
	if unit == nil {
		writeError(w, http.StatusNotFound, "no such unit")
		return
	}
	targets := st.LegalAttackTargets(unit)
	if targets == nil {
		targets = []int{}
	}
	writeJSON(w, targets)
}

// actionRequest carries one submitted action. Type selects which of the
// remaining fields apply.
type actionRequest struct {
	Type   string    `json:"type"` // "move", "attack" or "pass"
	Unit   int       `json:"unit"`
	To     *cellView `json:"to,omitempty"`
	Target int       `json:"target,omitempty"`
}

type resultView struct {
	DamageDealt      int  `json:"damage_dealt"`
	RetaliationDealt int  `json:"retaliation_dealt"`
	DefenderDied     bool `json:"defender_died"`
	AttackerDied     bool `json:"attacker_died"`
}

func viewResult(r game.ActionResult) resultView {
	return resultView{
		DamageDealt:      r.DamageDealt,
		RetaliationDealt: r.RetaliationDealt,
		DefenderDied:     r.DefenderDied,
		AttackerDied:     r.AttackerDied,
	}
}

type actionResponse struct {
	Result resultView `json:"result"`
	State  stateView  `json:"state"`
}

func (s *server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	var action game.Move
	switch req.Type {
	case "move":
		if req.To == nil {
			writeError(w, http.StatusBadRequest, "move needs a destination")
			return
		}
		action = game.MoveAction{UnitID: req.Unit, To: game.Cell{Row: req.To.Row, Col: req.To.Col}}
	case "attack":
		action = game.AttackAction{UnitID: req.Unit, TargetID: req.Target}
	case "pass":
		action = game.PassAction{UnitID: req.Unit}
	default:
		writeError(w, http.StatusBadRequest, "unknown action type "+req.Type)
		return
	}

	s.mu.Lock()
	update, err := s.engine.Apply(action)
	if err == nil {
		s.runAgentTurns()
	}
	st := s.engine.State()
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, game.ErrIllegalAction) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, actionResponse{Result: viewResult(update.Result), State: snapshot(st)})
}

func (s *server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.engine.EndTurn()
	s.runAgentTurns()
	st := s.engine.State()
	s.mu.Unlock()
	writeJSON(w, snapshot(st))
}

// runAgentTurns plays every consecutive AI-controlled turn until control is
// back with a manual team or the battle ends. Callers hold the mutex.
func (s *server) runAgentTurns() {
	for s.engine.State().Outcome == game.InProgress {
		if err := s.engine.PlayTurn(); err != nil {
			return // manual team to act
		}
	}
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.clientMu.Lock()
	s.clients[conn] = true
	s.clientMu.Unlock()
	log.Info().Str("remote", r.RemoteAddr).Msg("websocket client connected")

	// Drain incoming messages to detect disconnects.
	go func() {
		defer func() {
			s.clientMu.Lock()
			delete(s.clients, conn)
			s.clientMu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// updateView is one resolved action pushed to websocket clients.
type updateView struct {
	Action string     `json:"action"`
	Result resultView `json:"result"`
	State  stateView  `json:"state"`
}

// broadcast pushes a resolved action to every connected client. Registered as
// an engine observer.
func (s *server) broadcast(u engine.Update) {
	view := updateView{Action: fmt.Sprint(u.Action), Result: viewResult(u.Result), State: snapshot(u.State)}
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteJSON(view); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg, "status": code})
}
