package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sort"
)

// Outcome is the terminal status of a battle.
type Outcome int

const (
	InProgress Outcome = iota
	Team1Win
	Team2Win
	Draw
)

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in progress"
	case Team1Win:
		return "team1"
	case Team2Win:
		return "team2"
	case Draw:
		return DrawnGame
	default:
		return "unknown"
	}
}

// MaxRounds bounds every battle: once the round counter passes it the battle
// is scored a draw. Rollouts rely on this to terminate.
const MaxRounds = 200

// BattleState is the complete snapshot of an in-progress battle: the shared
// immutable grid, the living units of both teams, the active team and the
// round counter. Collaborators read its fields but transition it only through
// ApplyAction and EndTurn, which return fresh copies.
type BattleState struct {
	Grid       *Grid
	Units      []*Unit // living units of both teams, ascending ID
	ActiveTeam Team
	Turn       int
	Outcome    Outcome
}

// NewBattleState validates the starting armies and builds the initial state
// with team 1 to act on round 1.
func NewBattleState(grid *Grid, units []*Unit) (*BattleState, error) {
	if grid == nil {
		return nil, fmt.Errorf("battle needs a grid")
	}
	occupied := map[Cell]int{}
	counts := map[Team]int{}
	ids := map[int]bool{}
	for _, u := range units {
		if !u.Alive() {
			return nil, fmt.Errorf("unit %d starts dead", u.ID)
		}
		if !grid.InBounds(u.Pos) {
			return nil, fmt.Errorf("unit %d starts out of bounds at (%d,%d)", u.ID, u.Pos.Row, u.Pos.Col)
		}
		if !grid.TerrainAt(u.Pos).Passable() {
			return nil, fmt.Errorf("unit %d starts on impassable terrain", u.ID)
		}
		if other, taken := occupied[u.Pos]; taken {
			return nil, fmt.Errorf("units %d and %d share cell (%d,%d)", other, u.ID, u.Pos.Row, u.Pos.Col)
		}
		if ids[u.ID] {
			return nil, fmt.Errorf("duplicate unit ID %d", u.ID)
		}
		occupied[u.Pos] = u.ID
		ids[u.ID] = true
		counts[u.Team]++
	}
	if counts[Team1] == 0 || counts[Team2] == 0 {
		return nil, fmt.Errorf("both teams need at least one unit")
	}

	s := &BattleState{
		Grid:       grid,
		Units:      make([]*Unit, len(units)),
		ActiveTeam: Team1,
		Turn:       1,
	}
	for i, u := range units {
		s.Units[i] = u.copy()
	}
	sort.Slice(s.Units, func(i, j int) bool { return s.Units[i].ID < s.Units[j].ID })
	return s, nil
}

// Copy deep-copies every unit. The grid is shared: it is immutable for the
// lifetime of the battle.
func (s *BattleState) Copy() *BattleState {
	units := make([]*Unit, len(s.Units))
	for i, u := range s.Units {
		units[i] = u.copy()
	}
	return &BattleState{
		Grid:       s.Grid,
		Units:      units,
		ActiveTeam: s.ActiveTeam,
		Turn:       s.Turn,
		Outcome:    s.Outcome,
	}
}

// UnitByID returns the living unit with the given ID, or nil.
func (s *BattleState) UnitByID(id int) *Unit {
	for _, u := range s.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// UnitAt returns the living unit occupying the cell, or nil.
func (s *BattleState) UnitAt(c Cell) *Unit {
	for _, u := range s.Units {
		if u.Pos == c {
			return u
		}
	}
	return nil
}

// TeamUnits returns the living units of one team in ascending ID order.
func (s *BattleState) TeamUnits(t Team) []*Unit {
	var units []*Unit
	for _, u := range s.Units {
		if u.Team == t {
			units = append(units, u)
		}
	}
	return units
}

func (s *BattleState) Player() string {
	return s.ActiveTeam.String()
}

// Winner returns the terminal outcome name, or "" while the battle runs.
func (s *BattleState) Winner() string {
	if s.Outcome == InProgress {
		return ""
	}
	return s.Outcome.String()
}

// Play applies a move and returns the successor state. The searcher only
// plays moves taken from LegalMoves, so a resolver rejection here is a
// programming error.
func (s *BattleState) Play(m Move) State {
	next, _, err := s.ApplyAction(m)
	if err != nil {
		panic(fmt.Sprintf("playing a legal move failed: %v", err))
	}
	return next
}

// Hash folds the dynamic battle state into an FNV-1a digest. States that
// compare equal hash equal; the grid is excluded because it never changes.
func (s *BattleState) Hash() StateHash {
	h := fnv.New64a()
	buf := make([]byte, 8)
	write := func(v int) {
		binary.LittleEndian.PutUint64(buf, uint64(int64(v)))
		h.Write(buf)
	}
	write(int(s.ActiveTeam))
	write(s.Turn)
	write(int(s.Outcome))
	for _, u := range s.Units {
		write(u.ID)
		write(int(u.Team))
		write(int(u.Type))
		write(u.HP)
		write(u.Pos.Row)
		write(u.Pos.Col)
		write(int(u.State))
	}
	return StateHash(h.Sum64())
}

// EndTurn marks every remaining unit of the active team done and hands
// control to the other team. It returns a new state.
func (s *BattleState) EndTurn() *BattleState {
	next := s.Copy()
	for _, u := range next.Units {
		if u.Team == next.ActiveTeam {
			u.State = Done
		}
	}
	next.rollover()
	return next
}

// rollover hands control to the other team once every living unit of the
// active team is done, resetting the incoming team's action states. The round
// counter advances when control returns to team 1.
func (s *BattleState) rollover() {
	if s.Outcome != InProgress {
		return
	}
	for _, u := range s.Units {
		if u.Team == s.ActiveTeam && u.State != Done {
			return
		}
	}
	s.ActiveTeam = s.ActiveTeam.Other()
	for _, u := range s.Units {
		if u.Team == s.ActiveTeam {
			u.State = CanMove
		}
	}
	if s.ActiveTeam == Team1 {
		s.Turn++
		if s.Turn > MaxRounds {
			s.Outcome = Draw
		}
	}
}

// checkOutcome runs the terminal condition after a resolved action.
func (s *BattleState) checkOutcome() {
	if s.Outcome != InProgress {
		return
	}
	alive1 := len(s.TeamUnits(Team1))
	alive2 := len(s.TeamUnits(Team2))
	switch {
	case alive1 == 0 && alive2 == 0:
		s.Outcome = Draw
	case alive2 == 0:
		s.Outcome = Team1Win
	case alive1 == 0:
		s.Outcome = Team2Win
	}
}

// removeDead drops zero-HP units from the living set.
func (s *BattleState) removeDead() {
	living := s.Units[:0]
	for _, u := range s.Units {
		if u.Alive() {
			living = append(living, u)
		}
	}
	s.Units = living
}
