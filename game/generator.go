package game

import (
	"container/heap"
	"sort"
)

// LegalMoveCells returns every cell the unit can reach this turn: a
// cost-bounded Dijkstra over terrain move costs from the unit's position, up
// to its movement points, never entering cells that are out of bounds,
// impassable, or occupied by any living unit. A unit that has already moved
// or acted yields no cells. The result is ordered by row then column so the
// legal set is identical on every call.
func (s *BattleState) LegalMoveCells(u *Unit) []Cell {
	if u == nil || !u.Alive() || u.State != CanMove {
		return nil
	}

	dist := map[Cell]int{u.Pos: 0}
	pq := &cellQueue{{cell: u.Pos, cost: 0}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(cellItem)
		if item.cost > dist[item.cell] {
			continue // stale queue entry
		}
		for _, n := range s.Grid.Neighbors(item.cell) {
			if !s.Grid.TerrainAt(n).Passable() || s.UnitAt(n) != nil {
				continue
			}
			cost := item.cost + s.Grid.TerrainAt(n).MoveCost()
			if cost > u.Stats.Movement {
				continue
			}
			if best, seen := dist[n]; seen && best <= cost {
				continue
			}
			dist[n] = cost
			heap.Push(pq, cellItem{cell: n, cost: cost})
		}
	}

	cells := make([]Cell, 0, len(dist)-1)
	for c := range dist {
		if c != u.Pos {
			cells = append(cells, c)
		}
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}

// LegalAttackTargets returns the IDs of enemy units within the unit's attack
// range (Manhattan distance), ascending. A unit that is done yields none.
func (s *BattleState) LegalAttackTargets(u *Unit) []int {
	if u == nil || !u.Alive() || u.State == Done {
		return nil
	}
	var targets []int
	for _, enemy := range s.Units {
		if enemy.Team == u.Team {
			continue
		}
		if u.Pos.Manhattan(enemy.Pos) <= u.Stats.Range {
			targets = append(targets, enemy.ID)
		}
	}
	sort.Ints(targets)
	return targets
}

// LegalUnitActions enumerates every action one unit may take right now:
// moves ordered by destination, then attacks ordered by target ID, then pass.
// Units of the inactive team, dead units and done units have no actions.
func (s *BattleState) LegalUnitActions(unitID int) []Move {
	u := s.UnitByID(unitID)
	if s.Outcome != InProgress || u == nil || u.Team != s.ActiveTeam || u.State == Done {
		return nil
	}
	var actions []Move
	for _, c := range s.LegalMoveCells(u) {
		actions = append(actions, MoveAction{UnitID: u.ID, To: c})
	}
	for _, id := range s.LegalAttackTargets(u) {
		actions = append(actions, AttackAction{UnitID: u.ID, TargetID: id})
	}
	actions = append(actions, PassAction{UnitID: u.ID})
	return actions
}

// LegalMoves enumerates the actions of every eligible unit of the active
// team, in ascending unit ID order. Terminal states have no legal moves.
func (s *BattleState) LegalMoves() []Move {
	if s.Outcome != InProgress {
		return nil
	}
	var actions []Move
	for _, u := range s.Units {
		if u.Team == s.ActiveTeam {
			actions = append(actions, s.LegalUnitActions(u.ID)...)
		}
	}
	return actions
}

type cellItem struct {
	cell Cell
	cost int
}

type cellQueue []cellItem

func (q cellQueue) Len() int           { return len(q) }
func (q cellQueue) Less(i, j int) bool { return q[i].cost < q[j].cost }
func (q cellQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *cellQueue) Push(x any)        { *q = append(*q, x.(cellItem)) }
func (q *cellQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
