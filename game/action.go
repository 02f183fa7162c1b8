package game

import "fmt"

// MoveAction relocates a unit to a reachable unoccupied cell.
type MoveAction struct {
	UnitID int
	To     Cell
}

func (a MoveAction) ActingUnit() int { return a.UnitID }

func (a MoveAction) String() string {
	return fmt.Sprintf("move unit %d to (%d,%d)", a.UnitID, a.To.Row, a.To.Col)
}

// AttackAction attacks an enemy unit in range. Attacking always ends the
// unit's turn.
type AttackAction struct {
	UnitID   int
	TargetID int
}

func (a AttackAction) ActingUnit() int { return a.UnitID }

func (a AttackAction) String() string {
	return fmt.Sprintf("unit %d attacks unit %d", a.UnitID, a.TargetID)
}

// PassAction forfeits the unit's remaining actions this turn.
type PassAction struct {
	UnitID int
}

func (a PassAction) ActingUnit() int { return a.UnitID }

func (a PassAction) String() string {
	return fmt.Sprintf("unit %d passes", a.UnitID)
}
