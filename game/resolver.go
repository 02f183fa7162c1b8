package game

import (
	"errors"
	"fmt"
	"math"
)

// ErrIllegalAction marks an action outside the legal set. Callers are
// expected to offer only legal actions, so hitting it indicates a programming
// error in the caller, not a recoverable battle condition. The state is never
// mutated by a rejected action.
var ErrIllegalAction = errors.New("illegal action")

// RetaliationMultiplier scales retaliation damage. The defender strikes back
// at full attack value.
const RetaliationMultiplier = 1.0

// ActionResult records what an applied action did, for battle logs and UI
// feedback such as floating damage numbers.
type ActionResult struct {
	DamageDealt      int
	RetaliationDealt int
	DefenderDied     bool
	AttackerDied     bool
}

// ApplyAction applies exactly one action and returns the successor state and
// a result record. The receiver is never modified: the transition is
// all-or-nothing on a fresh copy. After the action resolves, dead units are
// removed, the terminal condition is checked, and control rolls over to the
// other team once every active unit is done.
func (s *BattleState) ApplyAction(m Move) (*BattleState, ActionResult, error) {
	var result ActionResult

	if s.Outcome != InProgress {
		return nil, result, fmt.Errorf("%w: battle is over (%s)", ErrIllegalAction, s.Outcome)
	}
	next := s.Copy()
	unit := next.UnitByID(m.ActingUnit())
	if unit == nil {
		return nil, result, fmt.Errorf("%w: no living unit %d", ErrIllegalAction, m.ActingUnit())
	}
	if unit.Team != next.ActiveTeam {
		return nil, result, fmt.Errorf("%w: unit %d is not on the active team", ErrIllegalAction, unit.ID)
	}

	switch a := m.(type) {
	case MoveAction:
		if !containsCell(next.LegalMoveCells(unit), a.To) {
			return nil, result, fmt.Errorf("%w: unit %d cannot move to (%d,%d)", ErrIllegalAction, unit.ID, a.To.Row, a.To.Col)
		}
		unit.Pos = a.To
		unit.State = MovedOnly

	case AttackAction:
		if !containsInt(next.LegalAttackTargets(unit), a.TargetID) {
			return nil, result, fmt.Errorf("%w: unit %d cannot attack unit %d", ErrIllegalAction, unit.ID, a.TargetID)
		}
		target := next.UnitByID(a.TargetID)
		result = next.resolveAttack(unit, target)
		unit.State = Done

	case PassAction:
		if unit.State == Done {
			return nil, result, fmt.Errorf("%w: unit %d has already acted", ErrIllegalAction, unit.ID)
		}
		unit.State = Done

	default:
		return nil, result, fmt.Errorf("%w: unknown action type %T", ErrIllegalAction, m)
	}

	next.removeDead()
	next.checkOutcome()
	next.rollover()
	return next, result, nil
}

// resolveAttack deals damage to the target and, for surviving melee-range
// defenders able to reach back, retaliation damage to the attacker.
func (s *BattleState) resolveAttack(attacker, defender *Unit) ActionResult {
	result := ActionResult{DamageDealt: s.damageAgainst(attacker, defender)}
	defender.HP -= result.DamageDealt
	if defender.HP <= 0 {
		defender.HP = 0
		result.DefenderDied = true
		return result
	}

	// Retaliation: only melee attacks expose the attacker, and only when the
	// surviving defender's own range covers the distance.
	dist := attacker.Pos.Manhattan(defender.Pos)
	if attacker.Stats.Range == 1 && defender.Stats.Range >= dist {
		retaliation := int(math.Round(float64(s.damageAgainst(defender, attacker)) * RetaliationMultiplier))
		if retaliation < 1 {
			retaliation = 1
		}
		result.RetaliationDealt = retaliation
		attacker.HP -= retaliation
		if attacker.HP <= 0 {
			attacker.HP = 0
			result.AttackerDied = true
		}
	}
	return result
}

// damageAgainst computes the mitigated damage one unit deals another:
//
//	raw = attack * effectiveness * (1 + attacker terrain attack bonus)
//	mitigated = max(1, round(raw * (1 - defender terrain defense bonus) - armor))
//
// The floor of 1 guarantees every successful attack wears the defender down,
// so full damage negation can never stall a battle.
func (s *BattleState) damageAgainst(attacker, defender *Unit) int {
	raw := float64(attacker.Stats.Attack) *
		Effectiveness(attacker.Type, defender.Type) *
		(1 + s.Grid.TerrainAt(attacker.Pos).AttackBonus())
	mitigated := math.Round(raw*(1-s.Grid.TerrainAt(defender.Pos).DefenseBonus()) - float64(defender.Stats.Armor))
	if mitigated < 1 {
		return 1
	}
	return int(mitigated)
}

func containsCell(cells []Cell, c Cell) bool {
	for _, candidate := range cells {
		if candidate == c {
			return true
		}
	}
	return false
}

func containsInt(ids []int, id int) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
