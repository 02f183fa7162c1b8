package agent

import "kriegsspiel/game"

// Agent is one decision policy for the computer-controlled team. The turn
// controller calls SelectAction once per unit-action opportunity; the
// returned action must be drawn from the unit's legal set.
type Agent interface {
	SelectAction(state *game.BattleState, unitID int) (game.Move, error)
}
