package agent

import (
	"fmt"

	"kriegsspiel/game"
	"kriegsspiel/searcher"
)

// MCTSAgent picks actions by tree search. The root is restricted to the
// acting unit's legal actions; everything below the root simulates the full
// battle for both sides.
type MCTSAgent struct {
	search *searcher.MCTS
	last   searcher.MoveMetrics
}

func NewMCTSAgent(search *searcher.MCTS) *MCTSAgent {
	return &MCTSAgent{search: search}
}

func (a *MCTSAgent) SelectAction(state *game.BattleState, unitID int) (game.Move, error) {
	actions := state.LegalUnitActions(unitID)
	if len(actions) == 0 {
		return nil, fmt.Errorf("unit %d has no legal actions", unitID)
	}
	if len(actions) == 1 { // Only pass remains; nothing to search
		a.last = searcher.MoveMetrics{}
		return actions[0], nil
	}

	move, metrics := a.search.FindAction(state, actions)
	a.last = metrics
	return move, nil
}

// LastMetrics reports the search statistics of the most recent decision.
func (a *MCTSAgent) LastMetrics() searcher.MoveMetrics {
	return a.last
}
