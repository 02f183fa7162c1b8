package agent

import (
	"fmt"

	"kriegsspiel/game"
	"kriegsspiel/neat"
)

// NEATAgent scores every legal candidate action for the unit with a trained
// feed-forward network and plays the highest-scoring one. Candidate actions
// are enumerated in a fixed order (move destinations by row then column,
// attack targets by ID, pass last) and ties keep the earliest candidate, so
// behavior is reproducible for a fixed genome and state.
type NEATAgent struct {
	net *neat.Network
}

// NewNEATAgent wraps a loaded network, rejecting one whose input width does
// not match the state encoding.
func NewNEATAgent(net *neat.Network) (*NEATAgent, error) {
	if net.InputCount() != neat.FeatureCount {
		return nil, fmt.Errorf("%w: network expects %d inputs, encoder produces %d",
			neat.ErrMissingModel, net.InputCount(), neat.FeatureCount)
	}
	return &NEATAgent{net: net}, nil
}

func (a *NEATAgent) SelectAction(state *game.BattleState, unitID int) (game.Move, error) {
	unit := state.UnitByID(unitID)
	actions := state.LegalUnitActions(unitID)
	if unit == nil || len(actions) == 0 {
		return nil, fmt.Errorf("unit %d has no legal actions", unitID)
	}

	best := actions[0]
	bestScore, err := a.score(state, unit, best)
	if err != nil {
		return nil, err
	}
	for _, action := range actions[1:] {
		score, err := a.score(state, unit, action)
		if err != nil {
			return nil, err
		}
		if score > bestScore {
			best = action
			bestScore = score
		}
	}
	return best, nil
}

func (a *NEATAgent) score(state *game.BattleState, unit *game.Unit, action game.Move) (float64, error) {
	out, err := a.net.Activate(neat.Encode(state, unit, action))
	if err != nil {
		return 0, err
	}
	return out[0], nil
}
