package searcher

import "math"

// Hyperparameters for the tree search.

const CSquared = 2.0 // Squared exploration constant for UCB1

// Rewards backed up from playout outcomes, from the acting player's
// perspective.
const (
	Win  = 1.0
	Tied = 0.0
	Loss = -Win
)

// MaxCutoff effectively disables the rollout depth cap; battles are bounded
// by the round limit anyway.
const MaxCutoff = math.MaxInt

// ucb1 balances a node's average reward against an exploration bonus that
// shrinks as the node accumulates visits. The normalizer is c^2 * ln(N) of
// the parent.
func ucb1(rewards float64, visits int, normalizer float64) float64 {
	if visits == 0 { // Prevent division by zero
		panic("cannot compute UCB1: 0 visits")
	}
	return rewards/float64(visits) + math.Sqrt(normalizer/float64(visits))
}
