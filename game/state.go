package game

// Move is one atomic decision applied to a State. Every battle action names
// the unit it acts with, which lets agents restrict a search to a single
// unit's options.
type Move interface {
	ActingUnit() int
}

// DrawnGame is the Winner value of a drawn battle. While a battle runs,
// Winner returns the empty string; at a decisive end it returns the winning
// team's name.
const DrawnGame = "draw"

type StateHash uint64

// State is the searcher-facing view of a battle. State is immutable -
// operations on State always return a new copy, which is what makes fanning a
// state out across concurrent rollouts safe.
type State interface {
	Player() string
	LegalMoves() []Move
	Play(Move) State
	Hash() StateHash
	Winner() string
}

// Evaluate scores a non-terminal state between -1 and 1 indicating how
// favorable the position is to the current player.
type Evaluate func(State) float64
