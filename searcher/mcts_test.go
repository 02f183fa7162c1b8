package searcher

import (
	"testing"
	"time"

	"kriegsspiel/game"

	"github.com/stretchr/testify/require"
)

func newDuelState(t *testing.T) *game.BattleState {
	t.Helper()
	state, err := game.NewBattleState(game.NewPlainsGrid(5, 5), []*game.Unit{
		game.NewUnit(1, game.Team1, game.Swordsman, game.Cell{Row: 2, Col: 1}),
		game.NewUnit(2, game.Team2, game.Swordsman, game.Cell{Row: 2, Col: 2}),
	})
	require.NoError(t, err)
	return state
}

func TestFindActionBudget(t *testing.T) {
	t.Run("root child visits sum to the episode budget", func(t *testing.T) {
		state := newDuelState(t)
		mcts := NewMCTS(4, WithEpisodes(64), WithCutoff(16), WithSeed(7))

		mcts.FindAction(state, nil)

		total := 0
		for _, child := range mcts.root.children {
			total += child.Visits()
		}
		require.Equal(t, 64, total, "every episode should pass through exactly one root child")
		require.Equal(t, 64, mcts.root.Visits())
	})

	t.Run("metrics count the episodes that ran", func(t *testing.T) {
		state := newDuelState(t)
		mcts := NewMCTS(2, WithEpisodes(32), WithCutoff(16), WithSeed(7), WithMetrics())

		_, metrics := mcts.FindAction(state, nil)

		require.EqualValues(t, 32, metrics.Episodes)
		require.Positive(t, metrics.Duration)
	})

	t.Run("a budget is mandatory", func(t *testing.T) {
		require.Panics(t, func() { NewMCTS(1) })
	})
}

func TestFindActionLegality(t *testing.T) {
	t.Run("the chosen move is always a member of the legal set", func(t *testing.T) {
		state := newDuelState(t)
		mcts := NewMCTS(2, WithEpisodes(50), WithCutoff(12), WithSeed(3))

		move, _ := mcts.FindAction(state, nil)

		require.Contains(t, state.LegalMoves(), move)
	})

	t.Run("a restricted root only yields the given unit's moves", func(t *testing.T) {
		state := newDuelState(t)
		unitMoves := state.LegalUnitActions(1)
		mcts := NewMCTS(2, WithEpisodes(50), WithCutoff(12), WithSeed(3))

		move, _ := mcts.FindAction(state, unitMoves)

		require.Equal(t, 1, move.ActingUnit())
		require.Contains(t, unitMoves, move)
	})

	t.Run("workers outnumbering the root moves still produce an action", func(t *testing.T) {
		// A restricted root can be tiny (a boxed-in unit has little beyond
		// attack and pass), and every worker then races through the same
		// handful of children before any episode backs up.
		for i := 0; i < 3; i++ {
			state := newDuelState(t)
			rootMoves := state.LegalUnitActions(1)[:2]
			mcts := NewMCTS(16, WithEpisodes(200), WithCutoff(12))

			move, _ := mcts.FindAction(state, rootMoves)

			require.Contains(t, rootMoves, move)
		}
	})

	t.Run("an expired duration budget still answers with a legal move", func(t *testing.T) {
		state := newDuelState(t)
		mcts := NewMCTS(2, WithDuration(time.Nanosecond), WithCutoff(12))

		move, _ := mcts.FindAction(state, nil)

		require.Contains(t, state.LegalMoves(), move)
	})

	t.Run("the policy covers only root moves and sums to one", func(t *testing.T) {
		state := newDuelState(t)
		mcts := NewMCTS(1, WithEpisodes(80), WithCutoff(12), WithSeed(11))

		mcts.FindAction(state, nil)

		sum := 0.0
		legal := state.LegalMoves()
		for move, share := range mcts.Policy() {
			require.Contains(t, legal, move)
			sum += share
		}
		require.InDelta(t, 1.0, sum, 1e-9)
	})
}

func TestFindActionDeterminism(t *testing.T) {
	t.Run("a fixed seed and single worker reproduce the same pick", func(t *testing.T) {
		first, _ := NewMCTS(1, WithEpisodes(60), WithCutoff(12), WithSeed(42)).
			FindAction(newDuelState(t), nil)
		second, _ := NewMCTS(1, WithEpisodes(60), WithCutoff(12), WithSeed(42)).
			FindAction(newDuelState(t), nil)

		require.Equal(t, first, second)
	})
}

func TestFindActionFindsDecisiveAttack(t *testing.T) {
	t.Run("search converges on the battle-winning attack", func(t *testing.T) {
		// A one-hit kill ends the battle on the spot; anything else lets the
		// enemy answer.
		state, err := game.NewBattleState(game.NewPlainsGrid(5, 5), []*game.Unit{
			{
				ID: 1, Team: game.Team1, Type: game.Swordsman,
				Stats: game.UnitStats{MaxHP: 110, Armor: 40, Attack: 90, Range: 1, Movement: 2},
				HP:    110, Pos: game.Cell{Row: 2, Col: 1},
			},
			{
				ID: 2, Team: game.Team2, Type: game.Swordsman,
				Stats: game.UnitStats{MaxHP: 40, Armor: 0, Attack: 50, Range: 1, Movement: 2},
				HP:    40, Pos: game.Cell{Row: 2, Col: 2},
			},
		})
		require.NoError(t, err)

		mcts := NewMCTS(1, WithEpisodes(400), WithCutoff(24), WithSeed(5))
		move, _ := mcts.FindAction(state, nil)

		require.Equal(t, game.AttackAction{UnitID: 1, TargetID: 2}, move)
	})
}
