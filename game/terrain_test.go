package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTerrainModifiers(t *testing.T) {
	t.Run("hills grant defense and attack bonuses", func(t *testing.T) {
		require.Equal(t, 0.20, Hills.DefenseBonus())
		require.Equal(t, 0.10, Hills.AttackBonus())
	})

	t.Run("water grants a slight defense bonus and an attack penalty", func(t *testing.T) {
		require.Equal(t, 0.10, Water.DefenseBonus())
		require.Equal(t, -0.10, Water.AttackBonus())
	})

	t.Run("plains are neutral", func(t *testing.T) {
		require.Zero(t, Plains.DefenseBonus())
		require.Zero(t, Plains.AttackBonus())
		require.Equal(t, 1, Plains.MoveCost())
	})

	t.Run("hills and water slow movement", func(t *testing.T) {
		require.Equal(t, 2, Hills.MoveCost())
		require.Equal(t, 2, Water.MoveCost())
	})

	t.Run("mountains are impassable", func(t *testing.T) {
		require.False(t, Mountain.Passable())
		require.True(t, Plains.Passable())
	})
}
