package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	t.Run("maps symbols to terrain", func(t *testing.T) {
		g, err := ParseLayout([]string{
			".hw",
			"m..",
		})
		require.NoError(t, err)
		require.Equal(t, 2, g.Rows())
		require.Equal(t, 3, g.Cols())
		require.Equal(t, Plains, g.TerrainAt(Cell{0, 0}))
		require.Equal(t, Hills, g.TerrainAt(Cell{0, 1}))
		require.Equal(t, Water, g.TerrainAt(Cell{0, 2}))
		require.Equal(t, Mountain, g.TerrainAt(Cell{1, 0}))
	})

	t.Run("rejects unknown symbols", func(t *testing.T) {
		_, err := ParseLayout([]string{".x."})
		require.Error(t, err)
	})

	t.Run("rejects ragged rows", func(t *testing.T) {
		_, err := ParseLayout([]string{"...", ".."})
		require.Error(t, err)
	})
}

func TestGridQueries(t *testing.T) {
	g := NewPlainsGrid(DefaultRows, DefaultCols)

	t.Run("bounds checks cover all edges", func(t *testing.T) {
		require.True(t, g.InBounds(Cell{0, 0}))
		require.True(t, g.InBounds(Cell{14, 14}))
		require.False(t, g.InBounds(Cell{-1, 0}))
		require.False(t, g.InBounds(Cell{0, -1}))
		require.False(t, g.InBounds(Cell{15, 0}))
		require.False(t, g.InBounds(Cell{0, 15}))
	})

	t.Run("interior cells have four cardinal neighbors", func(t *testing.T) {
		require.ElementsMatch(t, []Cell{{6, 7}, {8, 7}, {7, 6}, {7, 8}}, g.Neighbors(Cell{7, 7}))
	})

	t.Run("corner cells have two neighbors", func(t *testing.T) {
		require.ElementsMatch(t, []Cell{{1, 0}, {0, 1}}, g.Neighbors(Cell{0, 0}))
	})
}

func TestManhattanDistance(t *testing.T) {
	require.Equal(t, 0, Cell{3, 3}.Manhattan(Cell{3, 3}))
	require.Equal(t, 5, Cell{1, 2}.Manhattan(Cell{4, 4}))
	require.Equal(t, 5, Cell{4, 4}.Manhattan(Cell{1, 2}), "distance should be symmetric")
}
