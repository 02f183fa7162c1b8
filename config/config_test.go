package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"kriegsspiel/agent"
	"kriegsspiel/game"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "battle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validBattle = `
timeout: 2s
team1:
  agent: mcts
  units: [swordsman, archer, horseman]
  search:
    goroutines: 2
    episodes: 100
    cutoff: 20
    seed: 42
team2:
  agent: manual
  units: [spearman, spearman, archer]
`

func TestLoad(t *testing.T) {
	t.Run("accepts a complete setup and fills defaults", func(t *testing.T) {
		c, err := Load(writeConfig(t, validBattle))
		require.NoError(t, err)

		require.Equal(t, game.StartingFunds, c.Funds)
		require.Equal(t, 2*time.Second, time.Duration(c.Timeout))
		require.Equal(t, 100, c.Team1.Search.Episodes)
	})

	t.Run("rejects an unknown agent kind", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
team1:
  agent: oracle
  units: [swordsman]
team2:
  agent: manual
  units: [swordsman]
`))
		require.ErrorContains(t, err, "oracle")
	})

	t.Run("rejects an army over the funds budget", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
team1:
  agent: manual
  units: [horseman, horseman, horseman, horseman]
team2:
  agent: manual
  units: [swordsman]
`))
		require.ErrorContains(t, err, "exceeds funds")
	})

	t.Run("rejects an mcts agent without a budget", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
team1:
  agent: mcts
  units: [swordsman]
team2:
  agent: manual
  units: [swordsman]
`))
		require.ErrorContains(t, err, "budget")
	})

	t.Run("rejects a neat agent without a genome", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
team1:
  agent: neat
  units: [swordsman]
team2:
  agent: manual
  units: [swordsman]
`))
		require.ErrorContains(t, err, "genome")
	})
}

func TestBuildGrid(t *testing.T) {
	t.Run("defaults to open plains at the standard size", func(t *testing.T) {
		c, err := Load(writeConfig(t, validBattle))
		require.NoError(t, err)

		grid, err := c.BuildGrid()
		require.NoError(t, err)
		require.Equal(t, game.DefaultRows, grid.Rows())
		require.Equal(t, game.DefaultCols, grid.Cols())
		require.Equal(t, game.Plains, grid.TerrainAt(game.Cell{Row: 7, Col: 7}))
	})

	t.Run("parses an explicit layout", func(t *testing.T) {
		c := &BattleConfig{Grid: GridConfig{Layout: []string{".h.", "w.m", "..."}}}

		grid, err := c.BuildGrid()
		require.NoError(t, err)
		require.Equal(t, 3, grid.Rows())
		require.Equal(t, game.Hills, grid.TerrainAt(game.Cell{Row: 0, Col: 1}))
		require.Equal(t, game.Mountain, grid.TerrainAt(game.Cell{Row: 1, Col: 2}))
	})
}

func TestBuildState(t *testing.T) {
	t.Run("deploys both armies in their own halves", func(t *testing.T) {
		c, err := Load(writeConfig(t, validBattle))
		require.NoError(t, err)

		s, err := c.BuildState()
		require.NoError(t, err)
		require.Len(t, s.Units, 6)
		require.Equal(t, game.Team1, s.ActiveTeam)

		seen := map[game.Cell]bool{}
		for _, u := range s.Units {
			require.False(t, seen[u.Pos], "two units share a cell")
			seen[u.Pos] = true
			if u.Team == game.Team1 {
				require.Greater(t, u.Pos.Row, game.DefaultRows/2)
			} else {
				require.Less(t, u.Pos.Row, game.DefaultRows/2)
			}
		}
	})

	t.Run("shifts deployment off impassable terrain", func(t *testing.T) {
		layout := []string{
			"...............",
			"...............",
			"...............",
			"...............",
			"...............",
			"...............",
			"...............",
			"...............",
			"...............",
			"...............",
			"mmmmm..........",
			"mmmmm..........",
			"mmmmm..........",
			"...............",
			"...............",
		}
		c := &BattleConfig{
			Grid:  GridConfig{Layout: layout},
			Team1: TeamConfig{Agent: AgentManual, Units: []string{"swordsman", "archer"}},
			Team2: TeamConfig{Agent: AgentManual, Units: []string{"swordsman"}},
		}

		s, err := c.BuildState()
		require.NoError(t, err)
		for _, u := range s.Units {
			require.True(t, s.Grid.TerrainAt(u.Pos).Passable())
		}
	})
}

func TestBuildAgent(t *testing.T) {
	t.Run("builds a search agent from its tuning", func(t *testing.T) {
		tc := TeamConfig{Agent: AgentMCTS, Search: SearchConfig{Episodes: 10}}

		a, err := tc.BuildAgent()
		require.NoError(t, err)
		require.IsType(t, &agent.MCTSAgent{}, a)
	})

	t.Run("a manual team has no agent", func(t *testing.T) {
		tc := TeamConfig{Agent: AgentManual}

		a, err := tc.BuildAgent()
		require.NoError(t, err)
		require.Nil(t, a)
	})

	t.Run("builds a network agent from a genome file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "genome.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
inputs: 18
outputs: [0]
nodes:
  - id: 0
connections:
  - {in: -2, out: 0, weight: 1.5, enabled: true}
`), 0o644))
		tc := TeamConfig{Agent: AgentNEAT, Genome: path}

		a, err := tc.BuildAgent()
		require.NoError(t, err)
		require.IsType(t, &agent.NEATAgent{}, a)
	})

	t.Run("surfaces a missing genome file", func(t *testing.T) {
		tc := TeamConfig{Agent: AgentNEAT, Genome: filepath.Join(t.TempDir(), "nope.yaml")}

		_, err := tc.BuildAgent()
		require.Error(t, err)
	})
}
