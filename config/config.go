// Package config loads battle setups from YAML: the map, the drafted armies,
// and the agent controlling each side.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"kriegsspiel/agent"
	"kriegsspiel/game"
	"kriegsspiel/neat"
	"kriegsspiel/searcher"

	"gopkg.in/yaml.v3"
)

// Agent kinds accepted in a team section.
const (
	AgentMCTS   = "mcts"
	AgentNEAT   = "neat"
	AgentManual = "manual"
)

// Duration wraps time.Duration with YAML decoding from strings like "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// GridConfig describes the map. A layout overrides rows and cols; without one
// the battle runs on open plains.
type GridConfig struct {
	Rows   int      `yaml:"rows"`
	Cols   int      `yaml:"cols"`
	Layout []string `yaml:"layout"`
}

// SearchConfig tunes an MCTS agent. Exactly one of episodes or duration sets
// the budget.
type SearchConfig struct {
	Goroutines int      `yaml:"goroutines"`
	Episodes   int      `yaml:"episodes"`
	Duration   Duration `yaml:"duration"`
	Cutoff     int      `yaml:"cutoff"`
	Seed       uint64   `yaml:"seed"`
	Metrics    bool     `yaml:"metrics"`
}

// TeamConfig drafts one side: the units it fields and the agent that plays
// them. A manual team is driven externally over the API.
type TeamConfig struct {
	Agent  string       `yaml:"agent"`
	Units  []string     `yaml:"units"`
	Search SearchConfig `yaml:"search"`
	Genome string       `yaml:"genome"`
}

// BattleConfig is the full setup of one battle.
type BattleConfig struct {
	Grid    GridConfig `yaml:"grid"`
	Funds   int        `yaml:"funds"`
	Timeout Duration   `yaml:"timeout"`
	Team1   TeamConfig `yaml:"team1"`
	Team2   TeamConfig `yaml:"team2"`
}

// Load reads and validates a battle setup.
func Load(path string) (*BattleConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading battle config: %w", err)
	}
	var c BattleConfig
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parsing battle config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *BattleConfig) validate() error {
	if c.Funds == 0 {
		c.Funds = game.StartingFunds
	}
	for name, tc := range map[string]*TeamConfig{"team1": &c.Team1, "team2": &c.Team2} {
		types, err := tc.unitTypes()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := game.ValidateArmy(types, c.Funds); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		switch tc.Agent {
		case AgentMCTS:
			if tc.Search.Episodes <= 0 && tc.Search.Duration <= 0 {
				return fmt.Errorf("%s: mcts agent needs an episodes or duration budget", name)
			}
		case AgentNEAT:
			if tc.Genome == "" {
				return fmt.Errorf("%s: neat agent needs a genome file", name)
			}
		case AgentManual:
		default:
			return fmt.Errorf("%s: unknown agent kind %q", name, tc.Agent)
		}
	}
	return nil
}

func (tc *TeamConfig) unitTypes() ([]game.UnitType, error) {
	types := make([]game.UnitType, len(tc.Units))
	for i, name := range tc.Units {
		ut, err := game.ParseUnitType(name)
		if err != nil {
			return nil, err
		}
		types[i] = ut
	}
	return types, nil
}

// BuildGrid materializes the map.
func (c *BattleConfig) BuildGrid() (*game.Grid, error) {
	if len(c.Grid.Layout) > 0 {
		return game.ParseLayout(c.Grid.Layout)
	}
	rows, cols := c.Grid.Rows, c.Grid.Cols
	if rows == 0 {
		rows = game.DefaultRows
	}
	if cols == 0 {
		cols = game.DefaultCols
	}
	return game.NewPlainsGrid(rows, cols), nil
}

// BuildState places both armies on the map and returns the initial battle.
// Team 1 deploys in the bottom-left area, team 2 in the top-right, each unit
// nudged to the nearest free passable cell.
func (c *BattleConfig) BuildState() (*game.BattleState, error) {
	grid, err := c.BuildGrid()
	if err != nil {
		return nil, err
	}

	occupied := map[game.Cell]bool{}
	var units []*game.Unit
	nextID := 1
	for _, side := range []struct {
		team game.Team
		tc   *TeamConfig
	}{
		{game.Team1, &c.Team1},
		{game.Team2, &c.Team2},
	} {
		types, err := side.tc.unitTypes()
		if err != nil {
			return nil, err
		}
		placed, err := deploy(grid, occupied, side.team, types, nextID)
		if err != nil {
			return nil, err
		}
		units = append(units, placed...)
		nextID += len(placed)
	}
	return game.NewBattleState(grid, units)
}

// deploy lays an army out in its spawn zone, three units per rank with a
// one-cell gap between files. Blocked slots shift to a nearby free cell.
func deploy(grid *game.Grid, occupied map[game.Cell]bool, team game.Team, types []game.UnitType, firstID int) ([]*game.Unit, error) {
	const (
		fileGap = 2
		rankGap = 1
		perRank = 3
		window  = 3
	)
	start := game.Cell{Row: grid.Rows() - 4, Col: 1}
	if team == game.Team2 {
		start = game.Cell{Row: 1, Col: grid.Cols() - 6}
	}

	units := make([]*game.Unit, len(types))
	slot := start
	for i, ut := range types {
		pos, ok := nearestFree(grid, occupied, slot, window)
		if !ok {
			return nil, fmt.Errorf("no free cell to deploy %s unit %d near (%d,%d)",
				team, firstID+i, slot.Row, slot.Col)
		}
		occupied[pos] = true
		units[i] = game.NewUnit(firstID+i, team, ut, pos)

		slot.Col += fileGap
		if (i+1)%perRank == 0 {
			slot.Col = start.Col
			slot.Row += rankGap
		}
	}
	return units, nil
}

// nearestFree scans a small window around the slot for a passable, unoccupied
// cell.
func nearestFree(grid *game.Grid, occupied map[game.Cell]bool, slot game.Cell, window int) (game.Cell, bool) {
	for dr := -1; dr < window; dr++ {
		for dc := -1; dc < window; dc++ {
			c := game.Cell{Row: slot.Row + dr, Col: slot.Col + dc}
			if grid.InBounds(c) && grid.TerrainAt(c).Passable() && !occupied[c] {
				return c, true
			}
		}
	}
	return game.Cell{}, false
}

// BuildAgent constructs the configured agent, or nil for a manual team.
func (tc *TeamConfig) BuildAgent() (agent.Agent, error) {
	switch tc.Agent {
	case AgentManual:
		return nil, nil
	case AgentMCTS:
		goroutines := tc.Search.Goroutines
		if goroutines <= 0 {
			goroutines = runtime.NumCPU()
		}
		options := []searcher.Option{}
		if tc.Search.Episodes > 0 {
			options = append(options, searcher.WithEpisodes(tc.Search.Episodes))
		} else {
			options = append(options, searcher.WithDuration(time.Duration(tc.Search.Duration)))
		}
		if tc.Search.Cutoff > 0 {
			options = append(options, searcher.WithCutoff(tc.Search.Cutoff))
		}
		if tc.Search.Seed != 0 {
			options = append(options, searcher.WithSeed(tc.Search.Seed))
		}
		if tc.Search.Metrics {
			options = append(options, searcher.WithMetrics())
		}
		return agent.NewMCTSAgent(searcher.NewMCTS(goroutines, options...)), nil
	case AgentNEAT:
		genome, err := neat.LoadGenome(tc.Genome)
		if err != nil {
			return nil, err
		}
		net, err := neat.NewNetwork(genome)
		if err != nil {
			return nil, err
		}
		return agent.NewNEATAgent(net)
	default:
		return nil, fmt.Errorf("unknown agent kind %q", tc.Agent)
	}
}
