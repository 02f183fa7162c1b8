// Package experiments runs agent-vs-agent benchmarks and persists their
// results for offline analysis.
package experiments

import (
	"fmt"
	"time"

	"kriegsspiel/agent"
	"kriegsspiel/config"
	"kriegsspiel/engine"
	"kriegsspiel/experiments/metrics"
	"kriegsspiel/game"

	"github.com/rs/zerolog/log"
)

// benchmarkArmy is the standard full-budget draft both sides field in every
// benchmark game.
var benchmarkArmy = []string{"swordsman", "swordsman", "archer", "horseman"}

// RunRoundRobin plays every pair of agent configs against each other for the
// given number of games, alternating sides, and writes agent configs, game
// records and move records as CSV.
func RunRoundRobin(name string, configs []metrics.AgentConfig, games int) error {
	log.Info().Str("experiment", name).
		Int("agents", len(configs)).
		Int("games", games).
		Msg("starting round robin")

	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	for i := 0; i < len(configs); i++ {
		for j := i + 1; j < len(configs); j++ {
			for g := 0; g < games; g++ {
				first, second := configs[i], configs[j]
				if g%2 == 1 { // alternate the starting side
					first, second = second, first
				}

				count++
				record, moves, err := runGame(count, first, second)
				if err != nil {
					return fmt.Errorf("game %d between agents %d and %d: %w",
						count, first.ID, second.ID, err)
				}
				gameRecords = append(gameRecords, record)
				moveRecords = append(moveRecords, moves...)

				log.Info().
					Int("game", count).
					Int("agent1", first.ID).
					Int("agent2", second.ID).
					Str("winner", record.Winner).
					Int("rounds", record.Rounds).
					Msg("game over")
			}
		}
	}

	writer, err := metrics.NewWriter(name)
	if err != nil {
		return err
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return err
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored benchmark records")
	return nil
}

func runGame(id int, c1, c2 metrics.AgentConfig) (metrics.GameRecord, []metrics.MoveRecord, error) {
	bc := &config.BattleConfig{
		Team1: teamConfig(c1),
		Team2: teamConfig(c2),
	}
	state, err := bc.BuildState()
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	agent1, err := bc.Team1.BuildAgent()
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	agent2, err := bc.Team2.BuildAgent()
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	battleLog := &moveLog{game: id}
	start := time.Now()
	e := engine.New(state,
		&recorder{inner: agent1, team: game.Team1, log: battleLog},
		&recorder{inner: agent2, team: game.Team2, log: battleLog})
	outcome := e.Run()

	record := metrics.GameRecord{
		ID:        id,
		Agent1:    c1.ID,
		Agent2:    c2.ID,
		Winner:    outcome.String(),
		Rounds:    e.State().Turn,
		StartTime: start,
		Duration:  time.Since(start),
	}
	return record, battleLog.records, nil
}

func teamConfig(c metrics.AgentConfig) config.TeamConfig {
	return config.TeamConfig{
		Agent: c.Kind,
		Units: benchmarkArmy,
		Search: config.SearchConfig{
			Goroutines: c.Goroutines,
			Episodes:   c.Episodes,
			Duration:   config.Duration(c.Duration),
			Cutoff:     c.Cutoff,
			Metrics:    true,
		},
		Genome: c.Genome,
	}
}

type moveLog struct {
	game    int
	step    int
	records []metrics.MoveRecord
}

// recorder wraps an agent to time every decision and capture its search
// statistics.
type recorder struct {
	inner agent.Agent
	team  game.Team
	log   *moveLog
}

func (r *recorder) SelectAction(state *game.BattleState, unitID int) (game.Move, error) {
	start := time.Now()
	move, err := r.inner.SelectAction(state, unitID)
	if err != nil {
		return nil, err
	}

	r.log.step++
	record := metrics.MoveRecord{
		Game:     r.log.game,
		Step:     r.log.step,
		Team:     r.team.String(),
		Unit:     unitID,
		Action:   fmt.Sprint(move),
		Duration: time.Since(start),
	}
	if m, ok := r.inner.(*agent.MCTSAgent); ok {
		last := m.LastMetrics()
		record.Episodes = int(last.Episodes)
		record.FullPlayouts = int(last.FullPlayouts)
	}
	r.log.records = append(r.log.records, record)
	return move, nil
}
