// Command kriegsspiel plays AI-vs-AI battles from a YAML setup, or runs a
// round-robin benchmark between agent configurations. Battles with a manual
// team are served by cmd/api instead.
package main

import (
	"flag"
	"os"
	"time"

	"kriegsspiel/config"
	"kriegsspiel/engine"
	"kriegsspiel/experiments"
	"kriegsspiel/experiments/metrics"
	"kriegsspiel/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "assets/battle.yaml", "battle setup file")
	games := flag.Int("games", 1, "number of battles to play")
	benchmark := flag.Bool("benchmark", false, "run the agent round-robin benchmark instead")
	genome := flag.String("genome", "", "genome file to include a network agent in the benchmark")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *benchmark {
		runBenchmark(*games, *genome)
		return
	}
	runBattles(*configPath, *games)
}

func runBattles(configPath string, games int) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading battle config")
	}
	if cfg.Team1.Agent == config.AgentManual || cfg.Team2.Agent == config.AgentManual {
		log.Fatal().Msg("manual teams play through cmd/api, not the CLI runner")
	}

	tally := map[game.Outcome]int{}
	for i := 0; i < games; i++ {
		state, err := cfg.BuildState()
		if err != nil {
			log.Fatal().Err(err).Msg("building battle")
		}
		agent1, err := cfg.Team1.BuildAgent()
		if err != nil {
			log.Fatal().Err(err).Msg("building team 1 agent")
		}
		agent2, err := cfg.Team2.BuildAgent()
		if err != nil {
			log.Fatal().Err(err).Msg("building team 2 agent")
		}

		options := []engine.Option{}
		if cfg.Timeout > 0 {
			options = append(options, engine.WithTimeout(time.Duration(cfg.Timeout)))
		}
		e := engine.New(state, agent1, agent2, options...)
		outcome := e.Run()
		tally[outcome]++

		log.Info().
			Int("game", i+1).
			Str("outcome", outcome.String()).
			Int("rounds", e.State().Turn).
			Msg("battle finished")
	}

	log.Info().
		Int("games", games).
		Int("team1_wins", tally[game.Team1Win]).
		Int("team2_wins", tally[game.Team2Win]).
		Int("draws", tally[game.Draw]).
		Msg("all battles finished")
}

func runBenchmark(games int, genome string) {
	budget := 200 * time.Millisecond
	configs := []metrics.AgentConfig{
		{ID: 1, Kind: config.AgentMCTS, Goroutines: 1, Duration: budget, Cutoff: 40},
		{ID: 2, Kind: config.AgentMCTS, Goroutines: 4, Duration: budget, Cutoff: 40},
		{ID: 3, Kind: config.AgentMCTS, Goroutines: 8, Duration: budget, Cutoff: 40},
	}
	if genome != "" {
		configs = append(configs, metrics.AgentConfig{ID: 4, Kind: config.AgentNEAT, Genome: genome})
	}

	if err := experiments.RunRoundRobin("agents", configs, games); err != nil {
		log.Fatal().Err(err).Msg("benchmark failed")
	}
}
