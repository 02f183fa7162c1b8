// Command api serves one battle over HTTP. Manual teams submit actions
// through the REST surface; AI teams play automatically between them. A
// websocket stream pushes every resolved action to renderers.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"kriegsspiel/config"
	"kriegsspiel/engine"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "assets/battle.yaml", "battle setup file")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading battle config")
	}
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

	var s *server
	options := []engine.Option{
		engine.WithObserver(func(u engine.Update) { s.broadcast(u) }),
	}
	if cfg.Timeout > 0 {
		options = append(options, engine.WithTimeout(time.Duration(cfg.Timeout)))
	}
	s = newServer(engine.New(state, agent1, agent2, options...))
	s.start()

	log.Info().Str("addr", *addr).Str("config", *configPath).Msg("battle api listening")
	if err := http.ListenAndServe(*addr, s.router()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
