package engine

import (
	"fmt"
	"time"

	"kriegsspiel/agent"
	"kriegsspiel/game"

	"github.com/rs/zerolog/log"
)

// Update records one resolved action for observers: the renderer draws the
// result record (floating damage numbers), the API streams the state copy.
type Update struct {
	Action game.Move
	Result game.ActionResult
	State  *game.BattleState
}

// Option configures an Engine.
type Option func(e *Engine)

// WithTimeout bounds every agent decision. An agent that misses the budget
// forfeits that unit's action.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithObserver registers a callback invoked after every resolved action.
func WithObserver(fn func(Update)) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, fn)
	}
}

// Engine is the turn controller: it asks the active team's agent for one
// action per eligible unit, applies it through the resolver, and alternates
// teams until the battle ends. A team without an agent is driven externally
// through Apply and EndTurn (the human side behind a UI).
type Engine struct {
	state     *game.BattleState
	agents    map[game.Team]agent.Agent
	timeout   time.Duration
	observers []func(Update)
	updates   []Update
}

// New builds an engine over an initial state. Either agent may be nil for an
// externally driven team.
func New(state *game.BattleState, team1, team2 agent.Agent, options ...Option) *Engine {
	e := &Engine{
		state: state.Copy(),
		agents: map[game.Team]agent.Agent{
			game.Team1: team1,
			game.Team2: team2,
		},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// State returns a snapshot of the current battle. Mutating it does not affect
// the engine.
func (e *Engine) State() *game.BattleState {
	return e.state.Copy()
}

// Updates returns every resolved action so far.
func (e *Engine) Updates() []Update {
	return e.updates
}

// Run plays the battle to its terminal outcome. Both teams need agents.
func (e *Engine) Run() game.Outcome {
	log.Info().
		Str("starting", e.state.ActiveTeam.String()).
		Int("units", len(e.state.Units)).
		Msg("battle started")

	for e.state.Outcome == game.InProgress {
		if err := e.PlayTurn(); err != nil {
			panic(fmt.Sprintf("running a two-agent battle: %v", err))
		}
	}

	log.Info().
		Str("outcome", e.state.Outcome.String()).
		Int("rounds", e.state.Turn).
		Msg("battle over")
	return e.state.Outcome
}

// PlayTurn lets the active team's agent act with every eligible unit until
// control passes to the other team or the battle ends.
func (e *Engine) PlayTurn() error {
	team := e.state.ActiveTeam
	ag := e.agents[team]
	if ag == nil {
		return fmt.Errorf("%s has no agent and must be driven externally", team)
	}

	for e.state.Outcome == game.InProgress && e.state.ActiveTeam == team {
		unit := e.nextUnit(team)
		if unit == nil {
			// Every unit acted but control has not rolled over yet.
			e.state = e.state.EndTurn()
			break
		}
		e.playUnit(ag, unit.ID)
	}
	return nil
}

// playUnit obtains one action for the unit, substituting a pass when the
// agent times out, errors, or answers with an illegal action. The battle
// never stalls on a misbehaving agent.
func (e *Engine) playUnit(ag agent.Agent, unitID int) {
	action, err := e.selectAction(ag, unitID)
	if err != nil {
		log.Warn().Err(err).
			Int("unit", unitID).
			Msg("agent failed to decide, unit passes")
		action = game.PassAction{UnitID: unitID}
	}

	next, result, err := e.state.ApplyAction(action)
	if err != nil {
		log.Warn().Err(err).
			Int("unit", unitID).
			Msgf("agent chose an illegal action %v, unit passes", action)
		action = game.PassAction{UnitID: unitID}
		next, result, err = e.state.ApplyAction(action)
		if err != nil {
			// Passing with an eligible unit is always legal.
			panic(fmt.Sprintf("fallback pass rejected: %v", err))
		}
	}

	e.record(action, result, next)
}

// Apply resolves one externally chosen action (the human collaborator's
// click). Illegal actions are rejected without mutating the battle.
func (e *Engine) Apply(action game.Move) (Update, error) {
	next, result, err := e.state.ApplyAction(action)
	if err != nil {
		return Update{}, err
	}
	return e.record(action, result, next), nil
}

// EndTurn forfeits the active team's remaining actions.
func (e *Engine) EndTurn() {
	e.state = e.state.EndTurn()
}

func (e *Engine) record(action game.Move, result game.ActionResult, next *game.BattleState) Update {
	e.state = next
	u := Update{Action: action, Result: result, State: next.Copy()}
	e.updates = append(e.updates, u)
	for _, fn := range e.observers {
		fn(u)
	}
	return u
}

// nextUnit returns the lowest-ID unit of the team that can still act.
func (e *Engine) nextUnit(team game.Team) *game.Unit {
	for _, u := range e.state.Units {
		if u.Team == team && u.State != game.Done {
			return u
		}
	}
	return nil
}

// selectAction asks the agent for a decision on a state snapshot, enforcing
// the per-decision time budget when one is configured.
func (e *Engine) selectAction(ag agent.Agent, unitID int) (game.Move, error) {
	if e.timeout <= 0 {
		return ag.SelectAction(e.state.Copy(), unitID)
	}

	type reply struct {
		move game.Move
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		move, err := ag.SelectAction(e.state.Copy(), unitID)
		ch <- reply{move: move, err: err}
	}()

	select {
	case r := <-ch:
		return r.move, r.err
	case <-time.After(e.timeout):
		return nil, fmt.Errorf("agent exceeded its %s decision budget", e.timeout)
	}
}
