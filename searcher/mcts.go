package searcher

import (
	"sync"
	"time"

	"kriegsspiel/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Option configures an MCTS instance.
type Option func(m *MCTS)

// MCTS runs Monte Carlo tree search over battle states. Episodes are spread
// across goroutines sharing one tree; every episode replays moves on
// immutable state copies, so no battle state is ever shared between workers.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	seed       uint64
	evaluate   game.Evaluate
	metrics    MetricsCollector
	root       *decision
}

// WithDuration bounds each search by wall-clock time.
func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithEpisodes bounds each search by a fixed episode count.
func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

// WithCutoff caps rollout depth; depth-capped rollouts are scored by the
// evaluation function instead of a terminal outcome.
func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

// WithEvaluation replaces the cutoff evaluation function.
func WithEvaluation(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

// WithSeed fixes the rollout RNG for reproducible searches. Without it every
// search seeds from the clock.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

// WithMetrics turns on search metrics collection.
func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewMetricsCollector()
	}
}

// NewMCTS builds a search with the given worker count. An episode or duration
// budget is mandatory: the search must always come back with an answer.
func NewMCTS(goroutines int, options ...Option) *MCTS {
	if goroutines < 1 {
		goroutines = 1
	}
	m := &MCTS{ // Default values
		goroutines: goroutines,
		cutoff:     MaxCutoff,
		evaluate:   game.EvaluateMaterial,
		metrics:    NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("must specify search episodes or duration")
	}
	return m
}

// FindAction searches from state and returns the robust-child move among
// rootMoves. A nil rootMoves searches over every legal move of the state.
// rootMoves must be legal for state and non-empty.
func (m *MCTS) FindAction(state game.State, rootMoves []game.Move) (game.Move, MoveMetrics) {
	if rootMoves == nil {
		rootMoves = state.LegalMoves()
	}
	if len(rootMoves) == 0 {
		panic("cannot search a state with no moves")
	}

	m.root = newDecision(nil, state.Player(), rootMoves)
	m.metrics.Start()

	if m.episodes > 0 {
		m.iterate(state)
	} else {
		m.countdown(state)
	}
	metrics := m.metrics.Complete()

	move := m.root.bestMove()
	log.Debug().
		Str("player", state.Player()).
		Int64("episodes", metrics.Episodes).
		Dur("took", metrics.Duration).
		Msgf("search picked %v", move)
	return move, metrics
}

// Policy returns the visit distribution over the last search's root moves.
func (m *MCTS) Policy() map[game.Move]float64 {
	if m.root == nil {
		return nil
	}
	return m.root.Policy()
}

// iterate runs exactly the configured number of episodes, spread across the
// worker pool.
func (m *MCTS) iterate(state game.State) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			rng := m.newRNG(worker)
			for range task {
				m.simulate(state, rng)
				m.metrics.AddEpisode()
			}
		}(i)
	}

	wg.Wait()
}

// countdown runs episodes until the time budget elapses.
func (m *MCTS) countdown(state game.State) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			rng := m.newRNG(worker)
			for {
				select {
				case <-done:
					return
				default:
					m.simulate(state, rng)
					m.metrics.AddEpisode()
				}
			}
		}(i)
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

// newRNG derives a per-worker rollout source so workers never contend on one
// RNG and a fixed seed reproduces the same episode streams.
func (m *MCTS) newRNG(worker int) *rand.Rand {
	seed := m.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed + uint64(worker)*0x9e3779b9))
}

// simulate runs one episode: descend and expand, roll out, back up.
func (m *MCTS) simulate(state game.State, rng *rand.Rand) {
	node, nodeState := selectThenExpand(m.root, state)
	player, score := m.rollout(nodeState, rng)
	backup(node, player, score)
}

func selectThenExpand(root *decision, state game.State) (*decision, game.State) {
	parent := root
	child, state, selected := parent.SelectOrExpand(state)
	for selected && child != parent {
		parent = child
		child, state, selected = parent.SelectOrExpand(state)
	}
	return child, state
}

// rollout plays uniformly random legal moves until the battle ends or the
// depth cutoff is reached. Terminal playouts score the winner; capped ones
// fall back to the evaluation function from the current player's perspective.
func (m *MCTS) rollout(state game.State, rng *rand.Rand) (string, float64) {
	depth := 0
	moves := state.LegalMoves()
	for len(moves) > 0 && depth < m.cutoff {
		state = state.Play(moves[rng.Intn(len(moves))])
		moves = state.LegalMoves()
		depth++
	}

	if len(moves) == 0 { // Battle over before the cutoff
		m.metrics.AddFullPlayout()
		winner := state.Winner()
		if winner == game.DrawnGame {
			return winner, Tied
		}
		return winner, Win
	}

	return state.Player(), m.evaluate(state)
}

func backup(node *decision, player string, score float64) {
	for node != nil {
		node = node.Backup(player, score)
	}
}
