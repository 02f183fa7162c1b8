// Package metrics holds benchmark records and their CSV persistence.
package metrics

import "time"

// AgentConfig identifies one benchmarked agent setup.
type AgentConfig struct {
	ID         int
	Kind       string // "mcts" or "neat"
	Goroutines int
	Episodes   int
	Duration   time.Duration
	Cutoff     int
	Genome     string
}

// GameRecord summarizes one benchmark battle.
type GameRecord struct {
	ID        int
	Agent1    int // AgentConfig.ID playing team 1
	Agent2    int // AgentConfig.ID playing team 2
	Winner    string
	Rounds    int
	StartTime time.Time
	Duration  time.Duration
}

// MoveRecord captures one decision inside a benchmark battle. Episodes and
// FullPlayouts stay zero for agents that do not search.
type MoveRecord struct {
	Game         int // GameRecord.ID
	Step         int
	Team         string
	Unit         int
	Action       string
	Duration     time.Duration
	Episodes     int
	FullPlayouts int
}
