package searcher

import (
	"math"
	"sync"

	"kriegsspiel/game"
)

// decision is one node of the search tree. It owns the statistics for the
// state it represents and expands its untried actions in enumeration order.
// All battle actions are deterministic, so every edge leads to exactly one
// child. A RWMutex plus virtual loss lets concurrent episodes share the tree.
type decision struct {
	sync.RWMutex
	parent *decision
	// actor is the player who took the move leading into this node; rewards
	// are accumulated from the actor's perspective. The root's actor is the
	// player to move there and its rewards are unused.
	actor    string
	moves    []game.Move
	children []*decision
	rewards  float64
	visits   int
}

func newDecision(parent *decision, actor string, moves []game.Move) *decision {
	return &decision{
		parent:   parent,
		actor:    actor,
		moves:    moves,
		children: make([]*decision, 0, len(moves)),
	}
}

// SelectOrExpand advances one step of tree descent. On a fully expanded node
// it picks the max-UCB1 child and reports selected=true so the caller keeps
// descending; on an expandable node it adds one child and reports
// selected=false so the caller starts a rollout there. Terminal nodes return
// themselves. The chosen child takes a virtual loss to steer concurrent
// episodes apart.
func (d *decision) SelectOrExpand(state game.State) (*decision, game.State, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.children) < len(d.moves) { // Expandable node
		child, childState := d.addChild(state)
		child.applyLoss()
		return child, childState, false
	}

	ith := d.pickChild()
	child := d.children[ith]
	child.applyLoss()
	return child, state.Play(d.moves[ith]), true
}

func (d *decision) addChild(state game.State) (*decision, game.State) {
	move := d.moves[len(d.children)]
	childState := state.Play(move)
	child := newDecision(d, state.Player(), childState.LegalMoves())
	d.children = append(d.children, child)
	return child, childState
}

func (d *decision) pickChild() int {
	// Concurrent workers can fully expand a small node before any episode has
	// backed up a completed visit. UCB1 is undefined without one, so spread
	// the in-flight workers over the least-visited children until results
	// arrive.
	if d.visits == 0 {
		minIndex := 0
		minVisits := d.children[0].Visits()
		for i, child := range d.children[1:] {
			if v := child.Visits(); v < minVisits {
				minVisits = v
				minIndex = i + 1
			}
		}
		return minIndex
	}

	normalizer := CSquared * math.Log(float64(d.visits))
	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		if score := child.score(normalizer); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision) score(normalizer float64) float64 {
	d.RLock()
	defer d.RUnlock()

	return ucb1(d.rewards, d.visits, normalizer)
}

// Backup reverses the node's virtual loss, folds in the playout score from
// the node actor's perspective and returns the parent for the caller to walk
// up.
func (d *decision) Backup(player string, score float64) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // The root never takes a virtual loss
		d.reverseLoss()
	}

	reward := score
	if d.actor != player {
		reward = -score
	}
	d.rewards += reward
	d.visits++

	return d.parent
}

func (d *decision) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

func (d *decision) Visits() int {
	d.RLock()
	defer d.RUnlock()

	return d.visits
}

// bestMove returns the robust child's move: highest visit count, not highest
// average value, to avoid high-variance low-sample picks.
func (d *decision) bestMove() game.Move {
	// A countdown budget can elapse before any worker finishes an episode;
	// the search still has to answer with a legal move.
	if len(d.children) == 0 {
		return d.moves[0]
	}

	bestIndex := 0
	maxVisits := d.children[0].Visits()
	for i, child := range d.children[1:] {
		if v := child.Visits(); v > maxVisits {
			maxVisits = v
			bestIndex = i + 1
		}
	}
	return d.moves[bestIndex]
}

// Policy maps each explored root move to its share of the root's child
// visits.
func (d *decision) Policy() map[game.Move]float64 {
	d.RLock()
	defer d.RUnlock()

	total := 0
	for _, child := range d.children {
		total += child.Visits()
	}
	policy := make(map[game.Move]float64, len(d.children))
	if total == 0 {
		return policy
	}
	for i, child := range d.children {
		policy[d.moves[i]] = float64(child.Visits()) / float64(total)
	}
	return policy
}
