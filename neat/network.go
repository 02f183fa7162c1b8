package neat

import (
	"fmt"
	"math"
)

// Network is a compiled feed-forward evaluator for a genome. The topological
// evaluation order is computed once at construction; activation is then a
// straight pass over the ordered nodes with no allocation of graph structure.
type Network struct {
	inputs   int
	outputs  []int
	order    []int
	nodes    map[int]NodeGene
	incoming map[int][]ConnGene
	fns      map[int]func(float64) float64
}

// NewNetwork compiles a genome. Genomes with cycles among enabled
// connections are rejected: the evaluator is strictly feed-forward.
func NewNetwork(g *Genome) (*Network, error) {
	n := &Network{
		inputs:   g.Inputs,
		outputs:  g.Outputs,
		nodes:    make(map[int]NodeGene, len(g.Nodes)),
		incoming: make(map[int][]ConnGene),
		fns:      make(map[int]func(float64) float64, len(g.Nodes)),
	}
	for _, node := range g.Nodes {
		n.nodes[node.ID] = node
		fn, err := activationByName(node.Activation)
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrMissingModel, node.ID, err)
		}
		n.fns[node.ID] = fn
	}
	for _, c := range g.Connections {
		if c.Enabled {
			n.incoming[c.Out] = append(n.incoming[c.Out], c)
		}
	}

	order, err := topoOrder(g)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingModel, err)
	}
	n.order = order
	return n, nil
}

// topoOrder runs Kahn's algorithm over the enabled node-to-node connections.
// Input pseudo-nodes impose no ordering; they are available before any node
// evaluates.
func topoOrder(g *Genome) ([]int, error) {
	indegree := make(map[int]int, len(g.Nodes))
	dependents := make(map[int][]int)
	for _, node := range g.Nodes {
		indegree[node.ID] = 0
	}
	for _, c := range g.Connections {
		if !c.Enabled || c.In < 0 {
			continue
		}
		indegree[c.Out]++
		dependents[c.In] = append(dependents[c.In], c.Out)
	}

	var ready []int
	for _, node := range g.Nodes {
		if indegree[node.ID] == 0 {
			ready = append(ready, node.ID)
		}
	}

	order := make([]int, 0, len(g.Nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	if len(order) != len(g.Nodes) {
		return nil, fmt.Errorf("genome has a cycle: not a feed-forward network")
	}
	return order, nil
}

// Activate feeds one input vector through the network and returns the output
// node values in genome output order.
func (n *Network) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != n.inputs {
		return nil, fmt.Errorf("network expects %d inputs, got %d", n.inputs, len(inputs))
	}

	values := make(map[int]float64, n.inputs+len(n.order))
	for i, v := range inputs {
		values[-(i + 1)] = v
	}

	for _, id := range n.order {
		sum := n.nodes[id].Bias
		for _, c := range n.incoming[id] {
			sum += c.Weight * values[c.In]
		}
		values[id] = n.fns[id](sum)
	}

	outputs := make([]float64, len(n.outputs))
	for i, id := range n.outputs {
		outputs[i] = values[id]
	}
	return outputs, nil
}

// InputCount returns the width of the expected feature vector.
func (n *Network) InputCount() int {
	return n.inputs
}

func activationByName(name string) (func(float64) float64, error) {
	switch name {
	case "sigmoid", "":
		return sigmoid, nil
	case "tanh":
		return math.Tanh, nil
	case "relu":
		return relu, nil
	case "identity":
		return identity, nil
	default:
		return nil, fmt.Errorf("unknown activation %q", name)
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func relu(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

func identity(x float64) float64 {
	return x
}
