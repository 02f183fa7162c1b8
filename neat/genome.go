package neat

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMissingModel marks an absent or unusable network definition. It is a
// fatal configuration error: agents refuse to start a battle without a valid
// model, and no model failure can occur mid-battle.
var ErrMissingModel = errors.New("missing or invalid model")

// NodeGene is one network node: a bias and an activation function. Inputs are
// not listed as nodes; they are addressed by the negative IDs -1..-inputs.
type NodeGene struct {
	ID         int     `yaml:"id"`
	Bias       float64 `yaml:"bias"`
	Activation string  `yaml:"activation"`
}

// ConnGene is one weighted directed connection. Disabled connections are kept
// in the genome but carry no signal.
type ConnGene struct {
	In      int     `yaml:"in"`
	Out     int     `yaml:"out"`
	Weight  float64 `yaml:"weight"`
	Enabled bool    `yaml:"enabled"`
}

// Genome is a serialized variable-topology feed-forward network, the trained
// artifact a network agent loads at startup. Training itself happens
// elsewhere; only inference runs here.
type Genome struct {
	Inputs      int        `yaml:"inputs"`
	Outputs     []int      `yaml:"outputs"`
	Nodes       []NodeGene `yaml:"nodes"`
	Connections []ConnGene `yaml:"connections"`
}

// LoadGenome reads and validates a YAML genome file. Every failure wraps
// ErrMissingModel so callers can treat the whole class as one fatal
// configuration error.
func LoadGenome(path string) (*Genome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrMissingModel, path, err)
	}
	var g Genome
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrMissingModel, path, err)
	}
	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingModel, path, err)
	}
	return &g, nil
}

func (g *Genome) validate() error {
	if g.Inputs <= 0 {
		return fmt.Errorf("genome declares %d inputs", g.Inputs)
	}
	if len(g.Outputs) == 0 {
		return fmt.Errorf("genome declares no outputs")
	}

	ids := make(map[int]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID < 0 {
			return fmt.Errorf("node %d: negative IDs are reserved for inputs", n.ID)
		}
		if ids[n.ID] {
			return fmt.Errorf("duplicate node ID %d", n.ID)
		}
		if _, err := activationByName(n.Activation); err != nil {
			return fmt.Errorf("node %d: %v", n.ID, err)
		}
		ids[n.ID] = true
	}

	for _, out := range g.Outputs {
		if !ids[out] {
			return fmt.Errorf("output node %d is not defined", out)
		}
	}

	for _, c := range g.Connections {
		if !g.validSource(c.In, ids) {
			return fmt.Errorf("connection %d->%d: unknown source", c.In, c.Out)
		}
		if !ids[c.Out] {
			return fmt.Errorf("connection %d->%d: unknown sink", c.In, c.Out)
		}
	}
	return nil
}

// validSource accepts input pseudo-IDs (-1..-inputs) and defined node IDs.
func (g *Genome) validSource(id int, nodes map[int]bool) bool {
	if id < 0 {
		return -id <= g.Inputs
	}
	return nodes[id]
}
