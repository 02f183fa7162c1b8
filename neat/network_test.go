package neat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadGenome(t *testing.T) {
	t.Run("a missing file is a missing model", func(t *testing.T) {
		_, err := LoadGenome(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorIs(t, err, ErrMissingModel)
	})

	t.Run("unparsable yaml is a missing model", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("nodes: {not a list"), 0o644))

		_, err := LoadGenome(path)
		require.ErrorIs(t, err, ErrMissingModel)
	})

	t.Run("a well-formed genome loads", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "genome.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
inputs: 2
outputs: [0]
nodes:
  - id: 0
    bias: 0.1
    activation: sigmoid
connections:
  - {in: -1, out: 0, weight: 0.5, enabled: true}
  - {in: -2, out: 0, weight: -0.5, enabled: true}
`), 0o644))

		g, err := LoadGenome(path)
		require.NoError(t, err)
		require.Equal(t, 2, g.Inputs)
		require.Len(t, g.Connections, 2)
	})

	t.Run("unknown activations are rejected", func(t *testing.T) {
		g := &Genome{
			Inputs:  1,
			Outputs: []int{0},
			Nodes:   []NodeGene{{ID: 0, Activation: "warp"}},
		}
		require.Error(t, g.validate())
	})

	t.Run("dangling connections are rejected", func(t *testing.T) {
		g := &Genome{
			Inputs:      1,
			Outputs:     []int{0},
			Nodes:       []NodeGene{{ID: 0}},
			Connections: []ConnGene{{In: -5, Out: 0, Weight: 1, Enabled: true}},
		}
		require.Error(t, g.validate())
	})
}

func TestNewNetwork(t *testing.T) {
	t.Run("cyclic genomes are rejected", func(t *testing.T) {
		g := &Genome{
			Inputs:  1,
			Outputs: []int{0},
			Nodes:   []NodeGene{{ID: 0, Activation: "identity"}, {ID: 1, Activation: "identity"}},
			Connections: []ConnGene{
				{In: 0, Out: 1, Weight: 1, Enabled: true},
				{In: 1, Out: 0, Weight: 1, Enabled: true},
			},
		}
		_, err := NewNetwork(g)
		require.ErrorIs(t, err, ErrMissingModel)
	})

	t.Run("disabled connections break cycles and carry no signal", func(t *testing.T) {
		g := &Genome{
			Inputs:  1,
			Outputs: []int{0},
			Nodes:   []NodeGene{{ID: 0, Activation: "identity"}, {ID: 1, Activation: "identity"}},
			Connections: []ConnGene{
				{In: -1, Out: 0, Weight: 2, Enabled: true},
				{In: -1, Out: 1, Weight: 100, Enabled: true},
				{In: 1, Out: 0, Weight: 100, Enabled: false},
			},
		}
		net, err := NewNetwork(g)
		require.NoError(t, err)

		out, err := net.Activate([]float64{3})
		require.NoError(t, err)
		require.Equal(t, []float64{6}, out)
	})
}

func TestNetworkActivate(t *testing.T) {
	t.Run("a hidden layer evaluates in topological order", func(t *testing.T) {
		// in -> hidden (identity, x2) -> out (identity, +1 bias)
		g := &Genome{
			Inputs:  1,
			Outputs: []int{1},
			Nodes: []NodeGene{
				{ID: 1, Bias: 1, Activation: "identity"},
				{ID: 2, Activation: "identity"},
			},
			Connections: []ConnGene{
				{In: -1, Out: 2, Weight: 2, Enabled: true},
				{In: 2, Out: 1, Weight: 1, Enabled: true},
			},
		}
		net, err := NewNetwork(g)
		require.NoError(t, err)

		out, err := net.Activate([]float64{5})
		require.NoError(t, err)
		require.Equal(t, []float64{11}, out)
	})

	t.Run("evaluation is deterministic for a fixed genome and inputs", func(t *testing.T) {
		g := &Genome{
			Inputs:  2,
			Outputs: []int{0},
			Nodes:   []NodeGene{{ID: 0, Bias: 0.3, Activation: "tanh"}},
			Connections: []ConnGene{
				{In: -1, Out: 0, Weight: 0.7, Enabled: true},
				{In: -2, Out: 0, Weight: -0.2, Enabled: true},
			},
		}
		net, err := NewNetwork(g)
		require.NoError(t, err)

		first, err := net.Activate([]float64{0.5, 0.9})
		require.NoError(t, err)
		second, err := net.Activate([]float64{0.5, 0.9})
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("input width is enforced", func(t *testing.T) {
		g := &Genome{
			Inputs:  3,
			Outputs: []int{0},
			Nodes:   []NodeGene{{ID: 0}},
		}
		net, err := NewNetwork(g)
		require.NoError(t, err)

		_, err = net.Activate([]float64{1})
		require.Error(t, err)
	})
}
