package eval

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroevo/internal/ga"
	"neuroevo/internal/nn"
)

func networkWith(t *testing.T, genes ...float64) *nn.Network {
	t.Helper()
	topo := nn.Topology{{len(genes)}}
	ws, err := nn.Unflatten(genes, topo)
	require.NoError(t, err)
	net := nn.NewNetwork(topo)
	require.NoError(t, net.SetWeights(ws))
	return net
}

func TestTargetFitnessScore(t *testing.T) {
	f := &TargetFitness{Target: []float64{0, 0, 0}}

	assert.Equal(t, 0.0, f.Score(networkWith(t, 0, 0, 0)))
	assert.InDelta(t, -5.0, f.Score(networkWith(t, 3, 4, 0)), 1e-12)
	assert.True(t, math.IsInf(f.Score(networkWith(t, 1, 2)), -1))
}

func TestTargetFitnessPrefersCloserNetworks(t *testing.T) {
	f := &TargetFitness{Target: []float64{1, 1}}

	near := f.Score(networkWith(t, 1, 0.9))
	far := f.Score(networkWith(t, -3, 2))

	assert.Greater(t, near, far)
}

func TestNewTargetFitnessSize(t *testing.T) {
	topo := nn.DenseTopology(3, 2)
	f := NewTargetFitness(topo, rand.New(rand.NewSource(1)))

	assert.Len(t, f.Target, topo.Size())
}

func TestEvaluateSetsFitness(t *testing.T) {
	pop := &ga.Population{Agents: []*ga.Agent{
		ga.NewAgent(networkWith(t, 1, 2)),
		ga.NewAgent(networkWith(t, 3, 4)),
	}}
	sum := FitnessFunc(func(net *nn.Network) float64 {
		total := 0.0
		for _, g := range net.Genes() {
			total += g
		}
		return total
	})

	NewEvaluator(sum).Evaluate(pop)

	assert.Equal(t, 3.0, pop.Agents[0].Fitness)
	assert.Equal(t, 7.0, pop.Agents[1].Fitness)
}

func TestSummarize(t *testing.T) {
	pop := &ga.Population{}
	for _, s := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		a := ga.NewAgent(networkWith(t, 1, 2, 3))
		a.Fitness = s
		pop.Agents = append(pop.Agents, a)
	}

	stats := Summarize(pop)

	assert.Equal(t, 8, stats.Size)
	assert.Equal(t, 9.0, stats.BestFitness)
	assert.InDelta(t, 5.0, stats.MeanFitness, 1e-12)
	assert.InDelta(t, 2.0, stats.StdFitness, 1e-12)
	assert.Equal(t, 3, stats.GenomeSize)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(&ga.Population{}))
}
