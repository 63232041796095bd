package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroevo/internal/config"
	"neuroevo/internal/ga"
	"neuroevo/internal/logging"
	"neuroevo/internal/nn"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.NN.Layers = []int{2, 3, 1}
	cfg.GA.Population = 12
	cfg.GA.InitialPopulation = 12
	cfg.GA.Survivors = 6
	cfg.Run.Generations = 15
	cfg.Logging.CSVPath = filepath.Join(t.TempDir(), "run.csv")
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunTracksBestAgent(t *testing.T) {
	cfg := smallConfig(t)
	var console bytes.Buffer
	metrics := logging.NewLogger(cfg.Logging.CSVPath, "", logging.NewConsole(&console, "info"))
	require.NoError(t, metrics.Init())

	best, err := run(cfg, metrics, logging.NewConsole(&console, "info"))
	require.NoError(t, err)
	require.NoError(t, metrics.Close())
	require.NotNil(t, best)

	f, err := os.Open(cfg.Logging.CSVPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, cfg.Run.Generations+1)

	first, err := strconv.ParseFloat(rows[1][2], 64)
	require.NoError(t, err)
	last, err := strconv.ParseFloat(rows[len(rows)-1][2], 64)
	require.NoError(t, err)
	// csv values are rounded to 4 places
	assert.GreaterOrEqual(t, best.Fitness, first-1e-4)
	assert.GreaterOrEqual(t, best.Fitness, last-1e-4)

	for _, row := range rows[1:] {
		assert.Equal(t, "12", row[1], "population size is held at the target")
	}
}

func TestNextGenerationRefillsPopulation(t *testing.T) {
	cfg := smallConfig(t)
	cfg.GA.MutationRate = 1
	topo := nn.DenseTopology(cfg.NN.Layers...)
	rng := rand.New(rand.NewSource(3))
	pop := ga.NewPopulation(cfg.GA.Population, topo, rng)
	for i, a := range pop.Agents {
		a.Fitness = float64(i)
	}

	children, mutated, err := nextGeneration(pop, topo, cfg, rng)
	require.NoError(t, err)

	assert.Equal(t, 6, children)
	assert.Equal(t, 12, mutated)
	assert.Equal(t, 12, pop.Size())
	for _, a := range pop.Agents {
		assert.Zero(t, a.Fitness)
		assert.True(t, topo.Equal(a.Network.Weights().Shapes()))
	}
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("disk full") }

func TestCloseMetricsReportsError(t *testing.T) {
	var console bytes.Buffer

	closeMetrics(failingCloser{}, logging.NewConsole(&console, "info"))

	assert.Contains(t, console.String(), "failed to close metrics")
	assert.Contains(t, console.String(), "disk full")
}

func TestSelectSurvivorsThreshold(t *testing.T) {
	cfg := smallConfig(t)
	cfg.GA.Selection = config.SelectionThreshold
	topo := nn.DenseTopology(cfg.NN.Layers...)
	pop := ga.NewPopulation(4, topo, rand.New(rand.NewSource(4)))
	for i, score := range []float64{1, 2, 3, 6} {
		pop.Agents[i].Fitness = score
	}

	selectSurvivors(pop, cfg)

	require.Equal(t, 2, pop.Size())
	assert.Equal(t, 3.0, pop.Agents[0].Fitness)
	assert.Equal(t, 6.0, pop.Agents[1].Fitness)
}

func TestSelectSurvivorsThresholdKeepsChampion(t *testing.T) {
	cfg := smallConfig(t)
	cfg.GA.Selection = config.SelectionThreshold
	cfg.GA.SelectionDelta = 100
	topo := nn.DenseTopology(cfg.NN.Layers...)
	pop := ga.NewPopulation(3, topo, rand.New(rand.NewSource(4)))
	for i, score := range []float64{1, 5, 2} {
		pop.Agents[i].Fitness = score
	}
	champion := pop.Agents[1]

	selectSurvivors(pop, cfg)

	require.Equal(t, 1, pop.Size())
	assert.Same(t, champion, pop.Agents[0])
}

func TestNextGenerationWithMutationDisabled(t *testing.T) {
	cfg := smallConfig(t)
	cfg.GA.MutationRate = 0
	topo := nn.DenseTopology(cfg.NN.Layers...)
	rng := rand.New(rand.NewSource(9))
	pop := ga.NewPopulation(cfg.GA.Population, topo, rng)

	_, mutated, err := nextGeneration(pop, topo, cfg, rng)
	require.NoError(t, err)

	// only an exact 0.0 draw passes a zero rate
	assert.LessOrEqual(t, mutated, 1)
}
