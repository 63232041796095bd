package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"neuroevo/internal/config"
	"neuroevo/internal/eval"
	"neuroevo/internal/ga"
	"neuroevo/internal/logging"
	"neuroevo/internal/nn"
)

var (
	configPath  string
	generations int
	seed        int64
)

var rootCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Evolve a population of network weight sets toward a random target",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("generations") {
			cfg.Run.Generations = generations
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		console := logging.NewConsole(os.Stderr, cfg.Logging.Level)
		metrics := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath, console)
		if err := metrics.Init(); err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}
		defer closeMetrics(metrics, console)

		start := time.Now()
		best, err := run(cfg, metrics, console)
		if err != nil {
			return err
		}
		console.Info("training complete",
			"generations", cfg.Run.Generations,
			"elapsed", time.Since(start),
			"best_id", best.ID,
			"best_fitness", best.Fitness,
		)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config (defaults when empty)")
	rootCmd.Flags().IntVar(&generations, "generations", 0, "number of generations to run")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the operators")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run drives evaluate -> select -> crossover -> mutate for every generation
// and returns a copy of the best agent seen.
func run(cfg *config.Config, metrics *logging.Logger, console *slog.Logger) (*ga.Agent, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	topo := nn.DenseTopology(cfg.NN.Layers...)
	console.Info("starting",
		"layers", cfg.NN.Layers,
		"genome_size", topo.Size(),
		"population", cfg.GA.Population,
		"mutation_rate", cfg.GA.MutationRate,
	)

	fitness := eval.NewTargetFitness(topo, rand.New(rand.NewSource(cfg.Run.TargetSeed)))
	evaluator := eval.NewEvaluator(fitness)
	pop := ga.NewPopulation(cfg.GA.InitialPopulation, topo, rng)

	var bestEver *ga.Agent
	children, mutated := 0, 0

	for gen := 1; gen <= cfg.Run.Generations; gen++ {
		evaluator.Evaluate(pop)

		if best := pop.Best(); best != nil && (bestEver == nil || best.Fitness > bestEver.Fitness) {
			bestEver = best.Clone()
		}

		summary := logging.NewSummary(gen, eval.Summarize(pop), children, mutated)
		if err := metrics.LogGeneration(summary); err != nil {
			console.Warn("failed to write metrics", "gen", gen, "err", err)
		}

		if gen == cfg.Run.Generations {
			break
		}

		var err error
		children, mutated, err = nextGeneration(pop, topo, cfg, rng)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}
		console.Debug("bred", "gen", gen, "children", children, "mutated", mutated)
	}

	if bestEver == nil {
		evaluator.Evaluate(pop)
		if best := pop.Best(); best != nil {
			bestEver = best.Clone()
		}
	}
	if bestEver == nil {
		return nil, errors.New("empty population")
	}
	return bestEver, nil
}

// closeMetrics reports a failed flush instead of dropping it
func closeMetrics(metrics io.Closer, console *slog.Logger) {
	if err := metrics.Close(); err != nil {
		console.Warn("failed to close metrics", "err", err)
	}
}

// selectSurvivors shrinks pop to the parents of the next generation
func selectSurvivors(pop *ga.Population, cfg *config.Config) {
	if cfg.GA.Selection != config.SelectionThreshold {
		pop.Truncate(cfg.GA.Survivors)
		return
	}
	kept := ga.ThresholdSelection(pop, cfg.GA.SelectionDelta)
	if len(kept) == 0 {
		// keep the champion so crossover still has a parent
		if best := pop.Best(); best != nil {
			kept = []*ga.Agent{best}
		}
	}
	pop.Agents = kept
}

// nextGeneration selects survivors, refills by crossover and mutates the
// result in place
func nextGeneration(pop *ga.Population, topo nn.Topology, cfg *config.Config, rng *rand.Rand) (int, int, error) {
	selectSurvivors(pop, cfg)

	children, err := ga.Crossover(pop, topo, cfg.GA.Population, rng)
	if err != nil {
		return 0, 0, err
	}

	mutated, err := ga.Mutation(pop, cfg.GA.MutationRate, rng)
	if err != nil {
		return children, mutated, err
	}
	// survivor scores are stale once weights change
	pop.ResetFitness()
	return children, mutated, nil
}
