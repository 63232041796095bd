package eval

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"neuroevo/internal/ga"
	"neuroevo/internal/nn"
)

// Fitness scores a network. Higher is better.
type Fitness interface {
	Score(net *nn.Network) float64
}

// FitnessFunc adapts a plain function to Fitness
type FitnessFunc func(net *nn.Network) float64

// Score calls f(net)
func (f FitnessFunc) Score(net *nn.Network) float64 {
	return f(net)
}

// TargetFitness rewards networks whose flattened weights sit close to a
// fixed target vector. The score is the negative Euclidean distance.
type TargetFitness struct {
	Target []float64
}

// NewTargetFitness draws a random target for the given topology
func NewTargetFitness(topo nn.Topology, rng ga.RandSource) *TargetFitness {
	target := make([]float64, topo.Size())
	for i := range target {
		target[i] = rng.NormFloat64()
	}
	return &TargetFitness{Target: target}
}

// Score returns -||genes - target||. A network of the wrong size scores -Inf.
func (f *TargetFitness) Score(net *nn.Network) float64 {
	genes := net.Genes()
	if len(genes) != len(f.Target) {
		return math.Inf(-1)
	}
	return -floats.Distance(genes, f.Target, 2)
}

// Evaluator handles fitness assignment for a population
type Evaluator struct {
	fitness Fitness
}

// NewEvaluator creates a new evaluator
func NewEvaluator(fitness Fitness) *Evaluator {
	return &Evaluator{fitness: fitness}
}

// EvaluateAgent scores a single agent and stores the result
func (e *Evaluator) EvaluateAgent(agent *ga.Agent) float64 {
	agent.Fitness = e.fitness.Score(agent.Network)
	return agent.Fitness
}

// Evaluate scores every agent in order
func (e *Evaluator) Evaluate(pop *ga.Population) {
	for _, agent := range pop.Agents {
		e.EvaluateAgent(agent)
	}
}
