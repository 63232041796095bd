package ga

import (
	"fmt"

	"neuroevo/internal/nn"
)

// DefaultMutationRate is the per-agent mutation probability
const DefaultMutationRate = 0.1

// Mutation visits every agent once and, with probability rate, replaces one
// of its weights. Population size and order never change. It returns the
// number of agents mutated.
func Mutation(pop *Population, rate float64, rng RandSource) (int, error) {
	mutated := 0
	for _, a := range pop.Agents {
		if rng.Float64() > rate {
			continue
		}
		ok, err := MutateAgent(a, rng)
		if err != nil {
			return mutated, err
		}
		if ok {
			mutated++
		}
	}
	return mutated, nil
}

// MutateAgent replaces one uniformly chosen weight with a standard normal
// draw and installs the rebuilt weight set. It reports false when the
// agent has no weights to perturb.
func MutateAgent(a *Agent, rng RandSource) (bool, error) {
	genes, shapes := nn.Flatten(a.Network.Weights())
	if len(genes) == 0 {
		return false, nil
	}

	genes[rng.Intn(len(genes))] = rng.NormFloat64()

	ws, err := nn.Unflatten(genes, shapes)
	if err != nil {
		return false, fmt.Errorf("mutating %s: %w", a.ID, err)
	}
	if err := a.Network.SetWeights(ws); err != nil {
		return false, fmt.Errorf("mutating %s: %w", a.ID, err)
	}
	return true, nil
}
