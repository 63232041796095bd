package ga

// SelectionPool returns the top agents to form the mating pool
func SelectionPool(pop *Population, poolSize int) []*Agent {
	return pop.TopK(poolSize)
}

// Truncate keeps only the n fittest agents
func (p *Population) Truncate(n int) {
	p.Agents = SelectionPool(p, n)
}

// RandomParents draws two parents uniformly, with replacement, from pool
func RandomParents(pool []*Agent, rng RandSource) (*Agent, *Agent) {
	if len(pool) == 0 {
		return nil, nil
	}
	p1 := pool[rng.Intn(len(pool))]
	p2 := pool[rng.Intn(len(pool))]
	return p1, p2
}

// ThresholdSelection keeps, in order, the agents whose fitness is at least
// mean + delta. The result may be empty.
func ThresholdSelection(pop *Population, delta float64) []*Agent {
	if len(pop.Agents) == 0 {
		return nil
	}
	mean := 0.0
	for _, a := range pop.Agents {
		mean += a.Fitness
	}
	mean /= float64(len(pop.Agents))

	kept := make([]*Agent, 0, len(pop.Agents))
	for _, a := range pop.Agents {
		if a.Fitness-mean >= delta {
			kept = append(kept, a)
		}
	}
	return kept
}
