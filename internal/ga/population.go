package ga

import (
	"sort"

	"github.com/google/uuid"

	"neuroevo/internal/nn"
)

// RandSource is the randomness the operators draw from.
// *rand.Rand satisfies it; seed one for reproducible runs.
type RandSource interface {
	Float64() float64
	Intn(n int) int
	NormFloat64() float64
}

// Agent represents an individual in the population
type Agent struct {
	ID      uuid.UUID
	Network *nn.Network
	Fitness float64
}

// NewAgent wraps a network in a fresh agent
func NewAgent(net *nn.Network) *Agent {
	return &Agent{ID: uuid.New(), Network: net}
}

// Clone creates a deep copy of an agent, keeping its ID
func (a *Agent) Clone() *Agent {
	return &Agent{
		ID:      a.ID,
		Network: a.Network.Clone(),
		Fitness: a.Fitness,
	}
}

// Population manages the collection of agents
type Population struct {
	Agents []*Agent
}

// NewPopulation creates a population of randomly initialised networks
func NewPopulation(size int, topo nn.Topology, rng RandSource) *Population {
	p := &Population{Agents: make([]*Agent, size)}
	for i := 0; i < size; i++ {
		p.Agents[i] = NewAgent(nn.NewRandomNetwork(topo, rng))
	}
	return p
}

// Size returns the population size
func (p *Population) Size() int {
	return len(p.Agents)
}

// SortByFitness sorts agents by fitness (descending)
func (p *Population) SortByFitness() {
	sort.SliceStable(p.Agents, func(i, j int) bool {
		return p.Agents[i].Fitness > p.Agents[j].Fitness
	})
}

// TopK returns the top K agents by fitness
func (p *Population) TopK(k int) []*Agent {
	p.SortByFitness()
	if k > len(p.Agents) {
		k = len(p.Agents)
	}
	if k < 0 {
		k = 0
	}
	return p.Agents[:k]
}

// Best returns the agent with highest fitness
func (p *Population) Best() *Agent {
	if len(p.Agents) == 0 {
		return nil
	}
	best := p.Agents[0]
	for _, a := range p.Agents[1:] {
		if a.Fitness > best.Fitness {
			best = a
		}
	}
	return best
}

// ResetFitness resets all agents' fitness to 0
func (p *Population) ResetFitness() {
	for _, a := range p.Agents {
		a.Fitness = 0
	}
}
