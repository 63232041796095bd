package eval

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"neuroevo/internal/ga"
)

// Stats summarises the fitness of one generation
type Stats struct {
	Size        int
	BestFitness float64
	MeanFitness float64
	StdFitness  float64 // population std, not sample
	GenomeSize  int
}

// Summarize computes statistics over the current fitness values
func Summarize(pop *ga.Population) Stats {
	n := len(pop.Agents)
	if n == 0 {
		return Stats{}
	}

	scores := make([]float64, n)
	for i, a := range pop.Agents {
		scores[i] = a.Fitness
	}

	mean, std := stat.PopMeanStdDev(scores, nil)
	return Stats{
		Size:        n,
		BestFitness: floats.Max(scores),
		MeanFitness: mean,
		StdFitness:  std,
		GenomeSize:  pop.Agents[0].Network.Weights().Len(),
	}
}
