package ga

import (
	"errors"
	"fmt"

	"neuroevo/internal/nn"
)

// ErrGenomeTooShort is returned when a genome has no interior split point
var ErrGenomeTooShort = errors.New("genome too short for crossover")

// SplitPoint draws a split index k so that both children get at least one
// gene from each parent. k is uniform in [1, n-2], or 1 when n == 2.
func SplitPoint(n int, rng RandSource) (int, error) {
	if n < 2 {
		return 0, fmt.Errorf("genome of %d genes: %w", n, ErrGenomeTooShort)
	}
	hi := n - 2
	if hi < 1 {
		hi = 1
	}
	return 1 + rng.Intn(hi), nil
}

// SinglePointCrossover performs complementary single-point crossover.
// c1 = p1[:k] ++ p2[k:], c2 = p2[:k] ++ p1[k:]. Both children are new slices.
func SinglePointCrossover(p1, p2 []float64, rng RandSource) ([]float64, []float64, int, error) {
	if len(p1) != len(p2) {
		return nil, nil, 0, fmt.Errorf("parents have %d and %d genes: %w", len(p1), len(p2), nn.ErrShapeMismatch)
	}
	point, err := SplitPoint(len(p1), rng)
	if err != nil {
		return nil, nil, 0, err
	}

	size := len(p1)
	c1 := make([]float64, size)
	c2 := make([]float64, size)

	copy(c1[:point], p1[:point])
	copy(c1[point:], p2[point:])
	copy(c2[:point], p2[:point])
	copy(c2[point:], p1[point:])

	return c1, c2, point, nil
}

// Crossover grows pop toward targetSize by pairs of children bred from
// parents drawn uniformly from the population as it stood on entry.
// An odd gap leaves the last slot empty. It returns the number of
// children appended; on error pop is left unchanged.
func Crossover(pop *Population, template nn.Topology, targetSize int, rng RandSource) (int, error) {
	parents := pop.Agents
	if len(parents) == 0 || targetSize <= len(parents) {
		return 0, nil
	}
	pairs := (targetSize - len(parents)) / 2

	grown := make([]*Agent, len(parents), len(parents)+2*pairs)
	copy(grown, parents)

	for i := 0; i < pairs; i++ {
		p1, p2 := RandomParents(parents, rng)
		c1, c2, err := Breed(p1, p2, template, rng)
		if err != nil {
			return 0, err
		}
		grown = append(grown, c1, c2)
	}

	pop.Agents = grown
	return 2 * pairs, nil
}

// Breed produces two complementary children from p1 and p2.
// Shapes are taken from p1 and must match template.
func Breed(p1, p2 *Agent, template nn.Topology, rng RandSource) (*Agent, *Agent, error) {
	genes1, shapes := nn.Flatten(p1.Network.Weights())
	genes2, _ := nn.Flatten(p2.Network.Weights())
	if !template.Equal(shapes) {
		return nil, nil, fmt.Errorf("parent %s does not fit template: %w", p1.ID, nn.ErrShapeMismatch)
	}

	g1, g2, _, err := SinglePointCrossover(genes1, genes2, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("crossing %s with %s: %w", p1.ID, p2.ID, err)
	}

	c1, err := newChild(g1, shapes, template)
	if err != nil {
		return nil, nil, err
	}
	c2, err := newChild(g2, shapes, template)
	if err != nil {
		return nil, nil, err
	}
	return c1, c2, nil
}

func newChild(genes []float64, shapes []nn.Shape, template nn.Topology) (*Agent, error) {
	ws, err := nn.Unflatten(genes, shapes)
	if err != nil {
		return nil, err
	}
	net := nn.NewNetwork(template)
	if err := net.SetWeights(ws); err != nil {
		return nil, err
	}
	return NewAgent(net), nil
}
