package nn

import (
	"fmt"
	"math"
)

// NormSource draws standard normal values
type NormSource interface {
	NormFloat64() float64
}

// Topology is the ordered list of tensor shapes shared by every network
// built from it.
type Topology []Shape

// DenseTopology returns the shapes of a fully connected stack.
// Each consecutive pair of sizes contributes an (in, out) weight matrix
// followed by an (out,) bias vector.
func DenseTopology(sizes ...int) Topology {
	if len(sizes) < 2 {
		return Topology{}
	}
	topo := make(Topology, 0, 2*(len(sizes)-1))
	for i := 0; i+1 < len(sizes); i++ {
		topo = append(topo, Shape{sizes[i], sizes[i+1]}, Shape{sizes[i+1]})
	}
	return topo
}

// Size returns the total number of weights (including biases)
func (t Topology) Size() int {
	size := 0
	for _, s := range t {
		size += s.Size()
	}
	return size
}

// Equal reports whether two topologies have the same shapes in the same order
func (t Topology) Equal(shapes []Shape) bool {
	if len(t) != len(shapes) {
		return false
	}
	for i := range t {
		if !t[i].Equal(shapes[i]) {
			return false
		}
	}
	return true
}

// Network owns one weight set laid out according to its topology
type Network struct {
	Topology Topology
	weights  WeightSet
}

// NewNetwork creates a network with zeroed weights
func NewNetwork(topo Topology) *Network {
	ws := make(WeightSet, len(topo))
	for i, s := range topo {
		ws[i] = NewTensor(s)
	}
	return &Network{Topology: topo, weights: ws}
}

// NewRandomNetwork creates a network with Xavier-like normal weights
func NewRandomNetwork(topo Topology, rng NormSource) *Network {
	n := NewNetwork(topo)
	size := topo.Size()
	if size == 0 {
		return n
	}
	scale := math.Sqrt(2.0 / float64(size))
	for _, t := range n.weights {
		for i := range t.Data {
			t.Data[i] = rng.NormFloat64() * scale
		}
	}
	return n
}

// Weights returns the network's current weight set.
// Callers must not modify it; use SetWeights to replace it.
func (n *Network) Weights() WeightSet {
	return n.weights
}

// SetWeights installs ws as the network's weights, replacing the old set
// wholesale. The shapes must match the topology.
func (n *Network) SetWeights(ws WeightSet) error {
	if !n.Topology.Equal(ws.Shapes()) {
		return fmt.Errorf("weights %v do not fit topology %v: %w", ws.Shapes(), n.Topology, ErrShapeMismatch)
	}
	for i, t := range ws {
		if len(t.Data) != t.Shape.Size() {
			return fmt.Errorf("tensor %d holds %d values for shape %v: %w", i, len(t.Data), t.Shape, ErrShapeMismatch)
		}
	}
	n.weights = ws
	return nil
}

// Genes returns a flattened copy of the weights
func (n *Network) Genes() []float64 {
	vec, _ := Flatten(n.weights)
	return vec
}

// Clone makes a deep copy of the network
func (n *Network) Clone() *Network {
	return &Network{Topology: n.Topology, weights: n.weights.Clone()}
}
