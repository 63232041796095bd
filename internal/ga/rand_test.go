package ga

import (
	"testing"

	"neuroevo/internal/nn"
)

// scriptedRand replays fixed draws and fails the test when a script runs out
type scriptedRand struct {
	t      *testing.T
	floats []float64
	ints   []int
	norms  []float64
	bounds []int // every n passed to Intn
}

func (r *scriptedRand) Float64() float64 {
	r.t.Helper()
	if len(r.floats) == 0 {
		r.t.Fatal("unexpected Float64 draw")
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	r.t.Helper()
	r.bounds = append(r.bounds, n)
	if len(r.ints) == 0 {
		r.t.Fatal("unexpected Intn draw")
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v < 0 || v >= n {
		r.t.Fatalf("scripted Intn value %d outside [0, %d)", v, n)
	}
	return v
}

func (r *scriptedRand) NormFloat64() float64 {
	r.t.Helper()
	if len(r.norms) == 0 {
		r.t.Fatal("unexpected NormFloat64 draw")
	}
	v := r.norms[0]
	r.norms = r.norms[1:]
	return v
}

// agentWith builds an agent holding a single vector tensor
func agentWith(t *testing.T, genes ...float64) *Agent {
	t.Helper()
	topo := nn.Topology{{len(genes)}}
	net := nn.NewNetwork(topo)
	ws, err := nn.Unflatten(genes, topo)
	if err != nil {
		t.Fatal(err)
	}
	if err := net.SetWeights(ws); err != nil {
		t.Fatal(err)
	}
	return NewAgent(net)
}
