package nn

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when a flat vector and a shape list disagree
// on the number of elements, or two weight sets do not share a topology.
var ErrShapeMismatch = errors.New("shape mismatch")

// Shape is the list of dimensions of a tensor
type Shape []int

// Size returns the number of elements (product of dims). An empty shape is a scalar.
func (s Shape) Size() int {
	size := 1
	for _, d := range s {
		size *= d
	}
	return size
}

// Equal reports whether two shapes have identical dims
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s Shape) valid() bool {
	for _, d := range s {
		if d < 0 {
			return false
		}
	}
	return true
}

func (s Shape) clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Tensor is a dense row-major block of weights
type Tensor struct {
	Shape Shape
	Data  []float64
}

// NewTensor allocates a zeroed tensor of the given shape
func NewTensor(shape Shape) Tensor {
	return Tensor{
		Shape: shape.clone(),
		Data:  make([]float64, shape.Size()),
	}
}

// WeightSet is the ordered list of a network's weight tensors
type WeightSet []Tensor

// Shapes returns a copy of every tensor's shape, in order
func (ws WeightSet) Shapes() []Shape {
	shapes := make([]Shape, len(ws))
	for i, t := range ws {
		shapes[i] = t.Shape.clone()
	}
	return shapes
}

// Len returns the total number of weights across all tensors
func (ws WeightSet) Len() int {
	n := 0
	for _, t := range ws {
		n += len(t.Data)
	}
	return n
}

// Clone makes a deep copy of the weight set
func (ws WeightSet) Clone() WeightSet {
	out := make(WeightSet, len(ws))
	for i, t := range ws {
		data := make([]float64, len(t.Data))
		copy(data, t.Data)
		out[i] = Tensor{Shape: t.Shape.clone(), Data: data}
	}
	return out
}

// Flatten concatenates every tensor into one freshly allocated vector.
// The returned shapes are what Unflatten needs to rebuild the set.
func Flatten(ws WeightSet) ([]float64, []Shape) {
	vec := make([]float64, 0, ws.Len())
	for _, t := range ws {
		vec = append(vec, t.Data...)
	}
	return vec, ws.Shapes()
}

// Unflatten splits vec back into tensors of the given shapes.
// The result never aliases vec.
func Unflatten(vec []float64, shapes []Shape) (WeightSet, error) {
	total := 0
	for i, s := range shapes {
		if !s.valid() {
			return nil, fmt.Errorf("tensor %d has invalid shape %v: %w", i, s, ErrShapeMismatch)
		}
		total += s.Size()
	}
	if total != len(vec) {
		return nil, fmt.Errorf("shapes need %d weights, vector has %d: %w", total, len(vec), ErrShapeMismatch)
	}

	ws := make(WeightSet, len(shapes))
	offset := 0
	for i, s := range shapes {
		t := NewTensor(s)
		copy(t.Data, vec[offset:offset+len(t.Data)])
		offset += len(t.Data)
		ws[i] = t
	}
	return ws, nil
}
