package tensor

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Tensor is a simple n-D array backed by a flat []float64.
// Weight matrices are stored as [inputDim, outputDim] in row-major order.
type Tensor struct {
	Data  []float64
	Shape []int
}

// New allocates a Tensor of given shape (product of dims = len(Data)).
func New(shape ...int) *Tensor {
	total := 1
	for _, d := range shape {
		total *= d
	}
	return &Tensor{
		Data:  make([]float64, total),
		Shape: append([]int(nil), shape...),
	}
}

// NewWithData creates a 1-D tensor from existing data slice.
func NewWithData(data []float64) *Tensor {
	return &Tensor{
		Data:  append([]float64(nil), data...),
		Shape: []int{len(data)},
	}
}

// FromRows builds a 2-D tensor from a nested table. All rows must have the
// same length.
func FromRows(rows [][]float64) (*Tensor, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows")
	}
	cols := len(rows[0])
	t := New(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.Errorf("ragged table: row %d has %d columns, row 0 has %d", i, len(row), cols)
		}
		copy(t.Data[i*cols:], row)
	}
	return t, nil
}

// CheckShape returns an error if t does not have exactly the given shape.
func (t *Tensor) CheckShape(want ...int) error {
	if t == nil {
		return errors.Errorf("missing tensor, want shape %v", want)
	}
	if len(t.Shape) != len(want) {
		return errors.Errorf("shape mismatch: %v vs %v", t.Shape, want)
	}
	total := 1
	for i := range want {
		if t.Shape[i] != want[i] {
			return errors.Errorf("shape mismatch: %v vs %v", t.Shape, want)
		}
		total *= want[i]
	}
	if len(t.Data) != total {
		return errors.Errorf("tensor of shape %v holds %d values, want %d", t.Shape, len(t.Data), total)
	}
	return nil
}

// Mat views a 2-D tensor as a gonum matrix. The data is copied so the
// matrix never aliases the artifact.
func (t *Tensor) Mat() *mat.Dense {
	if len(t.Shape) != 2 {
		panic(fmt.Sprintf("Mat: expected 2-D tensor, got shape %v", t.Shape))
	}
	return mat.NewDense(t.Shape[0], t.Shape[1], append([]float64(nil), t.Data...))
}

// Vec views a 1-D tensor as a gonum vector (copied).
func (t *Tensor) Vec() *mat.VecDense {
	if len(t.Shape) != 1 {
		panic(fmt.Sprintf("Vec: expected 1-D tensor, got shape %v", t.Shape))
	}
	return mat.NewVecDense(t.Shape[0], append([]float64(nil), t.Data...))
}

// At returns the element at the given indices.
// For a 2D tensor [a, b], At(i, j) returns the element at position [i][j].
func (t *Tensor) At(indices ...int) float64 {
	return t.Data[t.offset("At", indices)]
}

// Set sets the element at the given indices to the given value.
func (t *Tensor) Set(value float64, indices ...int) {
	t.Data[t.offset("Set", indices)] = value
}

func (t *Tensor) offset(op string, indices []int) int {
	if len(indices) != len(t.Shape) {
		panic(fmt.Sprintf("%s: expected %d indices, got %d", op, len(t.Shape), len(indices)))
	}

	// Compute linear index
	idx := 0
	stride := 1
	for i := len(indices) - 1; i >= 0; i-- {
		if indices[i] < 0 || indices[i] >= t.Shape[i] {
			panic(fmt.Sprintf("%s: index %d out of bounds for dimension %d (shape: %v)", op, indices[i], i, t.Shape))
		}
		idx += indices[i] * stride
		stride *= t.Shape[i]
	}
	return idx
}
