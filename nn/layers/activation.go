package layers

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Func is an element-wise or vector-wide activation. It never modifies its
// argument.
type Func func(x []float64) []float64

// SupportedActivations maps activation names to their implementation.
var SupportedActivations = map[string]Func{
	"relu":    ReLU,
	"softmax": Softmax,
}

// ReLU returns max(0, x) for every element.
func ReLU(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if v > 0 {
			out[i] = v
		}
	}
	return out
}

// Softmax returns the normalized exponential of x. The maximum is
// subtracted first so large logits do not overflow.
func Softmax(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	maxLogit := x[0]
	for _, v := range x {
		if v > maxLogit {
			maxLogit = v
		}
	}
	expSum := 0.0
	for i, v := range x {
		e := math.Exp(v - maxLogit)
		out[i] = e
		expSum += e
	}
	for i := range out {
		out[i] /= expSum
	}
	return out
}

// Activation is a layer that applies a named activation function.
type Activation struct {
	name string
	fn   Func
}

// NewActivation creates a new activation layer.
func NewActivation(name string) (*Activation, error) {
	fn, ok := SupportedActivations[name]
	if !ok {
		return nil, errors.Errorf("unsupported activation: %q", name)
	}
	return &Activation{name: name, fn: fn}, nil
}

// Forward applies the activation to x and returns a new vector.
func (a *Activation) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	out := a.fn(values(x))
	return mat.NewVecDense(len(out), out), nil
}

func (a *Activation) String() string {
	return a.name
}

func values(v mat.Vector) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
