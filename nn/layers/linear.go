package layers

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"inkdigit/tensor"
)

// ErrShape marks parameter tables whose dimensions do not fit together.
var ErrShape = errors.New("shape mismatch")

// Linear is a fully-connected layer: y = Wᵀx + B, with W stored as
// [inDim][outDim] so that y[i] = B[i] + Σ_j x[j]·W[j][i].
type Linear struct {
	W *mat.Dense
	B *mat.VecDense
}

// NewLinear builds a layer from a [inDim, outDim] weight tensor and an
// [outDim] bias tensor. The tensors are copied.
func NewLinear(w, b *tensor.Tensor) (*Linear, error) {
	if w == nil || len(w.Shape) != 2 {
		var shape []int
		if w != nil {
			shape = w.Shape
		}
		return nil, errors.Wrapf(ErrShape, "weights must be 2-D, got %v", shape)
	}
	inDim, outDim := w.Shape[0], w.Shape[1]
	if inDim <= 0 || outDim <= 0 {
		return nil, errors.Wrapf(ErrShape, "weights have empty shape %v", w.Shape)
	}
	if err := w.CheckShape(inDim, outDim); err != nil {
		return nil, errors.Wrapf(ErrShape, "weights: %v", err)
	}
	if err := b.CheckShape(outDim); err != nil {
		return nil, errors.Wrapf(ErrShape, "bias for %dx%d weights: %v", inDim, outDim, err)
	}
	return &Linear{W: w.Mat(), B: b.Vec()}, nil
}

// Dims returns the input and output widths.
func (l *Linear) Dims() (inDim, outDim int) {
	return l.W.Dims()
}

// Forward computes the pre-activation vector for x.
func (l *Linear) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	inDim, outDim := l.Dims()
	if x.Len() != inDim {
		return nil, errors.Wrapf(ErrShape, "linear %dx%d got input of length %d", inDim, outDim, x.Len())
	}
	y := mat.NewVecDense(outDim, nil)
	y.MulVec(l.W.T(), x)
	y.AddVec(y, l.B)
	return y, nil
}

func (l *Linear) String() string {
	inDim, outDim := l.Dims()
	return fmt.Sprintf("linear(%d->%d)", inDim, outDim)
}
