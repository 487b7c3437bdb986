package nn

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"inkdigit/nn/layers"
	"inkdigit/tensor"
)

// Network widths. The input is a Resolution×Resolution intensity grid.
const (
	Resolution  = 28
	InputSize   = Resolution * Resolution
	Hidden1Size = 128
	Hidden2Size = 32
	OutputSize  = 10
)

// ErrShape is returned (wrapped) when parameter tables do not have the
// widths above.
var ErrShape = layers.ErrShape

var widths = [...]int{InputSize, Hidden1Size, Hidden2Size, OutputSize}

// Intensity is the network input: per-pixel stroke opacity in [0,1], row-major.
type Intensity [InputSize]float64

// Probabilities is the network output, one entry per digit.
type Probabilities [OutputSize]float64

// Params holds the pre-trained tables. Wk has shape [in, out], Bk has shape [out].
type Params struct {
	W0, B0 *tensor.Tensor
	W1, B1 *tensor.Tensor
	W2, B2 *tensor.Tensor
}

// Trace records every layer's vectors for one forward pass.
type Trace struct {
	PreActivations [3][]float64
	Activations    [3][]float64
}

// Network is the fixed 784→128→32→10 classifier. It is immutable after
// construction and safe to share.
type Network struct {
	linears [3]*layers.Linear
	acts    [3]*layers.Activation
	seq     Sequential
}

// NewNetwork validates every table against the fixed widths and builds the
// layers. Any mismatch is reported with ErrShape.
func NewNetwork(p Params) (*Network, error) {
	pairs := [3][2]*tensor.Tensor{{p.W0, p.B0}, {p.W1, p.B1}, {p.W2, p.B2}}
	actNames := [3]string{"relu", "relu", "softmax"}

	net := &Network{}
	for k, pair := range pairs {
		in, out := widths[k], widths[k+1]
		if err := pair[0].CheckShape(in, out); err != nil {
			return nil, errors.Wrapf(ErrShape, "layer %d weights: %v", k, err)
		}
		if err := pair[1].CheckShape(out); err != nil {
			return nil, errors.Wrapf(ErrShape, "layer %d bias: %v", k, err)
		}
		lin, err := layers.NewLinear(pair[0], pair[1])
		if err != nil {
			return nil, errors.WithMessagef(err, "layer %d", k)
		}
		act, err := layers.NewActivation(actNames[k])
		if err != nil {
			return nil, err
		}
		net.linears[k] = lin
		net.acts[k] = act
		net.seq.Layers = append(net.seq.Layers, lin, act)
	}
	return net, nil
}

// Predict runs the full forward pass.
func (n *Network) Predict(x *Intensity) Probabilities {
	out, err := n.seq.Forward(mat.NewVecDense(InputSize, append([]float64(nil), x[:]...)))
	if err != nil {
		// widths are checked in NewNetwork
		panic(err)
	}
	return toProbabilities(out)
}

// Trace runs the forward pass and keeps every intermediate vector.
func (n *Network) Trace(x *Intensity) Trace {
	var tr Trace
	v := mat.NewVecDense(InputSize, append([]float64(nil), x[:]...))
	for k := range n.linears {
		pre, err := n.linears[k].Forward(v)
		if err != nil {
			panic(err)
		}
		v, _ = n.acts[k].Forward(pre)
		tr.PreActivations[k] = append([]float64(nil), pre.RawVector().Data...)
		tr.Activations[k] = append([]float64(nil), v.RawVector().Data...)
	}
	return tr
}

// fromHidden finishes a forward pass given layer 1's pre-activations.
func (n *Network) fromHidden(pre []float64) (Probabilities, error) {
	if len(pre) != Hidden1Size {
		return Probabilities{}, errors.Wrapf(ErrShape, "hidden pre-activation has %d values", len(pre))
	}
	tail := Sequential{Layers: n.seq.Layers[1:]}
	out, err := tail.Forward(mat.NewVecDense(Hidden1Size, append([]float64(nil), pre...)))
	if err != nil {
		return Probabilities{}, err
	}
	return toProbabilities(out), nil
}

// ParamCount returns the number of weights and biases.
func (n *Network) ParamCount() int {
	total := 0
	for _, lin := range n.linears {
		in, out := lin.Dims()
		total += in*out + out
	}
	return total
}

func (n *Network) String() string {
	return fmt.Sprintf("network(%s)", n.seq.String())
}

func toProbabilities(v *mat.VecDense) Probabilities {
	var p Probabilities
	for i := range p {
		p[i] = v.AtVec(i)
	}
	return p
}
