package nn

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Module defines a single layer/unit in the network.
type Module interface {
	Forward(x *mat.VecDense) (*mat.VecDense, error)
	fmt.Stringer
}

// Sequential chains multiple Modules in order.
type Sequential struct {
	Layers []Module
}

// Forward applies each layer in sequence.
func (s *Sequential) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	var err error
	out := x
	for _, layer := range s.Layers {
		out, err = layer.Forward(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Sequential) String() string {
	names := make([]string, len(s.Layers))
	for i, layer := range s.Layers {
		names[i] = layer.String()
	}
	return strings.Join(names, " -> ")
}
