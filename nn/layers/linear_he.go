package layers

import (
	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/ckks"

	"inkdigit/core/ckkswrapper"
)

// Progress is called after each output column of an encrypted forward pass.
type Progress func(done, total int)

// ForwardCipher evaluates the layer on an encrypted input whose first inDim
// slots hold x. It returns one ciphertext per output; slot 0 of ciphertext i
// holds B[i] + Σ_j x[j]·W[j][i]. The weights stay in plaintext. The
// returned counts cover every homomorphic operation performed.
func (l *Linear) ForwardCipher(he *ckkswrapper.HeContext, ct *rlwe.Ciphertext, progress Progress) ([]*rlwe.Ciphertext, OpCounts, error) {
	inDim, outDim := l.Dims()
	if inDim > he.Params.MaxSlots() {
		return nil, OpCounts{}, errors.Wrapf(ErrShape, "input width %d exceeds %d slots", inDim, he.Params.MaxSlots())
	}
	rots := ckkswrapper.TreeSumRotations(inDim)
	if len(rots) > len(he.Rotations()) {
		return nil, OpCounts{}, errors.Errorf("context has rotation keys for %d steps, layer needs %d", len(he.Rotations()), len(rots))
	}

	eval := NewCountingEvaluator(he.Evaluator)
	out := make([]*rlwe.Ciphertext, outDim)
	for i := 0; i < outDim; i++ {
		res, err := l.columnDot(he, eval, ct, i, rots)
		if err != nil {
			return nil, eval.Ops, errors.Wrapf(err, "output %d", i)
		}
		out[i] = res
		if progress != nil {
			progress(i+1, outDim)
		}
	}
	return out, eval.Ops, nil
}

// columnDot multiplies ct by column i of W, tree-sums into slot 0 and adds
// the bias.
func (l *Linear) columnDot(he *ckkswrapper.HeContext, eval *CountingEvaluator, ct *rlwe.Ciphertext, i int, rots []int) (*rlwe.Ciphertext, error) {
	inDim, _ := l.Dims()
	slots := he.Params.MaxSlots()

	col := make([]complex128, slots)
	for j := 0; j < inDim; j++ {
		col[j] = complex(l.W.At(j, i), 0)
	}
	colPT := ckks.NewPlaintext(he.Params, ct.Level())
	colPT.Scale = he.Params.DefaultScale()
	if err := he.Encoder.Encode(col, colPT); err != nil {
		return nil, errors.Wrap(err, "encode column")
	}

	acc, err := eval.MulNew(ct, colPT)
	if err != nil {
		return nil, errors.Wrap(err, "multiply")
	}
	if err := eval.Rescale(acc, acc); err != nil {
		return nil, errors.Wrap(err, "rescale")
	}

	for _, step := range rots {
		rot, err := eval.RotateNew(acc, step)
		if err != nil {
			return nil, errors.Wrapf(err, "rotate by %d", step)
		}
		if acc, err = eval.AddNew(acc, rot); err != nil {
			return nil, errors.Wrapf(err, "add rotation %d", step)
		}
	}

	bias := make([]complex128, slots)
	bias[0] = complex(l.B.AtVec(i), 0)
	biasPT := ckks.NewPlaintext(he.Params, acc.Level())
	biasPT.Scale = acc.Scale
	if err := he.Encoder.Encode(bias, biasPT); err != nil {
		return nil, errors.Wrap(err, "encode bias")
	}
	acc, err = eval.AddPlainNew(acc, biasPT)
	if err != nil {
		return nil, errors.Wrap(err, "add bias")
	}
	return acc, nil
}
