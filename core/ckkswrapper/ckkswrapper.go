// Package ckkswrapper bundles the CKKS objects needed to run a linear layer
// on an encrypted intensity vector.
package ckkswrapper

import (
	"github.com/pkg/errors"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/ckks"
)

// DefaultLogN gives 4096 slots, enough for a 784-wide input.
const DefaultLogN = 13

// HeContext holds parameters, keys and the evaluator. The secret key never
// leaves the context; the Decryptor is the only thing built from it.
type HeContext struct {
	Params    ckks.Parameters
	Encoder   *ckks.Encoder
	Encryptor *rlwe.Encryptor
	Decryptor *rlwe.Decryptor
	Evaluator *ckks.Evaluator

	rotations []int
}

// NewHeContext creates a context with DefaultLogN and rotation keys for
// tree-summing vectors of up to inDim slots.
func NewHeContext(inDim int) (*HeContext, error) {
	return NewHeContextWithLogN(DefaultLogN, inDim)
}

// NewHeContextWithLogN creates a context with ring dimension 2^logN.
// One rescale is available, which is what a plaintext-weight multiply needs.
func NewHeContextWithLogN(logN, inDim int) (*HeContext, error) {
	params, err := ckks.NewParametersFromLiteral(ckks.ParametersLiteral{
		LogN:            logN,
		LogQ:            []int{55, 40},
		LogP:            []int{55},
		LogDefaultScale: 40,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "ckks parameters for logN=%d", logN)
	}
	if inDim > params.MaxSlots() {
		return nil, errors.Errorf("input of %d values does not fit in %d slots (logN=%d)", inDim, params.MaxSlots(), logN)
	}

	kgen := rlwe.NewKeyGenerator(params)
	sk, pk := kgen.GenKeyPairNew()
	rlk := kgen.GenRelinearizationKeyNew(sk)

	rotations := TreeSumRotations(inDim)
	galEls := make([]uint64, len(rotations))
	for i, rot := range rotations {
		galEls[i] = params.GaloisElement(rot)
	}
	galKeys := kgen.GenGaloisKeysNew(galEls, sk)
	evk := rlwe.NewMemEvaluationKeySet(rlk, galKeys...)

	return &HeContext{
		Params:    params,
		Encoder:   ckks.NewEncoder(params),
		Encryptor: rlwe.NewEncryptor(params, pk),
		Decryptor: rlwe.NewDecryptor(params, sk),
		Evaluator: ckks.NewEvaluator(params, evk),
		rotations: rotations,
	}, nil
}

// TreeSumRotations returns the power-of-two left rotations that fold the
// first n slots into slot 0.
func TreeSumRotations(n int) []int {
	rots := []int{}
	for step := 1; step < n; step *= 2 {
		rots = append(rots, step)
	}
	return rots
}

// Rotations reports the rotation steps this context holds keys for.
func (h *HeContext) Rotations() []int {
	return append([]int(nil), h.rotations...)
}

// EncryptVector encodes values into the leading slots at the top level and
// encrypts them with the public key.
func (h *HeContext) EncryptVector(values []float64) (*rlwe.Ciphertext, error) {
	slots := h.Params.MaxSlots()
	if len(values) > slots {
		return nil, errors.Errorf("%d values exceed %d slots", len(values), slots)
	}
	vec := make([]complex128, slots)
	for i, v := range values {
		vec[i] = complex(v, 0)
	}
	pt := ckks.NewPlaintext(h.Params, h.Params.MaxLevel())
	if err := h.Encoder.Encode(vec, pt); err != nil {
		return nil, errors.Wrap(err, "encode")
	}
	ct, err := h.Encryptor.EncryptNew(pt)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt")
	}
	return ct, nil
}

// DecryptVector returns the real parts of the first n slots of ct.
func (h *HeContext) DecryptVector(ct *rlwe.Ciphertext, n int) ([]float64, error) {
	pt := h.Decryptor.DecryptNew(ct)
	decoded := make([]complex128, h.Params.MaxSlots())
	if err := h.Encoder.Decode(pt, decoded); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if n > len(decoded) {
		n = len(decoded)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = real(decoded[i])
	}
	return out, nil
}
