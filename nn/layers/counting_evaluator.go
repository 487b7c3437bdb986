package layers

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/ckks"
)

// OpCounts tallies homomorphic operations.
type OpCounts struct {
	Rotations int
	Muls      int
	Rescales  int
	Adds      int
}

func (c OpCounts) String() string {
	return fmt.Sprintf("rotations=%d muls=%d rescales=%d adds=%d", c.Rotations, c.Muls, c.Rescales, c.Adds)
}

// CountingEvaluator wraps a ckks.Evaluator to count operations
type CountingEvaluator struct {
	eval *ckks.Evaluator
	Ops  OpCounts
}

// NewCountingEvaluator creates a new counting evaluator
func NewCountingEvaluator(eval *ckks.Evaluator) *CountingEvaluator {
	return &CountingEvaluator{eval: eval}
}

// RotateNew wraps eval.RotateNew and counts rotations
func (c *CountingEvaluator) RotateNew(ct *rlwe.Ciphertext, k int) (*rlwe.Ciphertext, error) {
	c.Ops.Rotations++
	return c.eval.RotateNew(ct, k)
}

// MulNew wraps eval.MulNew for a plaintext operand and counts multiplications
func (c *CountingEvaluator) MulNew(ct *rlwe.Ciphertext, pt *rlwe.Plaintext) (*rlwe.Ciphertext, error) {
	c.Ops.Muls++
	return c.eval.MulNew(ct, pt)
}

// Rescale wraps eval.Rescale and counts rescales
func (c *CountingEvaluator) Rescale(ct, ctOut *rlwe.Ciphertext) error {
	c.Ops.Rescales++
	return c.eval.Rescale(ct, ctOut)
}

// AddNew wraps eval.AddNew and counts additions
func (c *CountingEvaluator) AddNew(ct1, ct2 *rlwe.Ciphertext) (*rlwe.Ciphertext, error) {
	c.Ops.Adds++
	return c.eval.AddNew(ct1, ct2)
}

// AddPlainNew adds a plaintext and counts it as an addition
func (c *CountingEvaluator) AddPlainNew(ct *rlwe.Ciphertext, pt *rlwe.Plaintext) (*rlwe.Ciphertext, error) {
	c.Ops.Adds++
	return c.eval.AddNew(ct, pt)
}
