package layers

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestReLU(t *testing.T) {
	in := []float64{-1, 0, 3, -0.5, 2.25}
	got := ReLU(in)
	assert.Equal(t, []float64{0, 0, 3, 0, 2.25}, got)
	// input untouched
	assert.Equal(t, -1.0, in[0])
}

func TestReLUNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		in := make([]float64, 1+rng.Intn(64))
		for i := range in {
			in[i] = rng.NormFloat64() * 100
		}
		for i, v := range ReLU(in) {
			if v < 0 {
				t.Fatalf("trial %d: ReLU(%f) = %f", trial, in[i], v)
			}
		}
	}
}

func TestSoftmaxIsDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 100; trial++ {
		in := make([]float64, 10)
		for i := range in {
			in[i] = rng.NormFloat64() * 50
		}
		out := Softmax(in)
		sum := 0.0
		for _, p := range out {
			require.GreaterOrEqual(t, p, 0.0)
			require.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	}
}

func TestSoftmaxShiftInvariance(t *testing.T) {
	in := []float64{0.5, -1.25, 3, 0, 2.5, -7, 1, 1, 0.25, 4}
	base := Softmax(in)
	for _, c := range []float64{-1000, -3.5, 0.1, 42, 1e4} {
		shifted := make([]float64, len(in))
		for i, v := range in {
			shifted[i] = v + c
		}
		assert.InDeltaSlice(t, base, Softmax(shifted), 1e-9, "shift %v", c)
	}
}

func TestSoftmaxLargeLogits(t *testing.T) {
	out := Softmax([]float64{1000, 1000, 999})
	for _, p := range out {
		require.False(t, math.IsNaN(p) || math.IsInf(p, 0))
	}
	e := math.Exp(-1)
	assert.InDelta(t, 1/(2+e), out[0], 1e-12)
	assert.InDelta(t, e/(2+e), out[2], 1e-12)
}

func TestSoftmaxUniformAndEmpty(t *testing.T) {
	out := Softmax(make([]float64, 10))
	for _, p := range out {
		assert.InDelta(t, 0.1, p, 1e-15)
	}
	assert.Empty(t, Softmax(nil))
}

func TestNewActivation(t *testing.T) {
	act, err := NewActivation("relu")
	require.NoError(t, err)
	assert.Equal(t, "relu", act.String())

	out, err := act.Forward(mat.NewVecDense(3, []float64{-2, 0.5, 1}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, out.RawVector().Data)

	sm, err := NewActivation("softmax")
	require.NoError(t, err)
	out, err = sm.Forward(mat.NewVecDense(2, []float64{1, 1}))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out.AtVec(0), 1e-15)

	_, err = NewActivation("ReLU3")
	assert.Error(t, err)
}
