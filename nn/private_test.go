//go:build !exclude_he

package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkdigit/core/ckkswrapper"
)

func TestPrivateNetworkMatchesPlain(t *testing.T) {
	if testing.Short() {
		t.Skip("encrypted forward pass over 128 columns")
	}
	rng := rand.New(rand.NewSource(21))
	net, err := NewNetwork(randomParams(rng))
	require.NoError(t, err)

	he, err := ckkswrapper.NewHeContext(InputSize)
	require.NoError(t, err)
	priv, err := NewPrivateNetwork(net, he)
	require.NoError(t, err)

	columns := 0
	priv.Progress = func(done, total int) {
		columns = done
		assert.Equal(t, Hidden1Size, total)
	}

	x := randomIntensity(rng)
	hidden, err := priv.Hidden(x)
	require.NoError(t, err)
	assert.Equal(t, Hidden1Size, columns)

	tr := net.Trace(x)
	maxDiff := 0.0
	for i := range hidden {
		maxDiff = math.Max(maxDiff, math.Abs(hidden[i]-tr.PreActivations[0][i]))
	}
	t.Logf("max hidden divergence: %e", maxDiff)
	assert.Less(t, maxDiff, 1e-3)

	got, err := priv.Predict(x)
	require.NoError(t, err)
	want := net.Predict(x)
	assert.InDeltaSlice(t, want[:], got[:], 1e-3)
	assert.InDelta(t, 1.0, got.Sum(), 1e-6)
	assert.Greater(t, int64(priv.Last.Linear), int64(0))
	assert.Equal(t, Hidden1Size, priv.Last.Ops.Muls)
	assert.Equal(t, Hidden1Size*len(he.Rotations()), priv.Last.Ops.Rotations)
}

func TestPrivateNetworkRejectsSmallContext(t *testing.T) {
	net, err := NewNetwork(identityParams())
	require.NoError(t, err)

	he, err := ckkswrapper.NewHeContext(16)
	require.NoError(t, err)
	_, err = NewPrivateNetwork(net, he)
	assert.Error(t, err)
}

func TestFromHiddenRejectsWrongWidth(t *testing.T) {
	net, err := NewNetwork(identityParams())
	require.NoError(t, err)
	_, err = net.fromHidden(make([]float64, 3))
	assert.ErrorIs(t, err, ErrShape)
}
