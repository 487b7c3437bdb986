package classifier

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkdigit/display"
	"inkdigit/nn"
	"inkdigit/surface"
	"inkdigit/tensor"
)

// inkPredictor puts all mass on digit 1 when anything is drawn, else on 0.
type inkPredictor struct {
	calls int
	ink   float64
}

func (p *inkPredictor) Predict(x *nn.Intensity) (nn.Probabilities, error) {
	p.calls++
	p.ink = 0
	for _, v := range x {
		p.ink += v
	}
	var out nn.Probabilities
	if p.ink > 0 {
		out[1] = 1
	} else {
		out[0] = 1
	}
	return out, nil
}

func newTestSession(p Predictor) (*Session, *display.Recorder) {
	rec := &display.Recorder{}
	return NewSession(surface.NewCanvas(280, 280), p, rec), rec
}

func TestStrokeLifecycle(t *testing.T) {
	pred := &inkPredictor{}
	s, rec := newTestSession(pred)

	probs, err := s.Refresh()
	require.NoError(t, err)
	assert.Equal(t, 0, probs.Argmax(), "blank canvas")
	assert.Equal(t, 1, rec.Count)

	s.PointerDown(140, 40)
	s.PointerMove(140, 240)
	assert.Equal(t, 1, pred.calls, "moving does not predict")
	assert.True(t, s.Canvas.Drawing())

	probs, err = s.PointerUp()
	require.NoError(t, err)
	assert.False(t, s.Canvas.Drawing())
	assert.Equal(t, 1, probs.Argmax())
	assert.Greater(t, pred.ink, 10.0)
	assert.Equal(t, probs, rec.Last)
	assert.Equal(t, probs, s.Last)
	assert.Equal(t, 2, s.Predictions)

	probs, err = s.Clear()
	require.NoError(t, err)
	assert.Equal(t, 0, probs.Argmax())
	assert.Zero(t, pred.ink)
	assert.Equal(t, 3, rec.Count)
}

func TestPointerLeaveEndsStroke(t *testing.T) {
	pred := &inkPredictor{}
	s, rec := newTestSession(pred)

	s.PointerDown(10, 10)
	_, err := s.PointerLeave()
	require.NoError(t, err)
	assert.False(t, s.Canvas.Drawing())
	assert.Equal(t, 1, rec.Count)

	// moves after leaving paint nothing
	s.PointerMove(200, 200)
	before := pred.ink
	_, err = s.Refresh()
	require.NoError(t, err)
	assert.Equal(t, before, pred.ink)
}

type failingPredictor struct{}

func (failingPredictor) Predict(*nn.Intensity) (nn.Probabilities, error) {
	return nn.Probabilities{}, errors.New("no keys")
}

func TestErrorsAreReported(t *testing.T) {
	s, rec := newTestSession(failingPredictor{})
	_, err := s.Refresh()
	assert.ErrorContains(t, err, "no keys")
	assert.Equal(t, 0, rec.Count)
	assert.Equal(t, 0, s.Predictions)

	s = NewSession(surface.NewCanvas(56, 56), &inkPredictor{}, display.Func(func(nn.Probabilities) error {
		return errors.New("closed")
	}))
	probs, err := s.Refresh()
	assert.ErrorContains(t, err, "closed")
	assert.Equal(t, 0, probs.Argmax(), "probabilities are still returned")
}

func TestPlainNetworkOnBlankImage(t *testing.T) {
	net, err := nn.NewNetwork(nn.Params{
		W0: tensor.New(nn.InputSize, nn.Hidden1Size), B0: tensor.New(nn.Hidden1Size),
		W1: tensor.New(nn.Hidden1Size, nn.Hidden2Size), B1: tensor.New(nn.Hidden2Size),
		W2: tensor.New(nn.Hidden2Size, nn.OutputSize), B2: tensor.New(nn.OutputSize),
	})
	require.NoError(t, err)

	s, rec := newTestSession(Plain(net))
	probs, err := s.Classify(image.NewNRGBA(image.Rect(0, 0, 100, 100)))
	require.NoError(t, err)
	for _, p := range probs {
		assert.InDelta(t, 0.1, p, 1e-12)
	}
	assert.Equal(t, probs, rec.Last)
	assert.NotEqual(t, s.ID.String(), NewSession(surface.NewCanvas(1, 1), Plain(net), rec).ID.String())
}
