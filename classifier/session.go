// Package classifier ties the drawing surface, the sampler, a predictor and a
// display into one pointer-driven session.
package classifier

import (
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"inkdigit/display"
	"inkdigit/nn"
	"inkdigit/sampler"
	"inkdigit/surface"
	"inkdigit/utils"
)

// Predictor maps an intensity vector to digit probabilities.
// *nn.PrivateNetwork implements it directly.
type Predictor interface {
	Predict(x *nn.Intensity) (nn.Probabilities, error)
}

type plain struct{ net *nn.Network }

// Plain adapts a plaintext network, which cannot fail once built.
func Plain(net *nn.Network) Predictor { return plain{net} }

func (p plain) Predict(x *nn.Intensity) (nn.Probabilities, error) {
	return p.net.Predict(x), nil
}

// Session is the state of one drawing pad: the canvas, whether a stroke is
// in progress, and the last prediction. It is not safe for concurrent use.
type Session struct {
	ID     uuid.UUID
	Canvas *surface.Canvas

	predictor Predictor
	display   display.Display

	// Stats accumulates timings over all predictions of the session.
	Stats       utils.TimingStats
	Predictions int
	Last        nn.Probabilities
}

// NewSession draws on canvas and reports every prediction to d.
func NewSession(canvas *surface.Canvas, p Predictor, d display.Display) *Session {
	s := &Session{ID: uuid.New(), Canvas: canvas, predictor: p, display: d}
	klog.V(1).Infof("session %s: %dx%d canvas", s.ID, canvas.Bounds().Dx(), canvas.Bounds().Dy())
	return s
}

// PointerDown starts a stroke at (x, y).
func (s *Session) PointerDown(x, y float64) {
	s.Canvas.StartStroke(x, y)
}

// PointerMove extends the stroke in progress, if any.
func (s *Session) PointerMove(x, y float64) {
	s.Canvas.MoveTo(x, y)
}

// PointerUp ends the stroke and classifies the canvas.
func (s *Session) PointerUp() (nn.Probabilities, error) {
	s.Canvas.EndStroke()
	return s.Refresh()
}

// PointerLeave behaves like PointerUp: leaving the pad ends the stroke.
func (s *Session) PointerLeave() (nn.Probabilities, error) {
	return s.PointerUp()
}

// Clear erases the canvas and classifies the blank result.
func (s *Session) Clear() (nn.Probabilities, error) {
	s.Canvas.Clear()
	return s.Refresh()
}

// Refresh classifies the current canvas.
func (s *Session) Refresh() (nn.Probabilities, error) {
	return s.Classify(s.Canvas.Snapshot())
}

// Classify runs sample, predict and render on img.
func (s *Session) Classify(img image.Image) (nn.Probabilities, error) {
	var stats utils.TimingStats
	start := time.Now()

	x := sampler.Intensity(img)
	stats.SampleTime = time.Since(start)

	t := time.Now()
	probs, err := s.predictor.Predict(&x)
	if err != nil {
		return nn.Probabilities{}, errors.WithMessage(err, "predict")
	}
	stats.ForwardPassTime = time.Since(t)
	if pn, ok := s.predictor.(*nn.PrivateNetwork); ok {
		stats.EncryptionTime = pn.Last.Encrypt
		stats.HELinearTime = pn.Last.Linear
		stats.DecryptionTime = pn.Last.Decrypt
		klog.V(2).Infof("session %s: encrypted layer %s", s.ID, pn.Last.Ops)
	}

	t = time.Now()
	if err := s.display.Render(probs); err != nil {
		return probs, errors.WithMessage(err, "render")
	}
	stats.DisplayTime = time.Since(t)
	stats.TotalTime = time.Since(start)

	s.Stats.Add(stats)
	s.Predictions++
	s.Last = probs
	if klog.V(1).Enabled() {
		best := probs.Argmax()
		klog.Infof("session %s: prediction %d is %d (p=%.4f) in %v", s.ID, s.Predictions, best, probs[best], stats.TotalTime)
	}
	return probs, nil
}
