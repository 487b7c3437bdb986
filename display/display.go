// Package display renders a probability vector. The classifier only
// depends on the Display interface.
package display

import (
	"image/color"
	"strconv"

	"inkdigit/nn"
)

// Display consumes one prediction.
type Display interface {
	Render(p nn.Probabilities) error
}

// Func adapts a function to Display.
type Func func(p nn.Probabilities) error

func (f Func) Render(p nn.Probabilities) error { return f(p) }

// BarColor is the colour of the probability bars.
var BarColor = color.NRGBA{R: 0x5e, G: 0xdb, B: 0x88, A: 0xff}

// MinBarHeight keeps near-zero bars visible.
const MinBarHeight = 3

// BarHeight returns the bar height in percent for probability p. Anything
// at or below one percent is drawn at MinBarHeight.
func BarHeight(p float64) float64 {
	if h := p * 100; h > 1 {
		return h
	}
	return MinBarHeight
}

// Title is the hover text of a bar.
func Title(p float64) string {
	return "Prob: " + strconv.FormatFloat(p, 'g', -1, 64)
}

// Recorder keeps the last rendered vector.
type Recorder struct {
	Last  nn.Probabilities
	Count int
}

func (r *Recorder) Render(p nn.Probabilities) error {
	r.Last = p
	r.Count++
	return nil
}

type multi []Display

// Multi renders to every display in order and returns the first error.
func Multi(ds ...Display) Display {
	return multi(ds)
}

func (m multi) Render(p nn.Probabilities) error {
	var first error
	for _, d := range m {
		if err := d.Render(p); err != nil && first == nil {
			first = err
		}
	}
	return first
}
