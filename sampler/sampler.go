// Package sampler turns a drawing of any size into the network's
// intensity vector.
//
// The source is halved repeatedly while it is more than twice the target
// width, then resized once to exactly target×target. Every step uses the
// box filter, which on an even halving is an exact 2×2 area average.
package sampler

import (
	"image"

	"github.com/disintegration/imaging"

	"inkdigit/nn"
)

// Filter is the resampling kernel used for every step.
var Filter = imaging.Box

// Schedule returns the sizes the source passes through, ending with
// target×target.
func Schedule(width, height, target int) []image.Point {
	var steps []image.Point
	for width > target*2 {
		width, height = half(width), half(height)
		steps = append(steps, image.Pt(width, height))
	}
	return append(steps, image.Pt(target, target))
}

// Sample returns target² alpha values in [0,1], row-major.
func Sample(img image.Image, target int) []float64 {
	out := make([]float64, target*target)
	if img == nil || img.Bounds().Empty() || target <= 0 {
		return out
	}

	b := img.Bounds()
	var cur image.Image = img
	for _, step := range Schedule(b.Dx(), b.Dy(), target) {
		cur = imaging.Resize(cur, step.X, step.Y, Filter)
	}

	small := cur.(*image.NRGBA)
	for y := 0; y < target; y++ {
		row := small.Pix[y*small.Stride:]
		for x := 0; x < target; x++ {
			out[y*target+x] = float64(row[x*4+3]) / 255
		}
	}
	return out
}

// Intensity samples img at the network resolution.
func Intensity(img image.Image) nn.Intensity {
	var x nn.Intensity
	copy(x[:], Sample(img, nn.Resolution))
	return x
}

func half(v int) int {
	if v/2 < 1 {
		return 1
	}
	return v / 2
}
