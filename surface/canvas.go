// Package surface is the drawing surface: a transparent raster that strokes
// are painted onto with a round brush.
package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Default pen, matching the drawing pad.
const DefaultPenWidth = 40

// DefaultInk is the stroke colour (#5EDB88). Only its alpha matters to the
// classifier.
var DefaultInk = color.NRGBA{R: 0x5e, G: 0xdb, B: 0x88, A: 0xff}

// Canvas holds the raster and the pointer state. It is not safe for
// concurrent use.
type Canvas struct {
	img     *image.NRGBA
	ink     *image.Uniform
	width   float64
	drawing bool
	last    point
}

type point struct{ x, y float64 }

// NewCanvas returns a blank w×h canvas with the default pen.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		img:   image.NewNRGBA(image.Rect(0, 0, w, h)),
		ink:   image.NewUniform(DefaultInk),
		width: DefaultPenWidth,
	}
}

// SetPen changes the brush diameter and colour.
func (c *Canvas) SetPen(width float64, ink color.Color) {
	c.width = width
	c.ink = image.NewUniform(ink)
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Drawing reports whether a stroke is in progress.
func (c *Canvas) Drawing() bool { return c.drawing }

// StartStroke begins a stroke and paints a dot under the pointer.
func (c *Canvas) StartStroke(x, y float64) {
	c.drawing = true
	c.last = point{x, y}
	c.dab(x, y)
}

// MoveTo extends the current stroke with a round-capped segment. It does
// nothing when no stroke is in progress.
func (c *Canvas) MoveTo(x, y float64) {
	if !c.drawing {
		return
	}
	from := c.last
	dx, dy := x-from.x, y-from.y
	// one dab per pixel of travel keeps the segment solid
	steps := int(math.Ceil(math.Hypot(dx, dy)))
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.dab(from.x+dx*t, from.y+dy*t)
	}
	if steps == 0 {
		c.dab(x, y)
	}
	c.last = point{x, y}
}

// EndStroke finishes the stroke in progress, if any.
func (c *Canvas) EndStroke() {
	c.drawing = false
}

// Clear erases the canvas. The pointer state is kept.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Snapshot returns a copy of the raster.
func (c *Canvas) Snapshot() *image.NRGBA {
	out := image.NewNRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

// dab paints one filled disc of the pen diameter centred on (x, y).
func (c *Canvas) dab(x, y float64) {
	r := c.width / 2
	area := image.Rect(
		int(math.Floor(x-r)), int(math.Floor(y-r)),
		int(math.Ceil(x+r))+1, int(math.Ceil(y+r))+1,
	)
	draw.DrawMask(c.img, area, c.ink, image.Point{}, &disc{cx: x, cy: y, r: r}, area.Min, draw.Over)
}

// disc is an image.Image mask that is opaque inside the circle.
type disc struct {
	cx, cy, r float64
}

func (d *disc) ColorModel() color.Model { return color.AlphaModel }

func (d *disc) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(d.cx-d.r)), int(math.Floor(d.cy-d.r)),
		int(math.Ceil(d.cx+d.r))+1, int(math.Ceil(d.cy+d.r))+1,
	)
}

func (d *disc) At(x, y int) color.Color {
	px, py := float64(x)+0.5-d.cx, float64(y)+0.5-d.cy
	if px*px+py*py <= d.r*d.r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
