package display

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"inkdigit/nn"
)

// Chart encodes each prediction as a PNG bar chart.
type Chart struct {
	w             io.Writer
	Width, Height vg.Length
}

// NewChart writes charts to w.
func NewChart(w io.Writer) *Chart {
	return &Chart{w: w, Width: 4 * vg.Inch, Height: 3 * vg.Inch}
}

func (c *Chart) Render(p nn.Probabilities) error {
	pl := plot.New()
	pl.Title.Text = "Digit probabilities"
	pl.Y.Label.Text = "%"
	pl.Y.Min, pl.Y.Max = 0, 100

	vals := make(plotter.Values, len(p))
	names := make([]string, len(p))
	for i, v := range p {
		vals[i] = BarHeight(v)
		names[i] = strconv.Itoa(i)
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(16))
	if err != nil {
		return errors.Wrap(err, "bar chart")
	}
	bars.Color = BarColor
	bars.LineStyle.Width = 0
	pl.Add(bars)
	pl.NominalX(names...)

	wt, err := pl.WriterTo(c.Width, c.Height, "png")
	if err != nil {
		return errors.Wrap(err, "png canvas")
	}
	_, err = wt.WriteTo(c.w)
	return errors.Wrap(err, "write chart")
}
