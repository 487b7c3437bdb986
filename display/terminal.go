package display

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"inkdigit/nn"
)

// Terminal draws one horizontal bar per digit.
type Terminal struct {
	w     io.Writer
	r     *lipgloss.Renderer
	width int

	bar, best, label lipgloss.Style
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithWidth sets the length of a full (100%) bar in cells.
func WithWidth(cells int) TerminalOption {
	return func(t *Terminal) { t.width = cells }
}

// WithProfile forces a colour profile, e.g. termenv.Ascii for plain text.
func WithProfile(p termenv.Profile) TerminalOption {
	return func(t *Terminal) { t.r.SetColorProfile(p) }
}

// NewTerminal renders to w, detecting colour support from w.
func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{w: w, r: lipgloss.NewRenderer(w), width: 40}
	for _, opt := range opts {
		opt(t)
	}
	hex := fmt.Sprintf("#%02X%02X%02X", BarColor.R, BarColor.G, BarColor.B)
	t.bar = t.r.NewStyle().Foreground(lipgloss.Color("#3A7F55")).Width(t.width)
	t.best = t.r.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true).Width(t.width)
	t.label = t.r.NewStyle().Faint(true)
	return t
}

func (t *Terminal) Render(p nn.Probabilities) error {
	best := p.Argmax()
	lines := make([]string, 0, len(p))
	for digit, v := range p {
		cells := int(math.Round(BarHeight(v) / 100 * float64(t.width)))
		style, mark := t.bar, ""
		if digit == best {
			style, mark = t.best, " <"
		}
		lines = append(lines, fmt.Sprintf("%d %s %s%s",
			digit,
			style.Render(strings.Repeat("█", cells)),
			t.label.Render(humanize.FtoaWithDigits(v*100, 2)+"%"),
			mark,
		))
	}
	_, err := fmt.Fprintln(t.w, strings.Join(lines, "\n"))
	return err
}
