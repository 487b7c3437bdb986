package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkdigit/nn"
)

var sample = nn.Probabilities{0.01, 0.02, 0.005, 0.6, 0.1, 0.05, 0.1, 0.05, 0.045, 0.02}

func TestBarHeight(t *testing.T) {
	assert.Equal(t, 60.0, BarHeight(0.6))
	assert.InDelta(t, 2.0, BarHeight(0.02), 1e-12)
	assert.Equal(t, 3.0, BarHeight(0.01))
	assert.Equal(t, 3.0, BarHeight(0))
	assert.Equal(t, 100.0, BarHeight(1))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Prob: 0.25", Title(0.25))
	assert.Equal(t, "Prob: 1", Title(1))
	assert.Equal(t, "Prob: 1e-07", Title(1e-7))
}

func TestRecorderAndMulti(t *testing.T) {
	var a, b Recorder
	failing := Func(func(nn.Probabilities) error { return errors.New("boom") })

	err := Multi(&a, failing, &b).Render(sample)
	assert.EqualError(t, err, "boom")
	assert.Equal(t, sample, a.Last)
	assert.Equal(t, sample, b.Last, "later displays still render after an error")
	assert.Equal(t, 1, a.Count)

	require.NoError(t, Multi(&a).Render(nn.Probabilities{}))
	assert.Equal(t, 2, a.Count)
	assert.Equal(t, nn.Probabilities{}, a.Last)
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, WithWidth(20), WithProfile(termenv.Ascii))
	require.NoError(t, term.Render(sample))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	for digit, line := range lines {
		assert.True(t, strings.HasPrefix(line, string(rune('0'+digit))+" "), "line %q", line)
	}
	assert.True(t, strings.HasSuffix(lines[3], " <"), "best digit is marked: %q", lines[3])
	assert.Contains(t, lines[3], "60%")
	assert.Contains(t, lines[3], strings.Repeat("█", 12))
	assert.NotContains(t, lines[4], "<")
	assert.Contains(t, lines[2], "0.5%")
	// floor bar: 3% of 20 cells rounds to one cell
	assert.Equal(t, 1, strings.Count(lines[2], "█"))
}

func TestChartWritesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewChart(&buf).Render(sample))
	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", buf.String()[:8])
}
