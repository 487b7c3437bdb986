package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgmaxTopK(t *testing.T) {
	p := Probabilities{0.05, 0.1, 0.02, 0.4, 0.03, 0.2, 0.05, 0.05, 0.05, 0.05}
	assert.Equal(t, 3, p.Argmax())
	assert.Equal(t, []int{3, 5, 1}, p.TopK(3))
	assert.Len(t, p.TopK(20), OutputSize)
	assert.Empty(t, p.TopK(-1))
	assert.InDelta(t, 1.0, p.Sum(), 1e-12)
}

func TestArgmaxTiesPickLowestDigit(t *testing.T) {
	var p Probabilities
	for i := range p {
		p[i] = 0.1
	}
	assert.Equal(t, 0, p.Argmax())
	assert.Equal(t, []int{0, 1}, p.TopK(2))
}
