package nn

import (
	"time"

	"github.com/pkg/errors"

	"inkdigit/core/ckkswrapper"
	"inkdigit/nn/layers"
)

// PrivateTiming splits the cost of one encrypted prediction.
type PrivateTiming struct {
	Encrypt time.Duration
	Linear  time.Duration
	Decrypt time.Duration
	Plain   time.Duration
	Ops     layers.OpCounts
}

// PrivateNetwork evaluates the first layer on a CKKS-encrypted intensity
// vector. Only the 128 hidden pre-activations are ever decrypted; ReLU and
// the remaining layers run in plaintext.
type PrivateNetwork struct {
	net *Network
	he  *ckkswrapper.HeContext

	// Progress, when set, is called after each encrypted output column.
	Progress layers.Progress
	// Last holds the timing of the most recent Predict call.
	Last PrivateTiming
}

// NewPrivateNetwork checks that he can hold the input and tree-sum it.
func NewPrivateNetwork(net *Network, he *ckkswrapper.HeContext) (*PrivateNetwork, error) {
	if he.Params.MaxSlots() < InputSize {
		return nil, errors.Errorf("%d slots cannot hold %d inputs", he.Params.MaxSlots(), InputSize)
	}
	if need := ckkswrapper.TreeSumRotations(InputSize); len(he.Rotations()) < len(need) {
		return nil, errors.Errorf("context has %d rotation keys, need %d", len(he.Rotations()), len(need))
	}
	return &PrivateNetwork{net: net, he: he}, nil
}

// Hidden returns layer 1's pre-activations computed under encryption.
func (p *PrivateNetwork) Hidden(x *Intensity) ([]float64, error) {
	start := time.Now()
	ct, err := p.he.EncryptVector(x[:])
	if err != nil {
		return nil, errors.WithMessage(err, "encrypt intensity")
	}
	p.Last.Encrypt = time.Since(start)

	start = time.Now()
	cts, ops, err := p.net.linears[0].ForwardCipher(p.he, ct, p.Progress)
	p.Last.Ops = ops
	if err != nil {
		return nil, errors.WithMessage(err, "encrypted layer 0")
	}
	p.Last.Linear = time.Since(start)

	start = time.Now()
	pre := make([]float64, len(cts))
	for i, c := range cts {
		v, err := p.he.DecryptVector(c, 1)
		if err != nil {
			return nil, errors.WithMessagef(err, "decrypt hidden %d", i)
		}
		pre[i] = v[0]
	}
	p.Last.Decrypt = time.Since(start)
	return pre, nil
}

// Predict runs the hybrid forward pass.
func (p *PrivateNetwork) Predict(x *Intensity) (Probabilities, error) {
	pre, err := p.Hidden(x)
	if err != nil {
		return Probabilities{}, err
	}
	start := time.Now()
	probs, err := p.net.fromHidden(pre)
	p.Last.Plain = time.Since(start)
	return probs, err
}
