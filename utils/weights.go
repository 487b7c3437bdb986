package utils

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"regexp"

	"github.com/pkg/errors"

	"inkdigit/nn"
	"inkdigit/tensor"
)

// WeightData represents serializable weight data for a layer
type WeightData struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// ModelWeights represents all weights in a model
type ModelWeights struct {
	Version string                 `json:"version"`
	Layers  map[string]LayerWeight `json:"layers"`
}

// LayerWeight contains weights and bias for a layer
type LayerWeight struct {
	Weight *WeightData `json:"weight,omitempty"`
	Bias   *WeightData `json:"bias,omitempty"`
}

// LayerNames are the ModelWeights keys of the three dense layers, in order.
var LayerNames = [3]string{"layer0", "layer1", "layer2"}

// SaveWeights saves model weights to a JSON file
func SaveWeights(filepath string, weights *ModelWeights) error {
	data, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal weights")
	}
	return errors.Wrap(os.WriteFile(filepath, data, 0644), "failed to write weights file")
}

// WeightsFromParams packs p under the layer0..layer2 keys.
func WeightsFromParams(p nn.Params) *ModelWeights {
	ts := [3][2]*tensor.Tensor{{p.W0, p.B0}, {p.W1, p.B1}, {p.W2, p.B2}}
	mw := &ModelWeights{Version: "1.0", Layers: make(map[string]LayerWeight, len(LayerNames))}
	for k, name := range LayerNames {
		mw.Layers[name] = LayerWeight{
			Weight: TensorToWeightData(name+"_weight", ts[k][0]),
			Bias:   TensorToWeightData(name+"_bias", ts[k][1]),
		}
	}
	return mw
}

// LoadWeights loads model weights from a JSON file
func LoadWeights(filepath string) (*ModelWeights, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read weights file")
	}
	defer f.Close()
	return DecodeWeights(f)
}

// DecodeWeights reads ModelWeights JSON from r.
func DecodeWeights(r io.Reader) (*ModelWeights, error) {
	var weights ModelWeights
	if err := json.NewDecoder(r).Decode(&weights); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal weights")
	}
	return &weights, nil
}

// Params converts the three dense layers. Shapes are checked by nn.NewNetwork.
func (mw *ModelWeights) Params() (nn.Params, error) {
	var ts [6]*tensor.Tensor
	for k, name := range LayerNames {
		lw, ok := mw.Layers[name]
		if !ok {
			return nn.Params{}, errors.Errorf("weights have no layer %q", name)
		}
		if lw.Weight == nil || lw.Bias == nil {
			return nn.Params{}, errors.Errorf("layer %q needs both weight and bias", name)
		}
		ts[2*k] = WeightDataToTensor(lw.Weight)
		ts[2*k+1] = WeightDataToTensor(lw.Bias)
	}
	return nn.Params{W0: ts[0], B0: ts[1], W1: ts[2], B1: ts[3], W2: ts[4], B2: ts[5]}, nil
}

// TensorToWeightData converts a tensor to serializable weight data
func TensorToWeightData(name string, t *tensor.Tensor) *WeightData {
	return &WeightData{
		Name:  name,
		Shape: append([]int(nil), t.Shape...),
		Data:  append([]float64{}, t.Data...), // copy
	}
}

// WeightDataToTensor converts weight data back to a tensor. The data is
// copied as-is, so a length that disagrees with the shape is caught by
// tensor.CheckShape.
func WeightDataToTensor(wd *WeightData) *tensor.Tensor {
	return &tensor.Tensor{
		Data:  append([]float64{}, wd.Data...),
		Shape: append([]int(nil), wd.Shape...),
	}
}

// RawWeights is the nested-array artifact: weightK[j][i] connects input j
// to output i of layer K.
type RawWeights struct {
	Weight0 [][]float64 `json:"weight0"`
	Weight1 [][]float64 `json:"weight1"`
	Weight2 [][]float64 `json:"weight2"`
	Bias0   []float64   `json:"bias0"`
	Bias1   []float64   `json:"bias1"`
	Bias2   []float64   `json:"bias2"`
}

// LoadRawWeights loads a nested-array artifact. Either a JSON object or a
// file of `export const name = [...]` statements is accepted.
func LoadRawWeights(filepath string) (*RawWeights, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read weights file")
	}
	return DecodeRawWeights(data)
}

var exportRE = regexp.MustCompile(`export\s+const\s+(\w+)\s*=\s*`)

// DecodeRawWeights parses a nested-array artifact.
func DecodeRawWeights(data []byte) (*RawWeights, error) {
	var raw RawWeights
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal weights")
		}
		return &raw, nil
	}

	fields := map[string]any{
		"weight0": &raw.Weight0, "weight1": &raw.Weight1, "weight2": &raw.Weight2,
		"bias0": &raw.Bias0, "bias1": &raw.Bias1, "bias2": &raw.Bias2,
	}
	matches := exportRE.FindAllSubmatchIndex(data, -1)
	if len(matches) == 0 {
		return nil, errors.New("no JSON object or export statements found")
	}
	for _, m := range matches {
		name := string(data[m[2]:m[3]])
		dst, ok := fields[name]
		if !ok {
			continue
		}
		// the decoder stops after one value, so trailing `;` and later
		// statements are ignored
		if err := json.NewDecoder(bytes.NewReader(data[m[1]:])).Decode(dst); err != nil {
			return nil, errors.Wrapf(err, "failed to parse export %q", name)
		}
	}
	return &raw, nil
}

// Params converts the nested arrays into tensors.
func (rw *RawWeights) Params() (nn.Params, error) {
	var p nn.Params
	var err error
	pairs := []struct {
		name string
		rows [][]float64
		dst  **tensor.Tensor
	}{
		{"weight0", rw.Weight0, &p.W0},
		{"weight1", rw.Weight1, &p.W1},
		{"weight2", rw.Weight2, &p.W2},
	}
	for _, pair := range pairs {
		if *pair.dst, err = tensor.FromRows(pair.rows); err != nil {
			return nn.Params{}, errors.WithMessage(err, pair.name)
		}
	}
	for name, b := range map[string][]float64{"bias0": rw.Bias0, "bias1": rw.Bias1, "bias2": rw.Bias2} {
		if len(b) == 0 {
			return nn.Params{}, errors.Errorf("%s is missing", name)
		}
	}
	p.B0 = tensor.NewWithData(rw.Bias0)
	p.B1 = tensor.NewWithData(rw.Bias1)
	p.B2 = tensor.NewWithData(rw.Bias2)
	return p, nil
}

// LoadParams reads an artifact in the given format.
func LoadParams(filepath, format string) (nn.Params, error) {
	switch format {
	case FormatJSON:
		mw, err := LoadWeights(filepath)
		if err != nil {
			return nn.Params{}, err
		}
		return mw.Params()
	case FormatRaw:
		rw, err := LoadRawWeights(filepath)
		if err != nil {
			return nn.Params{}, err
		}
		return rw.Params()
	}
	return nn.Params{}, errors.Errorf("unknown weights format %q", format)
}
