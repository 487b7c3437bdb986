package utils

import (
	"github.com/pkg/errors"
)

// Weight artifact formats.
const (
	FormatJSON = "json" // ModelWeights with layers layer0..layer2
	FormatRaw  = "raw"  // weight0..2 / bias0..2 nested arrays, plain JSON or JS exports
)

// Config holds inference configuration
type Config struct {
	WeightsFile   string
	WeightsFormat string
	InputFile     string
	Encrypted     bool
	LogN          int
	TopK          int
	ChartFile     string
	Plain         bool
	Verbose       bool
}

// ValidateConfig validates inference configuration
func ValidateConfig(config *Config) error {
	if config.WeightsFile == "" {
		return errors.New("a weights file is required")
	}

	if config.WeightsFormat != FormatJSON && config.WeightsFormat != FormatRaw {
		return errors.Errorf("weights format must be %q or %q, got %q", FormatJSON, FormatRaw, config.WeightsFormat)
	}

	if config.TopK < 1 || config.TopK > 10 {
		return errors.Errorf("top-k must be between 1 and 10, got %d", config.TopK)
	}

	if config.Encrypted && (config.LogN < 13 || config.LogN > 16) {
		return errors.Errorf("logN must be between 13 and 16, got %d", config.LogN)
	}

	return nil
}
