package utils

import "testing"

func TestValidateConfig(t *testing.T) {
	ok := Config{WeightsFile: "w.json", WeightsFormat: FormatJSON, TopK: 3}
	if err := ValidateConfig(&ok); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := map[string]func(c *Config){
		"no weights":   func(c *Config) { c.WeightsFile = "" },
		"format":       func(c *Config) { c.WeightsFormat = "csv" },
		"top-k low":    func(c *Config) { c.TopK = 0 },
		"top-k high":   func(c *Config) { c.TopK = 11 },
		"logN small":   func(c *Config) { c.Encrypted, c.LogN = true, 12 },
		"logN too big": func(c *Config) { c.Encrypted, c.LogN = true, 17 },
	}
	for name, mutate := range bad {
		c := ok
		mutate(&c)
		if err := ValidateConfig(&c); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	plain := ok
	plain.LogN = 2 // ignored without -encrypted
	if err := ValidateConfig(&plain); err != nil {
		t.Errorf("logN checked without encryption: %v", err)
	}
}
