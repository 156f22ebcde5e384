// Package bench implements the brute-force-vs-indexed benchmark
// harness: it flushes the Storage cache between trials so each trial's
// page-access counters start from zero, runs a bounded number of
// trials, and reports average timing alongside the final counters.
package bench

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the harness's trial/time-budget parameters, an optional
// page-size override, and the key range a trial scans over. All fields
// have library defaults so an empty Config is already runnable.
type Config struct {
	MaxTrials         int     `yaml:"max_trials"`
	TimeBudgetSeconds float64 `yaml:"time_budget_seconds"`
	PageSizeOverride  int     `yaml:"page_size_override"`
	KeyMin            float32 `yaml:"key_min"`
	KeyMax            float32 `yaml:"key_max"`
}

// DefaultConfig matches §4.8: up to 1000 trials or 30 seconds,
// whichever comes first, over the full [0, 1] fg_pct_home range.
func DefaultConfig() Config {
	return Config{
		MaxTrials:         1000,
		TimeBudgetSeconds: 30,
		KeyMin:            0,
		KeyMax:            1,
	}
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig,
// leaving any field the file omits at its default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("bench: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("bench: parse config %s: %w", path, err)
	}
	return cfg, nil
}
