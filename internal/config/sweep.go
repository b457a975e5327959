package config

import (
	"fmt"
	"os"

	"github.com/povarna/sonar-sweep/internal/trend"
	"go.yaml.in/yaml/v3"
)

const defaultConfigPath = "configs/sweep.yaml"

// LoadSweepConfig reads the profile at SWEEP_CONFIG_PATH (or the default
// path). A missing default file yields the built-in defaults.
func LoadSweepConfig() (*SweepConfig, error) {
	path := os.Getenv("SWEEP_CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			cfg := &SweepConfig{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseSweepConfig(data)
}

func ParseSweepConfig(data []byte) (*SweepConfig, error) {
	var cfg SweepConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *SweepConfig) {
	if cfg.Analysis.WindowWidth == 0 {
		cfg.Analysis.WindowWidth = 3
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = "text"
	}
}

func (c *SweepConfig) Validate() error {
	if c.Analysis.WindowWidth < 1 {
		return fmt.Errorf("invalid window_width %d: must be at least 1", c.Analysis.WindowWidth)
	}

	switch c.Report.Format {
	case "text", "jsonl":
	default:
		return fmt.Errorf("invalid report format %q: supported formats are text, jsonl", c.Report.Format)
	}

	for key := range c.Report.Labels {
		switch trend.Label(key) {
		case trend.LabelNoPrevious, trend.LabelIncreased, trend.LabelDecreased, trend.LabelUnchanged:
		default:
			return fmt.Errorf("unknown label %q", key)
		}
	}

	return nil
}

// TrendLabels converts the label overrides to trend labels.
func (c *SweepConfig) TrendLabels() map[trend.Label]string {
	labels := make(map[trend.Label]string, len(c.Report.Labels))
	for key, text := range c.Report.Labels {
		labels[trend.Label(key)] = text
	}
	return labels
}
