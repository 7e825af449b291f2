package config

import "fmt"

type ExportConfig struct {
	OutputPath string `mapstructure:"output_path"`
}

func (config *ExportConfig) applyDefaults() {
	if config.OutputPath == "" {
		config.OutputPath = "./docs/data/jobs.json"
	}
}

func (config ExportConfig) validate() error {
	if config.OutputPath == "" {
		return fmt.Errorf("missing variable: export output_path")
	}
	return nil
}
