package config

import (
	"fmt"

	"github.com/dcshock/tabprep/pipeline"
)

// BuildPipeline builds a pipeline.Pipeline from config and registry. Stage names in
// config must be registered; a stage with a timeout is wrapped with pipeline.WithTimeout.
func BuildPipeline(reg *Registry, cfg *Config) (*pipeline.Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	stages := make([]pipeline.Stage, 0, len(cfg.Stages))
	for i, ref := range cfg.Stages {
		if ref.Name == "" {
			return nil, fmt.Errorf("stage %d: name required", i)
		}
		stage, ok := reg.Get(ref.Name)
		if !ok {
			return nil, fmt.Errorf("stage %d: %q not in registry (known: %v)", i, ref.Name, reg.Names())
		}
		if ref.Timeout < 0 {
			return nil, fmt.Errorf("stage %d (%q): negative timeout", i, ref.Name)
		}
		if ref.Timeout > 0 {
			stage = pipeline.WithTimeout(stage, ref.Timeout.Duration())
		}
		stages = append(stages, stage)
	}
	return &pipeline.Pipeline{Name: cfg.Name, Stages: stages}, nil
}
