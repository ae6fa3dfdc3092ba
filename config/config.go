package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dcshock/tabprep/prep"
)

// Config is the root structure of a preparation run definition (e.g. from YAML).
type Config struct {
	Name        string `yaml:"name" validate:"required"`
	Input       string `yaml:"input" validate:"required"`
	FallbackDir string `yaml:"fallback_dir"` // empty: one level above the executable
	OutputDir   string `yaml:"output_dir" validate:"required"`

	TestSize float64 `yaml:"test_size" validate:"gt=0,lt=1"`
	Seed     int64   `yaml:"seed"`
	Stratify bool    `yaml:"stratify"`

	ImputeScope string `yaml:"impute_scope" validate:"oneof=full train"`

	LabelColumn  string         `yaml:"label_column" validate:"required"`
	LabelPolicy  string         `yaml:"label_policy" validate:"oneof=strict lenient"`
	LabelMapping map[string]int `yaml:"label_mapping" validate:"required,min=1,dive,gte=0"` // values must not collide with table.Missing

	Stages []StageRef `yaml:"stages" validate:"required,min=1,dive"`
}

// StageRef is a single stage entry: either a plain name or name + options.
// In YAML, a stage can be written as:
//   - load
//   - name: write
//     timeout: 30s
type StageRef struct {
	Name string `yaml:"name" validate:"required"`

	// Timeout applied around the stage (e.g. "60s"). Zero means no timeout.
	Timeout Duration `yaml:"timeout" validate:"gte=0"`
}

// UnmarshalYAML allows a stage to be a string (stage name only) or a struct.
func (s *StageRef) UnmarshalYAML(value *yaml.Node) error {
	var nameOnly string
	if err := value.Decode(&nameOnly); err == nil {
		s.Name = nameOnly
		return nil
	}
	type raw StageRef
	return value.Decode((*raw)(s))
}

// Duration is a time.Duration that unmarshals from YAML strings (e.g. "60s", "5m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the standard time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Default returns the configuration of the reference breast-cancer run.
func Default() *Config {
	opts := prep.DefaultOptions()
	cfg := &Config{
		Name:         "breastcancer",
		Input:        opts.Input,
		OutputDir:    opts.OutputDir,
		TestSize:     opts.TestSize,
		Seed:         opts.Seed,
		Stratify:     opts.Stratify,
		ImputeScope:  string(opts.ImputeScope),
		LabelColumn:  opts.LabelColumn,
		LabelPolicy:  string(opts.LabelPolicy),
		LabelMapping: opts.LabelMapping,
	}
	for _, name := range prep.StageNames() {
		cfg.Stages = append(cfg.Stages, StageRef{Name: name})
	}
	return cfg
}

// Parse parses YAML bytes over Default. Keys absent from data keep their default;
// an empty stage list or label mapping falls back to the default one.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	stages, mapping := cfg.Stages, cfg.LabelMapping
	cfg.Stages, cfg.LabelMapping = nil, nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Stages) == 0 {
		cfg.Stages = stages
	}
	if len(cfg.LabelMapping) == 0 {
		cfg.LabelMapping = mapping
	}
	return cfg, nil
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints (required paths, split fraction in (0,1),
// known impute scope and label policy, named stages).
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Options converts the configuration into prep options.
func (c *Config) Options() prep.Options {
	mapping := make(map[string]int, len(c.LabelMapping))
	for k, v := range c.LabelMapping {
		mapping[k] = v
	}
	return prep.Options{
		Input:        c.Input,
		FallbackDir:  c.FallbackDir,
		OutputDir:    c.OutputDir,
		TestSize:     c.TestSize,
		Seed:         c.Seed,
		Stratify:     c.Stratify,
		ImputeScope:  prep.ImputeScope(c.ImputeScope),
		LabelColumn:  c.LabelColumn,
		LabelMapping: mapping,
		LabelPolicy:  prep.LabelPolicy(c.LabelPolicy),
	}
}

// StageNames returns the configured stage names in order.
func (c *Config) StageNames() []string {
	names := make([]string, len(c.Stages))
	for i, s := range c.Stages {
		names[i] = s.Name
	}
	return names
}
