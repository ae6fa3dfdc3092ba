package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dcshock/tabprep/pipeline"
	"github.com/dcshock/tabprep/prep"
)

func TestRegistry_RegisterGet(t *testing.T) {
	reg := NewRegistry()
	stage := pipeline.Identity()
	reg.Register("id", stage)
	s, ok := reg.Get("id")
	if !ok || s == nil {
		t.Fatal("Get(id) should return stage")
	}
	_, ok = reg.Get("missing")
	if ok {
		t.Error("Get(missing) should return false")
	}
}

func TestRegistry_MustGet_Panic(t *testing.T) {
	reg := NewRegistry()
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustGet missing should panic")
		}
	}()
	reg.MustGet("nope")
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := NewRegistry()
	prep.Register(reg)
	want := []string{"clean", "encode", "impute", "load", "scale", "split", "write"}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("names: got %v", got)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("name: minimal\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "minimal" {
		t.Errorf("name: got %q", cfg.Name)
	}
	if cfg.Input != prep.DefaultInput || cfg.OutputDir != prep.DefaultOutputDir {
		t.Errorf("paths: %q %q", cfg.Input, cfg.OutputDir)
	}
	if cfg.TestSize != 0.2 || cfg.Seed != 42 || !cfg.Stratify {
		t.Errorf("split: %v %v %v", cfg.TestSize, cfg.Seed, cfg.Stratify)
	}
	if !reflect.DeepEqual(cfg.StageNames(), prep.StageNames()) {
		t.Errorf("stages: %v", cfg.StageNames())
	}
	if cfg.LabelMapping["M"] != 1 || cfg.LabelMapping["B"] != 0 || len(cfg.LabelMapping) != 2 {
		t.Errorf("mapping: %v", cfg.LabelMapping)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestParse_WithOptions(t *testing.T) {
	data := `
name: custom
input: data/raw.csv
output_dir: out
test_size: 0.25
seed: 7
stratify: false
impute_scope: train
label_policy: lenient
label_mapping:
  pos: 1
  neg: 0
stages:
  - load
  - name: clean
    timeout: 60s
  - encode
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Stages) != 3 {
		t.Fatalf("stages: got %d", len(cfg.Stages))
	}
	if s := cfg.Stages[1]; s.Name != "clean" || s.Timeout.Duration() != 60*time.Second {
		t.Errorf("stage 1: %+v", s)
	}
	if !reflect.DeepEqual(cfg.LabelMapping, map[string]int{"pos": 1, "neg": 0}) {
		t.Errorf("mapping should replace default: %v", cfg.LabelMapping)
	}
	opts := cfg.Options()
	if opts.ImputeScope != prep.ImputeTrain || opts.LabelPolicy != prep.LabelLenient || opts.Stratify {
		t.Errorf("options: %+v", opts)
	}
	if opts.TestSize != 0.25 || opts.Seed != 7 || opts.Input != "data/raw.csv" || opts.OutputDir != "out" {
		t.Errorf("options: %+v", opts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := map[string]func(c *Config){
		"test size zero":    func(c *Config) { c.TestSize = 0 },
		"test size one":     func(c *Config) { c.TestSize = 1 },
		"bad impute scope":  func(c *Config) { c.ImputeScope = "everything" },
		"bad label policy":  func(c *Config) { c.LabelPolicy = "loose" },
		"no input":          func(c *Config) { c.Input = "" },
		"no output":         func(c *Config) { c.OutputDir = "" },
		"no stages":         func(c *Config) { c.Stages = nil },
		"unnamed stage":     func(c *Config) { c.Stages = []StageRef{{}} },
		"no label mapping":  func(c *Config) { c.LabelMapping = nil },
		"no label column":   func(c *Config) { c.LabelColumn = "" },
		"negative duration": func(c *Config) { c.Stages[0].Timeout = Duration(-time.Second) },
		"negative label":    func(c *Config) { c.LabelMapping["U"] = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParse_BadYAML(t *testing.T) {
	if _, err := Parse([]byte("stages: [load\n")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("stages:\n  - name: load\n    timeout: soon\n")); err == nil {
		t.Error("expected duration error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("name: from-file\nseed: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "from-file" || cfg.Seed != 3 {
		t.Errorf("cfg: %+v", cfg)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestBuildPipeline(t *testing.T) {
	reg := NewRegistry()
	double := pipeline.Transform(func(ctx context.Context, n int) (int, error) { return n * 2, nil })
	reg.Register("double", double)
	reg.Register("id", pipeline.Identity())

	cfg := &Config{
		Name:   "math",
		Stages: []StageRef{{Name: "id"}, {Name: "double", Timeout: Duration(time.Second)}},
	}
	p, err := BuildPipeline(reg, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "math" || len(p.Stages) != 2 {
		t.Fatalf("pipeline: %+v", p)
	}
	out, err := p.RunWithInput(context.Background(), 21, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != 42 {
		t.Errorf("expected 42, got %v", out)
	}
}

func TestBuildPipeline_UnknownStage(t *testing.T) {
	reg := NewRegistry()
	reg.Register("a", pipeline.Identity())
	cfg := &Config{Name: "x", Stages: []StageRef{{Name: "a"}, {Name: "not-registered"}}}
	_, err := BuildPipeline(reg, cfg)
	if err == nil || !strings.Contains(err.Error(), "not-registered") {
		t.Fatalf("expected unknown stage error, got %v", err)
	}
	if _, err := BuildPipeline(reg, nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestBuildPipeline_StageTimeout(t *testing.T) {
	reg := NewRegistry()
	reg.Register("slow", func(ctx context.Context, in interface{}) (interface{}, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := &Config{Name: "slow", Stages: []StageRef{{Name: "slow", Timeout: Duration(10 * time.Millisecond)}}}
	p, err := BuildPipeline(reg, cfg)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.RunWithInput(context.Background(), nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestDuration_Unmarshal(t *testing.T) {
	data := []byte("timeout: 30s")
	var s struct {
		Timeout Duration `yaml:"timeout"`
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		t.Fatal(err)
	}
	if s.Timeout.Duration() != 30*time.Second {
		t.Errorf("got %v", s.Timeout.Duration())
	}
}

func TestBuildPipeline_PrepStagesEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "raw.csv")
	csv := "id,diagnosis,radius,texture\n" +
		"1,M,17.9,10.3\n2,B,12.5,17.7\n3,B,11.6,\n4,M,20.2,14.3\n5,B,12.4,15.7\n" +
		"6,B,13.0,15.7\n7,M,19.1,24.8\n8,B,9.5,12.4\n9,M,21.1,23.0\n10,B,11.4,20.3\n"
	if err := os.WriteFile(input, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Input = input
	cfg.OutputDir = filepath.Join(dir, "out")
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry()
	prep.Register(reg)
	p, err := BuildPipeline(reg, cfg)
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.RunWithInput(context.Background(), prep.NewState(cfg.Options()), nil)
	if err != nil {
		t.Fatal(err)
	}
	state, ok := out.(*prep.State)
	if !ok || state.Result == nil {
		t.Fatalf("unexpected output %T", out)
	}
	if state.Result.XTrain.Rows() != 8 || state.Result.XTest.Rows() != 2 {
		t.Errorf("rows: %d/%d", state.Result.XTrain.Rows(), state.Result.XTest.Rows())
	}
	for _, name := range []string{prep.XTrainFile, prep.XTestFile, prep.YTrainFile, prep.YTestFile} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
