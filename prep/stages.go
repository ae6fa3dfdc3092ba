package prep

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcshock/tabprep/pipeline"
	"github.com/dcshock/tabprep/table"
)

// Stage names, in the order a full run executes them.
const (
	StageLoad   = "load"
	StageClean  = "clean"
	StageEncode = "encode"
	StageImpute = "impute"
	StageSplit  = "split"
	StageScale  = "scale"
	StageWrite  = "write"
)

// ErrStageOrder is returned when a stage runs before the stage that feeds it.
var ErrStageOrder = errors.New("stage run out of order")

// State is the payload passed between preparation stages. Each stage fills in
// the fields later stages read.
type State struct {
	Options    Options
	SourcePath string

	Raw *table.Raw
	X   *table.Frame
	Y   table.Labels

	Imputer *Imputer
	Scaler  *StandardScaler
	Result  *Result
}

// NewState returns an empty state for opts.
func NewState(opts Options) *State {
	return &State{Options: opts}
}

// StageNames returns the canonical stage order of a full run.
func StageNames() []string {
	return []string{StageLoad, StageClean, StageEncode, StageImpute, StageSplit, StageScale, StageWrite}
}

var stageFuncs = map[string]pipeline.ConvertFunc[*State, *State]{
	StageLoad:   load,
	StageClean:  clean,
	StageEncode: encode,
	StageImpute: impute,
	StageSplit:  split,
	StageScale:  scale,
	StageWrite:  write,
}

// Registrar is anything stages can be registered on by name.
type Registrar interface {
	Register(name string, stage pipeline.Stage)
}

// Register adds every preparation stage to r under its stage name.
func Register(r Registrar) {
	for _, name := range StageNames() {
		r.Register(name, pipeline.Transform(stageFuncs[name]))
	}
}

// NewPipeline builds a pipeline running the named stages in order.
func NewPipeline(name string, stages ...string) (*pipeline.Pipeline, error) {
	p := &pipeline.Pipeline{Name: name}
	for _, s := range stages {
		fn, ok := stageFuncs[s]
		if !ok {
			return nil, fmt.Errorf("unknown stage %q", s)
		}
		p.Stages = append(p.Stages, pipeline.Transform(fn))
	}
	return p, nil
}

// Prepare turns an already loaded table into scaled train and test partitions.
// Nothing is read from or written to disk.
func Prepare(ctx context.Context, raw *table.Raw, opts Options) (*Result, error) {
	p, err := NewPipeline("prepare", StageClean, StageEncode, StageImpute, StageSplit, StageScale)
	if err != nil {
		return nil, err
	}
	state := NewState(opts)
	state.Raw = raw
	out, err := p.RunWithInput(ctx, state, nil)
	if err != nil {
		return nil, err
	}
	return out.(*State).Result, nil
}

// Run executes every stage from load to write. runOpts may be nil.
func Run(ctx context.Context, opts Options, runOpts *pipeline.RunOptions) (*Result, error) {
	p, err := NewPipeline("prep", StageNames()...)
	if err != nil {
		return nil, err
	}
	out, err := p.RunWithInput(ctx, NewState(opts), runOpts)
	if err != nil {
		return nil, err
	}
	return out.(*State).Result, nil
}

func requires(stage, what string, missing bool) error {
	if missing {
		return fmt.Errorf("%w: %s needs %s", ErrStageOrder, stage, what)
	}
	return nil
}

func load(ctx context.Context, s *State) (*State, error) {
	raw, used, err := table.Open(s.Options.Input, s.Options.FallbackDir)
	if err != nil {
		return nil, err
	}
	s.Raw, s.SourcePath = raw, used
	pipeline.Logger(ctx).Info("raw data loaded", "path", used, "rows", raw.Rows(), "columns", len(raw.Names()))
	return s, nil
}

func clean(ctx context.Context, s *State) (*State, error) {
	if err := requires(StageClean, "a loaded table", s.Raw == nil); err != nil {
		return nil, err
	}
	raw, dropped, err := Clean(s.Raw)
	if err != nil {
		return nil, err
	}
	s.Raw = raw
	pipeline.Logger(ctx).Info("columns dropped", "dropped", dropped, "remaining", len(raw.Names()))
	return s, nil
}

func encode(ctx context.Context, s *State) (*State, error) {
	if err := requires(StageEncode, "a loaded table", s.Raw == nil); err != nil {
		return nil, err
	}
	column := s.Options.LabelColumn
	if column == "" {
		column = DefaultLabelColumn
	}
	mapping := s.Options.LabelMapping
	if len(mapping) == 0 {
		mapping = DefaultLabelMapping()
	}
	X, y, err := EncodeLabel(s.Raw, column, mapping, s.Options.LabelPolicy)
	if err != nil {
		return nil, err
	}
	s.X, s.Y = X, y
	logger := pipeline.Logger(ctx)
	logger.Info("label encoded", "column", column, "features", len(X.Columns), "classes", y.Counts())
	if n := y.Counts()[table.Missing]; n > 0 {
		logger.Warn("unmapped labels kept as missing", "rows", n)
	}
	return s, nil
}

func impute(ctx context.Context, s *State) (*State, error) {
	if err := requires(StageImpute, "encoded features", s.X == nil); err != nil {
		return nil, err
	}
	if s.Options.ImputeScope == ImputeTrain {
		pipeline.Logger(ctx).Info("imputation deferred to train partition", "missing", CountMissing(s.X))
		return s, nil
	}
	missing := CountMissing(s.X)
	s.Imputer = FitImputer(s.X)
	X, err := s.Imputer.Transform(s.X)
	if err != nil {
		return nil, err
	}
	s.X = X
	pipeline.Logger(ctx).Info("missing values imputed", "scope", ImputeFull, "filled", missing)
	return s, nil
}

func split(ctx context.Context, s *State) (*State, error) {
	if err := requires(StageSplit, "encoded features", s.X == nil); err != nil {
		return nil, err
	}
	var (
		res *Result
		err error
	)
	if s.Options.Stratify {
		res, err = StratifiedSplit(s.X, s.Y, s.Options.TestSize, s.Options.Seed)
	} else {
		res, err = ShuffleSplit(s.X, s.Y, s.Options.TestSize, s.Options.Seed)
	}
	if err != nil {
		return nil, err
	}
	if s.Options.ImputeScope == ImputeTrain {
		missing := CountMissing(res.XTrain) + CountMissing(res.XTest)
		s.Imputer = FitImputer(res.XTrain)
		if res.XTrain, err = s.Imputer.Transform(res.XTrain); err != nil {
			return nil, err
		}
		if res.XTest, err = s.Imputer.Transform(res.XTest); err != nil {
			return nil, err
		}
		pipeline.Logger(ctx).Info("missing values imputed", "scope", ImputeTrain, "filled", missing)
	}
	s.Result = res
	pipeline.Logger(ctx).Info("data split",
		"train_rows", res.XTrain.Rows(), "test_rows", res.XTest.Rows(),
		"features", len(res.XTrain.Columns), "stratified", s.Options.Stratify)
	return s, nil
}

func scale(ctx context.Context, s *State) (*State, error) {
	if err := requires(StageScale, "a split", s.Result == nil); err != nil {
		return nil, err
	}
	s.Scaler = FitScaler(s.Result.XTrain)
	xTrain, err := s.Scaler.Transform(s.Result.XTrain)
	if err != nil {
		return nil, err
	}
	xTest, err := s.Scaler.Transform(s.Result.XTest)
	if err != nil {
		return nil, err
	}
	s.Result = &Result{XTrain: xTrain, XTest: xTest, YTrain: s.Result.YTrain, YTest: s.Result.YTest}
	pipeline.Logger(ctx).Info("features scaled", "columns", len(xTrain.Columns))
	return s, nil
}

func write(ctx context.Context, s *State) (*State, error) {
	if err := requires(StageWrite, "a split", s.Result == nil); err != nil {
		return nil, err
	}
	if err := Persist(s.Result, s.Options.OutputDir); err != nil {
		return nil, err
	}
	pipeline.Logger(ctx).Info("preprocessing complete", "output_dir", s.Options.OutputDir)
	return s, nil
}
