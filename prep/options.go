package prep

// ImputeScope selects which rows the imputer medians are computed from.
type ImputeScope string

const (
	// ImputeFull fits medians on every row before the split.
	ImputeFull ImputeScope = "full"
	// ImputeTrain fits medians on the train partition and applies them to both partitions.
	ImputeTrain ImputeScope = "train"
)

// LabelPolicy decides what happens to label values outside the mapping.
type LabelPolicy string

const (
	// LabelStrict rejects any unmapped label value.
	LabelStrict LabelPolicy = "strict"
	// LabelLenient turns unmapped label values into table.Missing.
	LabelLenient LabelPolicy = "lenient"
)

const (
	DefaultInput       = "../breastcancer_raw.csv"
	DefaultOutputDir   = "breastcancer_preprocessing"
	DefaultLabelColumn = "diagnosis"
	DefaultTestSize    = 0.2
	DefaultSeed        = 42
)

// DefaultLabelMapping returns the diagnosis encoding: malignant 1, benign 0.
func DefaultLabelMapping() map[string]int {
	return map[string]int{"M": 1, "B": 0}
}

// Options parameterise a preparation run.
type Options struct {
	Input       string // raw CSV path
	FallbackDir string // directory tried with the base name of Input when Input is absent
	OutputDir   string

	// TestSize is the held-out fraction in (0,1). The test partition gets
	// ceil(TestSize*rows) rows, so 569 rows at 0.2 give 114 test and 455 train.
	TestSize float64
	Seed     int64
	Stratify bool

	ImputeScope ImputeScope

	LabelColumn  string
	LabelMapping map[string]int
	LabelPolicy  LabelPolicy
}

// DefaultOptions returns the options of the reference breast-cancer run. FallbackDir
// is left empty; callers set it (usually to table.DefaultFallbackDir()).
func DefaultOptions() Options {
	return Options{
		Input:        DefaultInput,
		OutputDir:    DefaultOutputDir,
		TestSize:     DefaultTestSize,
		Seed:         DefaultSeed,
		Stratify:     true,
		ImputeScope:  ImputeFull,
		LabelColumn:  DefaultLabelColumn,
		LabelMapping: DefaultLabelMapping(),
		LabelPolicy:  LabelStrict,
	}
}
