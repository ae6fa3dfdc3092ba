package prep

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/dcshock/tabprep/table"
)

// StandardScaler centres every column on its mean and divides by its population
// standard deviation. A constant column keeps a scale of 1.
type StandardScaler struct {
	Columns []string
	Mean    []float64
	Scale   []float64
}

// FitScaler learns per-column mean and scale from X.
func FitScaler(X *table.Frame) *StandardScaler {
	s := &StandardScaler{
		Columns: append([]string(nil), X.Columns...),
		Mean:    make([]float64, len(X.Columns)),
		Scale:   make([]float64, len(X.Columns)),
	}
	for j := range X.Columns {
		mean, std := stat.PopMeanStdDev(X.Col(j), nil)
		if std == 0 {
			std = 1
		}
		s.Mean[j], s.Scale[j] = mean, std
	}
	return s
}

// Transform returns (X - mean) / scale for every cell of X.
func (s *StandardScaler) Transform(X *table.Frame) (*table.Frame, error) {
	if !slices.Equal(s.Columns, X.Columns) {
		return nil, fmt.Errorf("scale: fit on %v, got %v", s.Columns, X.Columns)
	}
	r, c := X.Data.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X.Data)
	return X.WithData(out)
}
