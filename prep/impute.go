package prep

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/dcshock/tabprep/table"
)

// Imputer replaces missing (NaN) cells with per-column medians.
type Imputer struct {
	Columns []string
	Medians []float64
}

// FitImputer computes the median of the non-missing values of every column.
// A column with no values at all gets a median of 0.
func FitImputer(X *table.Frame) *Imputer {
	im := &Imputer{
		Columns: append([]string(nil), X.Columns...),
		Medians: make([]float64, len(X.Columns)),
	}
	for j := range X.Columns {
		im.Medians[j] = median(X.Col(j))
	}
	return im
}

// Transform returns a copy of X with every NaN replaced by its column median.
// X must have the columns the imputer was fit on, in the same order.
func (im *Imputer) Transform(X *table.Frame) (*table.Frame, error) {
	if !slices.Equal(im.Columns, X.Columns) {
		return nil, fmt.Errorf("impute: fit on %v, got %v", im.Columns, X.Columns)
	}
	out := mat.DenseCopyOf(X.Data)
	out.Apply(func(i, j int, v float64) float64 {
		if math.IsNaN(v) {
			return im.Medians[j]
		}
		return v
	}, out)
	return X.WithData(out)
}

// CountMissing returns the number of NaN cells in X.
func CountMissing(X *table.Frame) int {
	n := 0
	for _, v := range X.Data.RawMatrix().Data {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// median of the non-NaN values; the mean of the two middle values for even counts.
func median(values []float64) float64 {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	n := len(present)
	if n == 0 {
		return 0
	}
	sort.Float64s(present)
	mid := n / 2
	if n%2 == 0 {
		return (present[mid-1] + present[mid]) / 2
	}
	return present[mid]
}
