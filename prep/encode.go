package prep

import (
	"errors"
	"fmt"

	"github.com/dcshock/tabprep/table"
)

var (
	// ErrLabelMissing is returned when the label column is absent after cleaning.
	ErrLabelMissing = errors.New("label column not found")
	// ErrUnknownLabel is returned under LabelStrict for a value outside the mapping.
	ErrUnknownLabel = errors.New("unexpected label value")
	// ErrNoFeatures is returned when nothing but the label column is left.
	ErrNoFeatures = errors.New("no feature columns")
	// ErrEmpty is returned when the table has no data rows.
	ErrEmpty = errors.New("table has no rows")
)

// EncodeLabel separates the label column from the features. Label cells are mapped
// through mapping; every other column is parsed as float64 with missing cells as NaN.
// Feature column order follows the table.
func EncodeLabel(raw *table.Raw, column string, mapping map[string]int, policy LabelPolicy) (*table.Frame, table.Labels, error) {
	cells, ok := raw.Strings(column)
	if !ok {
		return nil, table.Labels{}, fmt.Errorf("%w: %q", ErrLabelMissing, column)
	}
	if raw.Rows() == 0 {
		return nil, table.Labels{}, ErrEmpty
	}

	labels := table.Labels{Name: column, Values: make([]int, len(cells))}
	for i, cell := range cells {
		v, ok := mapping[cell]
		if !ok {
			if policy != LabelLenient {
				return nil, table.Labels{}, fmt.Errorf("%w: row %d of %q is %q", ErrUnknownLabel, i+1, column, cell)
			}
			v = table.Missing
		}
		labels.Values[i] = v
	}

	var names []string
	var cols [][]float64
	for _, name := range raw.Names() {
		if name == column {
			continue
		}
		col, _ := raw.Floats(name)
		names = append(names, name)
		cols = append(cols, col)
	}
	if len(names) == 0 {
		return nil, table.Labels{}, ErrNoFeatures
	}
	X, err := table.NewFrame(names, cols)
	if err != nil {
		return nil, table.Labels{}, err
	}
	return X, labels, nil
}
