package table

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrEmptyFrame is returned when a frame would have no rows or no columns.
var ErrEmptyFrame = errors.New("frame has no rows or no columns")

// Frame is a dense numeric table: ordered column names over a rows x columns matrix.
// Missing cells are NaN.
type Frame struct {
	Columns []string
	Data    *mat.Dense
}

// NewFrame builds a frame from column-major data: cols[j] holds column j.
func NewFrame(columns []string, cols [][]float64) (*Frame, error) {
	if len(columns) == 0 || len(cols) == 0 || len(cols[0]) == 0 {
		return nil, ErrEmptyFrame
	}
	if len(columns) != len(cols) {
		return nil, fmt.Errorf("frame: %d names for %d columns", len(columns), len(cols))
	}
	rows := len(cols[0])
	data := mat.NewDense(rows, len(cols), nil)
	for j, col := range cols {
		if len(col) != rows {
			return nil, fmt.Errorf("frame: column %q has %d rows, want %d", columns[j], len(col), rows)
		}
		data.SetCol(j, col)
	}
	return &Frame{Columns: append([]string(nil), columns...), Data: data}, nil
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	r, _ := f.Data.Dims()
	return r
}

// Col returns a copy of column j.
func (f *Frame) Col(j int) []float64 {
	return mat.Col(nil, j, f.Data)
}

// Row returns a copy of row i.
func (f *Frame) Row(i int) []float64 {
	return mat.Row(nil, i, f.Data)
}

// Take returns a new frame holding the given rows in the given order.
func (f *Frame) Take(rows []int) (*Frame, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFrame
	}
	out := mat.NewDense(len(rows), len(f.Columns), nil)
	for k, i := range rows {
		out.SetRow(k, f.Data.RawRowView(i))
	}
	return &Frame{Columns: append([]string(nil), f.Columns...), Data: out}, nil
}

// WithData returns a frame with the same columns over data. The shape must match.
func (f *Frame) WithData(data *mat.Dense) (*Frame, error) {
	if _, c := data.Dims(); c != len(f.Columns) {
		return nil, fmt.Errorf("frame: %d columns for %d names", c, len(f.Columns))
	}
	return &Frame{Columns: append([]string(nil), f.Columns...), Data: data}, nil
}
