package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// nanValues are the cells read as missing. Everything else is kept verbatim.
var nanValues = []string{"NA", "NaN", "nan", "<nil>"}

// Raw is the table as read from CSV: ordered named columns of string cells.
type Raw struct {
	df dataframe.DataFrame
}

// Read parses CSV from r. The first row is the header. Every column is read as
// string so no value is coerced before the label column has been looked at.
// Header names are normalised first (see normalizeHeader).
func Read(r io.Reader) (*Raw, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return FromRecords(records)
}

// FromRecords builds a Raw table from a header row followed by data rows.
func FromRecords(records [][]string) (*Raw, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("load records: no header row")
	}
	rows := make([][]string, len(records))
	copy(rows, records)
	rows[0] = normalizeHeader(records[0])
	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("load records: %w", df.Err)
	}
	return &Raw{df: df}, nil
}

// normalizeHeader names columns the way pandas.read_csv does. A blank cell at
// index i becomes "Unnamed: i", which is how a trailing comma on every line shows
// up. A repeated name gets a ".1", ".2", ... suffix, skipping names already taken.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		out[i] = name
	}
	taken := make(map[string]bool, len(out))
	for _, name := range out {
		taken[name] = true
	}
	seen := make(map[string]int, len(out))
	for i, name := range out {
		n := seen[name]
		seen[name] = n + 1
		if n == 0 {
			continue
		}
		candidate := name + "." + strconv.Itoa(n)
		for taken[candidate] {
			n++
			candidate = name + "." + strconv.Itoa(n)
		}
		seen[name] = n + 1
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}

// Names returns the column names in file order.
func (r *Raw) Names() []string {
	if r.df.Ncol() == 0 {
		return nil
	}
	return r.df.Names()
}

// Rows returns the number of data rows.
func (r *Raw) Rows() int { return r.df.Nrow() }

// Has reports whether a column named name exists.
func (r *Raw) Has(name string) bool {
	for _, n := range r.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Strings returns the cells of column name; missing cells read as "NaN".
func (r *Raw) Strings(name string) ([]string, bool) {
	if !r.Has(name) {
		return nil, false
	}
	return r.df.Col(name).Records(), true
}

// Floats returns column name parsed as float64. Missing or unparsable cells are NaN.
func (r *Raw) Floats(name string) ([]float64, bool) {
	if !r.Has(name) {
		return nil, false
	}
	return r.df.Col(name).Float(), true
}

// Select returns a table with only the named columns, in the given order.
// Unknown names are ignored.
func (r *Raw) Select(names []string) (*Raw, error) {
	keep := make([]string, 0, len(names))
	for _, n := range names {
		if r.Has(n) {
			keep = append(keep, n)
		}
	}
	if len(keep) == 0 {
		return &Raw{}, nil
	}
	df := r.df.Select(keep)
	if df.Err != nil {
		return nil, fmt.Errorf("select columns: %w", df.Err)
	}
	return &Raw{df: df}, nil
}
