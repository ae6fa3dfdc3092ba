package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// ErrNotFound is returned when the input file exists at neither the given nor the
// fallback location.
var ErrNotFound = errors.New("input file not found")

// DefaultFallbackDir is the directory one level above the running executable.
// Returns "" when the executable path cannot be determined.
func DefaultFallbackDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(exe), "..")
}

// Resolve returns path if it is a regular file, otherwise fallbackDir joined with
// the base name of path. Only one fallback is tried.
func Resolve(path, fallbackDir string) (string, error) {
	if isFile(path) {
		return path, nil
	}
	if fallbackDir == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	alt := filepath.Join(fallbackDir, filepath.Base(path))
	if isFile(alt) {
		return alt, nil
	}
	return "", fmt.Errorf("%w: %s (also tried %s)", ErrNotFound, path, alt)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Open resolves path (see Resolve) and reads it as CSV. It returns the table and
// the path actually read.
func Open(path, fallbackDir string) (*Raw, string, error) {
	resolved, err := Resolve(path, fallbackDir)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", resolved, err)
	}
	defer f.Close()
	raw, err := Read(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", resolved, err)
	}
	return raw, resolved, nil
}

// WriteFrame writes f as CSV: a header of column names, then one line per row.
// Floats use the shortest representation that round-trips, so output is stable.
func WriteFrame(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return err
	}
	record := make([]string, len(f.Columns))
	for i := 0; i < f.Rows(); i++ {
		for j, v := range f.Data.RawRowView(i) {
			record[j] = formatFloat(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLabels writes l as a single-column CSV headed by l.Name. Missing labels are
// written as empty cells.
func WriteLabels(w io.Writer, l Labels) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{l.Name}); err != nil {
		return err
	}
	for _, v := range l.Values {
		cell := ""
		if v != Missing {
			cell = strconv.Itoa(v)
		}
		if err := cw.Write([]string{cell}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteFile creates (or truncates) path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
