package prep

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dcshock/tabprep/table"
)

// Output file names written by Persist.
const (
	XTrainFile = "X_train.csv"
	XTestFile  = "X_test.csv"
	YTrainFile = "y_train.csv"
	YTestFile  = "y_test.csv"
)

// Persist writes the four partitions of res into dir, creating it if needed.
// Existing files are overwritten.
func Persist(res *Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{XTrainFile, func(w io.Writer) error { return table.WriteFrame(w, res.XTrain) }},
		{XTestFile, func(w io.Writer) error { return table.WriteFrame(w, res.XTest) }},
		{YTrainFile, func(w io.Writer) error { return table.WriteLabels(w, res.YTrain) }},
		{YTestFile, func(w io.Writer) error { return table.WriteLabels(w, res.YTest) }},
	}
	for _, f := range files {
		if err := table.WriteFile(filepath.Join(dir, f.name), f.write); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}
